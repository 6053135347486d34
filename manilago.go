// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/LeeDigitalWorks/manilago/cmd"
)

func main() {
	cmd.Execute()
}
