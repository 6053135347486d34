// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

package client

// libraryVersion is reported in the default User-Agent.
const libraryVersion = "1.0.0"
