// Copyright 2025 ManilaGo Authors
// SPDX-License-Identifier: Apache-2.0

// Package apiversions implements the Shared File Systems microversion scheme:
// parsing, ordering, and negotiation against the server's advertised range.
package apiversions

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Wire headers defined by the service.
const (
	APIVersionHeader   = "X-OpenStack-Manila-API-Version"
	ExperimentalHeader = "X-OpenStack-Manila-API-Experimental"
)

var (
	// MinVersion is the lowest microversion this client speaks.
	MinVersion = APIVersion{Major: 2, Minor: 0}

	// MaxVersion is the highest microversion this client understands.
	MaxVersion = APIVersion{Major: 2, Minor: 65}
)

// ErrOutOfRange is returned when the client and server microversion ranges do
// not overlap.
var ErrOutOfRange = errors.New("no common API microversion with server")

// NotSupportedError reports an operation gated on a microversion range the
// negotiated version falls outside of.
type NotSupportedError struct {
	Negotiated APIVersion
	Min        APIVersion
	Max        APIVersion // zero value means open-ended
}

func (e *NotSupportedError) Error() string {
	if e.Max.IsNull() {
		return fmt.Sprintf("operation requires API version %s or later, negotiated %s",
			e.Min, e.Negotiated)
	}
	return fmt.Sprintf("operation requires API version %s-%s, negotiated %s",
		e.Min, e.Max, e.Negotiated)
}

// APIVersion is a service microversion. The zero value means "unspecified".
type APIVersion struct {
	Major int
	Minor int
}

var versionRe = regexp.MustCompile(`^([1-9]\d*)\.([1-9]\d*|0)$`)

// Parse parses a version of the form "X.Y".
func Parse(s string) (APIVersion, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return APIVersion{}, fmt.Errorf("invalid API version %q, expected format X.Y", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return APIVersion{Major: major, Minor: minor}, nil
}

// MustParse is Parse for known-good literals.
func MustParse(s string) APIVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Normalize resolves a user-requested version string. An empty string or a
// bare major version ("2") means the highest matching version the client
// supports.
func Normalize(requested string) (APIVersion, error) {
	switch requested {
	case "", "2":
		return MaxVersion, nil
	case "1":
		// The v1 API is an alias of 2.0 on the wire.
		return APIVersion{Major: 1, Minor: 0}, nil
	}
	return Parse(requested)
}

func (v APIVersion) IsNull() bool {
	return v.Major == 0 && v.Minor == 0
}

func (v APIVersion) String() string {
	if v.IsNull() {
		return "unspecified"
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or 1 ordering v against o.
func (v APIVersion) Compare(o APIVersion) int {
	switch {
	case v.Major != o.Major:
		if v.Major < o.Major {
			return -1
		}
		return 1
	case v.Minor != o.Minor:
		if v.Minor < o.Minor {
			return -1
		}
		return 1
	}
	return 0
}

func (v APIVersion) LessThan(o APIVersion) bool           { return v.Compare(o) < 0 }
func (v APIVersion) LessThanOrEqual(o APIVersion) bool    { return v.Compare(o) <= 0 }
func (v APIVersion) GreaterThan(o APIVersion) bool        { return v.Compare(o) > 0 }
func (v APIVersion) GreaterThanOrEqual(o APIVersion) bool { return v.Compare(o) >= 0 }
func (v APIVersion) Equals(o APIVersion) bool             { return v.Compare(o) == 0 }

// Matches reports whether v lies within [min, max]. A null max means the
// range is open-ended.
func (v APIVersion) Matches(min, max APIVersion) bool {
	if v.IsNull() {
		return false
	}
	if max.IsNull() {
		return v.GreaterThanOrEqual(min)
	}
	return v.GreaterThanOrEqual(min) && v.LessThanOrEqual(max)
}

// ServerVersion is one entry of the service's root version document.
type ServerVersion struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Version    string `json:"version"`
	MinVersion string `json:"min_version"`
}

// Negotiate picks the version to use given what the caller asked for and what
// the server advertises. The result is the highest version within both the
// client range [MinVersion, requested] and the server range. Servers that
// predate microversions advertise empty min/max and negotiate to 2.0.
func Negotiate(requested APIVersion, server ServerVersion) (APIVersion, error) {
	if requested.IsNull() {
		requested = MaxVersion
	}
	if requested.Major == 1 {
		// v1 rides on 2.0 semantics.
		requested = APIVersion{Major: 2, Minor: 0}
	}
	if MaxVersion.LessThan(requested) {
		// Never pin past what this client understands, whatever the server
		// advertises.
		requested = MaxVersion
	}

	if server.Version == "" && server.MinVersion == "" {
		return MinVersion, nil
	}

	serverMax, err := Parse(server.Version)
	if err != nil {
		return APIVersion{}, fmt.Errorf("server version document: %w", err)
	}
	serverMin, err := Parse(server.MinVersion)
	if err != nil {
		return APIVersion{}, fmt.Errorf("server version document: %w", err)
	}

	picked := requested
	if serverMax.LessThan(picked) {
		picked = serverMax
	}
	if picked.LessThan(serverMin) || picked.LessThan(MinVersion) {
		return APIVersion{}, fmt.Errorf(
			"%w: requested %s, client supports %s-%s, server supports %s-%s",
			ErrOutOfRange, requested, MinVersion, MaxVersion, serverMin, serverMax)
	}
	return picked, nil
}
