/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package compat centralizes server-version capability resolution.

Command handlers never branch on version numbers themselves. They ask the
session's Resolver which API variant to use for a capability, and the answer
is a pure function of (capability, cached server version). The version is
fetched once per connection and invalidated with it.

Policy: prefer the newest call shape supported at or below the server's
reported version. When the version cannot be determined at all, fall back to
the most conservative (oldest) variant rather than failing the command.
*/
package compat

import (
	"fmt"
	"strconv"
	"strings"

	"graphsh/internal/client"
)

// Version is a server version triple. The zero value compares below every
// real release, which makes it the conservative fallback.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String returns the dotted form of the version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether v is at or above the given version.
func (v Version) AtLeast(major, minor, patch int) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// ParseVersion parses a server version string such as "1.14.2" or
// "1.14.2-beta1". Trailing non-numeric qualifiers are ignored; missing
// components default to zero.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	// Cut any pre-release or build qualifier.
	if i := strings.IndexAny(s, "-+ "); i >= 0 {
		s = s[:i]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version component %q in %q", p, s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Capability identifies a behavior whose concrete call shape differs by
// server version.
type Capability string

const (
	// CapBulkFrameDrop is the ability to drop many frames in one call.
	CapBulkFrameDrop Capability = "bulk-frame-drop"
	// CapTypedFrameListing is the ability to list frames with a type filter
	// in a single call.
	CapTypedFrameListing Capability = "typed-frame-listing"
)

// Variant names a concrete call shape a command should use.
type Variant string

const (
	// VariantBulkDrop drops frames via one DropFrames call.
	VariantBulkDrop Variant = "bulk-drop"
	// VariantPerFrameDrop drops frames one at a time, edges first, with a
	// metrics barrier between dependent types.
	VariantPerFrameDrop Variant = "per-frame-drop"

	// VariantTypedListing lists frames via ListFrames with a type filter.
	VariantTypedListing Variant = "typed-listing"
	// VariantLegacyListing lists frames via per-type FramesByType calls.
	VariantLegacyListing Variant = "legacy-listing"
)

// gate maps a capability to its modern variant, the minimum version that
// supports it, and the conservative fallback.
type gate struct {
	since    Version
	modern   Variant
	fallback Variant
}

var gates = map[Capability]gate{
	CapBulkFrameDrop:     {since: Version{1, 14, 0}, modern: VariantBulkDrop, fallback: VariantPerFrameDrop},
	CapTypedFrameListing: {since: Version{1, 10, 0}, modern: VariantTypedListing, fallback: VariantLegacyListing},
}

// ResolveFor returns the variant to use for a capability against a given
// server version. Exposed separately from Resolver for matrix testing.
func ResolveFor(cap Capability, v Version) Variant {
	g, ok := gates[cap]
	if !ok {
		return ""
	}
	if v.AtLeast(g.since.Major, g.since.Minor, g.since.Patch) {
		return g.modern
	}
	return g.fallback
}

// Resolver caches a connection's server version and answers capability
// queries for it. A Resolver is created when a session connects and is
// discarded with the session, which is what invalidates the cache.
type Resolver struct {
	conn    client.Conn
	version Version
	fetched bool
}

// NewResolver creates a Resolver bound to a connection.
func NewResolver(conn client.Conn) *Resolver {
	return &Resolver{conn: conn}
}

// ServerVersion returns the cached server version, fetching it on first use.
// When the server's answer is missing or unparseable the zero version is
// cached, which routes every capability to its oldest variant.
func (r *Resolver) ServerVersion() Version {
	if r.fetched {
		return r.version
	}
	r.fetched = true

	raw, err := r.conn.ServerVersion()
	if err != nil {
		return r.version
	}
	v, err := ParseVersion(raw)
	if err != nil {
		return r.version
	}
	r.version = v
	return r.version
}

// Resolve returns the call shape to use for a capability on this connection.
func (r *Resolver) Resolve(cap Capability) Variant {
	return ResolveFor(cap, r.ServerVersion())
}
