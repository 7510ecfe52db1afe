// Package uid provides short identifier generation for shared-memory naming.
//
// Segment names must stay well under restrictive platform name-length limits
// (macOS caps POSIX shm names around 31 characters), so identifiers are fixed
// at 16 lowercase hex characters rather than a full UUID string.
package uid

import (
	"strings"

	"github.com/google/uuid"
)

// Length is the number of hex characters in a generated identifier.
const Length = 16

// New returns a fresh 16-character lowercase hex identifier.
//
// The identifier is derived from a random UUID, keeping the first 64 bits.
// Collisions across concurrently generated segment groups are therefore as
// unlikely as a 64-bit random collision, which is acceptable for segments
// whose lifetime is a single transfer.
func New() string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")[:Length]
}

// Valid reports whether s is a well-formed identifier: exactly Length
// lowercase hex characters.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
