// Package semver orders version strings for latest-version resolution.
//
// Versions that parse as semantic versions are ordered by semver
// precedence. Anything else falls back to raw byte-wise comparison, which
// tolerates identifiers like build hashes at the cost of non-monotonic
// ordering among them.
package semver

import (
	"strings"

	blang "github.com/blang/semver/v4"
)

// Compare returns -1, 0, or +1 ordering a before, equal to, or after b.
//
// The result is a deterministic total order: Compare(a, b) and
// Compare(b, a) are always consistent, and 0 is returned only for
// identical strings. Semver build metadata carries no precedence, so two
// distinct strings that differ only in metadata are tie-broken bytewise.
func Compare(a, b string) int {
	if a == b {
		return 0
	}

	va, errA := blang.Parse(a)
	vb, errB := blang.Parse(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}

	if c := va.Compare(vb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Greater reports whether a has higher precedence than b.
func Greater(a, b string) bool {
	return Compare(a, b) > 0
}
