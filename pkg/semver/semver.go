package semver

import "fmt"

// Semver is a simple semver type compatible with btcd version info
type Semver struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// NewSemver creates a new Semver
func NewSemver(major, minor, patch uint32) Semver {
	return Semver{Major: major, Minor: minor, Patch: patch}
}

// String returns the string representation
func (s Semver) String() string {
	return fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
}

// Compatible checks if the required version is compatible with the
// actual version under semver rules: same major, actual not older.
func Compatible(required, actual Semver) bool {
	if required.Major != actual.Major {
		return false
	}
	if actual.Minor != required.Minor {
		return actual.Minor > required.Minor
	}
	return actual.Patch >= required.Patch
}

// AnyCompatible checks if nodeVer is compatible with any of the given versions
// Compatibility is based on major version only (semver rules)
func AnyCompatible(compatible []Semver, nodeVer Semver) bool {
	for _, v := range compatible {
		if v.Major == nodeVer.Major {
			return true
		}
	}
	return false
}
