// Package version parses PAN-OS version strings of the form
// major.minor.patch[-hN] into comparable tuples.
package version

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/mod/semver"
)

var (
	versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-h(\d+))?$`)
	cyclePattern   = regexp.MustCompile(`^\d+\.\d+`)
)

// Tuple is a parsed version. Tuples order lexicographically by field.
type Tuple struct {
	Major  int
	Minor  int
	Patch  int
	Hotfix int
}

// Zero is used in place of a missing or unparseable version.
var Zero = Tuple{}

// Parse parses s into a Tuple. Strings that are not major.minor.patch with
// an optional -hN suffix return ok == false.
func Parse(s string) (Tuple, bool) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Tuple{}, false
	}

	var t Tuple
	var err error
	if t.Major, err = strconv.Atoi(m[1]); err != nil {
		return Tuple{}, false
	}
	if t.Minor, err = strconv.Atoi(m[2]); err != nil {
		return Tuple{}, false
	}
	if t.Patch, err = strconv.Atoi(m[3]); err != nil {
		return Tuple{}, false
	}
	if m[4] != "" {
		if t.Hotfix, err = strconv.Atoi(m[4]); err != nil {
			return Tuple{}, false
		}
	}
	return t, true
}

// Compare returns -1, 0 or +1 depending on whether t sorts before, equal to
// or after other.
func (t Tuple) Compare(other Tuple) int {
	for _, d := range [...]int{
		t.Major - other.Major,
		t.Minor - other.Minor,
		t.Patch - other.Patch,
		t.Hotfix - other.Hotfix,
	} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

// Less reports whether t sorts before other.
func (t Tuple) Less(other Tuple) bool {
	return t.Compare(other) < 0
}

func (t Tuple) String() string {
	if t.Hotfix == 0 {
		return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
	}
	return fmt.Sprintf("%d.%d.%d-h%d", t.Major, t.Minor, t.Patch, t.Hotfix)
}

// ReleaseCycle returns the leading major.minor of s, e.g. "12.1" for
// "12.1.4-h2".
func ReleaseCycle(s string) (string, bool) {
	cycle := cyclePattern.FindString(s)
	return cycle, cycle != ""
}

// CompareCycles orders release cycle keys numerically, so "9.1" sorts
// before "10.1". Keys that are not valid cycles sort after valid ones, by
// string value.
func CompareCycles(a, b string) int {
	va, vb := "v"+a, "v"+b
	okA, okB := semver.IsValid(va), semver.IsValid(vb)
	switch {
	case okA && okB:
		if c := semver.Compare(va, vb); c != 0 {
			return c
		}
	case okA:
		return -1
	case okB:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
