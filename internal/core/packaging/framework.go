// Package packaging classifies the content of package archives for the host framework.
package packaging

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

const (
	familyAny         = ""
	familyFramework   = "netfx"
	familyNet         = "net"
	familyCoreApp     = "netcoreapp"
	familyStandard    = "netstandard"
	familyNative      = "native"
	windowsRIDPrefix  = "win-"
	frameworkAnyGroup = ""
)

// framework is a parsed target framework moniker.
type framework struct {
	family  string
	version [3]int
}

// parseFramework parses folder names such as "net472", "netstandard2.0", "net8.0" or "native".
func parseFramework(tfm string) (framework, bool) {
	name := strings.ToLower(tfm)
	switch {
	case name == frameworkAnyGroup:
		return framework{family: familyAny}, true
	case name == familyNative:
		return framework{family: familyNative}, true
	case strings.HasPrefix(name, familyStandard):
		v, ok := parseDotted(strings.TrimPrefix(name, familyStandard))
		return framework{family: familyStandard, version: v}, ok
	case strings.HasPrefix(name, familyCoreApp):
		v, ok := parseDotted(strings.TrimPrefix(name, familyCoreApp))
		return framework{family: familyCoreApp, version: v}, ok
	case strings.HasPrefix(name, familyNet):
		rest := strings.TrimPrefix(name, familyNet)
		if i := strings.IndexByte(rest, '-'); i >= 0 {
			rest = rest[:i]
		}
		if strings.Contains(rest, ".") {
			v, ok := parseDotted(rest)
			return framework{family: familyNet, version: v}, ok
		}
		v, ok := parseCompact(rest)
		return framework{family: familyFramework, version: v}, ok
	default:
		return framework{}, false
	}
}

// parseDotted parses "2.0" or "8.0".
func parseDotted(s string) ([3]int, bool) {
	var v [3]int
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return v, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return v, false
		}
		v[i] = n
	}
	return v, true
}

// parseCompact parses the digits of .NET Framework monikers, "472" meaning 4.7.2.
func parseCompact(s string) ([3]int, bool) {
	var v [3]int
	if len(s) == 0 || len(s) > 3 {
		return v, false
	}
	for i, r := range s {
		if r < '0' || r > '9' {
			return v, false
		}
		v[i] = int(r - '0')
	}
	return v, true
}

func compareVersion(a, b [3]int) int {
	for i := range a {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// maxStandard returns the highest netstandard version a target can consume.
func maxStandard(target framework) ([3]int, bool) {
	switch target.family {
	case familyStandard:
		return target.version, true
	case familyNet:
		return [3]int{2, 1}, true
	case familyCoreApp:
		switch {
		case compareVersion(target.version, [3]int{3}) >= 0:
			return [3]int{2, 1}, true
		case compareVersion(target.version, [3]int{2}) >= 0:
			return [3]int{2, 0}, true
		default:
			return [3]int{1, 6}, true
		}
	case familyFramework:
		switch {
		case compareVersion(target.version, [3]int{4, 6, 1}) >= 0:
			return [3]int{2, 0}, true
		case compareVersion(target.version, [3]int{4, 6}) >= 0:
			return [3]int{1, 3}, true
		case compareVersion(target.version, [3]int{4, 5, 1}) >= 0:
			return [3]int{1, 2}, true
		case compareVersion(target.version, [3]int{4, 5}) >= 0:
			return [3]int{1, 1}, true
		}
	}
	return [3]int{}, false
}

// rank orders a candidate group for a target; lower is nearer. ok is false when incompatible.
func rank(target, candidate framework) (int, bool) {
	switch {
	case candidate.family == familyAny:
		return 3, true
	case candidate.family == target.family:
		return 0, compareVersion(candidate.version, target.version) <= 0
	case candidate.family == familyCoreApp && target.family == familyNet:
		return 1, true
	case candidate.family == familyStandard:
		maxVersion, ok := maxStandard(target)
		return 2, ok && compareVersion(candidate.version, maxVersion) <= 0
	default:
		return 0, false
	}
}

// nearestFramework returns the group name from candidates that best matches target.
func nearestFramework(target string, candidates []string) (string, bool) {
	t, ok := parseFramework(target)
	if !ok {
		if slices.Contains(candidates, target) {
			return target, true
		}
		if slices.Contains(candidates, frameworkAnyGroup) {
			return frameworkAnyGroup, true
		}
		return "", false
	}

	type scored struct {
		name string
		rank int
		fw   framework
	}
	var compatible []scored
	for _, c := range candidates {
		fw, ok := parseFramework(c)
		if !ok {
			continue
		}
		r, ok := rank(t, fw)
		if !ok {
			continue
		}
		compatible = append(compatible, scored{name: c, rank: r, fw: fw})
	}
	if len(compatible) == 0 {
		return "", false
	}

	best := slices.MinFunc(compatible, func(a, b scored) int {
		if c := cmp.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		return compareVersion(b.fw.version, a.fw.version)
	})
	return best.name, true
}
