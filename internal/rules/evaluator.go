// Package rules implements the Rule Evaluator (spec.md §4.3): a single
// Condition/Operator dispatch table, grounded on
// go-server-sdk-evaluation.v1/ldmodel.ClauseMatchesUser and its
// map[Operator]opFn dispatch, adapted to spec.md's operator set and its
// "missing attribute fails every condition except IsNull(true)" semantics.
package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Eppo-exp/eppo-go-sdk/eppovalue"
	"github.com/Eppo-exp/eppo-go-sdk/internal/sharding"
)

// Condition mirrors wire.Condition but is decoupled from the wire package so
// this package has no import-cycle dependency on it; eval adapts wire
// conditions into this shape (applying obfuscation decoding as needed).
type Condition struct {
	Attribute string
	Operator  string
	Value     eppovalue.Value
	// RegexHashTarget holds the pre-hashed attribute target for a Matches/
	// NotMatches condition evaluated against an obfuscated configuration
	// (spec.md §4.4: "compares regex conditions against md5_hex of the
	// attribute" rather than running the pattern as a regex). Empty for
	// plain configurations, where Value is used as an actual regex pattern.
	RegexHashTarget string
}

// Rule is a conjunction of Conditions (spec.md §3.4): passes iff every
// condition passes; an empty rule passes vacuously.
type Rule struct {
	Conditions []Condition
}

// Matches reports whether every condition in r passes for attrs.
func (r Rule) Matches(attrs Attributes) bool {
	for _, c := range r.Conditions {
		if !conditionMatches(c, attrs) {
			return false
		}
	}
	return true
}

func conditionMatches(c Condition, attrs Attributes) bool {
	value, present := attrs.Get(c.Attribute)

	if c.Operator == "IS_NULL" {
		expected, _ := c.Value.AsBool()
		return present == !expected
	}

	if !present {
		return false
	}

	switch c.Operator {
	case "ONE_OF":
		return stringMembership(value, c.Value, false)
	case "NOT_ONE_OF":
		return stringMembership(value, c.Value, true)
	case "GT":
		return ordered(value, c.Value, func(cmp int) bool { return cmp > 0 })
	case "GTE":
		return ordered(value, c.Value, func(cmp int) bool { return cmp >= 0 })
	case "LT":
		return ordered(value, c.Value, func(cmp int) bool { return cmp < 0 })
	case "LTE":
		return ordered(value, c.Value, func(cmp int) bool { return cmp <= 0 })
	case "MATCHES":
		return regexMatches(c, value, false)
	case "NOT_MATCHES":
		return regexMatches(c, value, true)
	default:
		return false
	}
}

func stringMembership(attr, listValue eppovalue.Value, negate bool) bool {
	list, err := listValue.AsStringArray()
	if err != nil {
		return false
	}
	s := attr.String()
	found := false
	for _, item := range list {
		if item == s {
			found = true
			break
		}
	}
	if negate {
		return !found
	}
	return found
}

func regexMatches(c Condition, attr eppovalue.Value, negate bool) bool {
	var matched bool
	if c.RegexHashTarget != "" {
		matched = sharding.MD5Hex(attr.String()) == c.RegexHashTarget
	} else {
		pattern, err := c.Value.AsString()
		if err != nil {
			return false
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		matched = re.MatchString(attr.String())
	}
	if negate {
		return !matched
	}
	return matched
}

// ordered compares attr and literal numerically if both coerce to numbers,
// else as dotted non-negative-integer "semantic versions" if both parse that
// way, else the condition fails (spec.md §4.3).
func ordered(attr, literal eppovalue.Value, test func(cmp int) bool) bool {
	if an, err := attr.AsNumber(); err == nil {
		if ln, err := literal.AsNumber(); err == nil {
			return test(compareFloat(an, ln))
		}
	}
	aStr := attr.String()
	lStr := literal.String()
	if av, ok := parseDottedVersion(aStr); ok {
		if lv, ok := parseDottedVersion(lStr); ok {
			return test(compareVersions(av, lv))
		}
	}
	return false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func parseDottedVersion(s string) ([]int, bool) {
	parts := strings.Split(s, ".")
	if len(parts) == 0 {
		return nil, false
	}
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func compareVersions(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return compareFloat(float64(av), float64(bv))
		}
	}
	return 0
}
