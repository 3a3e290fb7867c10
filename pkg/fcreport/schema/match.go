package schema

import (
	"regexp"
)

// Match returns the first candidate found by the earliest pattern.
// Pattern priority dominates candidate order.
func Match(candidates []string, patterns []*regexp.Regexp) (string, bool) {
	for _, rx := range patterns {
		for _, c := range candidates {
			if rx.MatchString(c) {
				return c, true
			}
		}
	}
	return "", false
}

// Compile compiles patterns as case-insensitive regular expressions.
func Compile(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		rx, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, err
		}
		out = append(out, rx)
	}
	return out, nil
}
