package main

import (
	"path/filepath"
	"regexp"
)

var canonicalPattern = regexp.MustCompile(`^\d{8}_\d{6}\.\w+$`)

// repairRule fixes one known way a derived name misses the canonical form.
type repairRule struct {
	name    string
	pattern *regexp.Regexp
	fix     func(name string, m []string) string
}

// The patterns are mutually exclusive, so at most one rule ever applies.
var repairRules = []repairRule{
	{
		name:    "missing separator",
		pattern: regexp.MustCompile(`^(\d{8})(\d{6})(\.\w+)$`),
		fix: func(_ string, m []string) string {
			return m[1] + "_" + m[2] + m[3]
		},
	},
	{
		name:    "trailing characters",
		pattern: regexp.MustCompile(`^\d{8}_\d{6}`),
		fix: func(name string, m []string) string {
			return m[0] + filepath.Ext(name)
		},
	},
	{
		name:    "duplicated timestamp",
		pattern: regexp.MustCompile(`^(\d{8})(\d{6})_(\d{8})(\d{6})(\.\w+)$`),
		fix: func(_ string, m []string) string {
			return m[1] + "_" + m[2] + m[5]
		},
	},
	{
		name:    "counter between timestamps",
		pattern: regexp.MustCompile(`^(\d{8})(\d{6})_(\d+)_(\d{8})(\d{6})(\.\w+)$`),
		fix: func(_ string, m []string) string {
			return m[1] + "_" + m[2] + m[6]
		},
	},
}

func isCanonical(name string) bool {
	return canonicalPattern.MatchString(name)
}

// canonicalize coerces a derived name into YYYYMMDD_HHMMSS.ext where one of
// the repair rules recognises it, and returns it unchanged otherwise.
func canonicalize(name string) string {
	if isCanonical(name) {
		return name
	}
	for _, rule := range repairRules {
		if m := rule.pattern.FindStringSubmatch(name); m != nil {
			return rule.fix(name, m)
		}
	}
	return name
}
