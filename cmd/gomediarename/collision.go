package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

// nameRegistry tracks the target names claimed so far in a run.
type nameRegistry struct {
	claimed map[string]string // target name → source name that owns it
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{claimed: make(map[string]string)}
}

// claim reserves name for source, appending " (n)" before the extension
// when it is already taken by another source.
func (r *nameRegistry) claim(source, name string) string {
	if owner, taken := r.claimed[name]; !taken || owner == source {
		r.claimed[name] = source
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if owner, taken := r.claimed[candidate]; !taken || owner == source {
			r.claimed[candidate] = source
			return candidate
		}
	}
}
