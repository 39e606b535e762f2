package orchestrator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// DirInputSupplier lists every *.flt file directly under Dir, lexically
// sorted by name. Lexical order is the "total ordering given by their
// names" that drives merge adjacency.
type DirInputSupplier struct {
	Dir string
}

func (d DirInputSupplier) Inputs() ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(d.Dir, "*.flt"))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", d.Dir, err)
	}
	sort.Strings(entries)
	return entries, nil
}

// ExplicitInputSupplier wraps a caller-provided, already-ordered path list.
type ExplicitInputSupplier struct {
	Paths []string
}

func (e ExplicitInputSupplier) Inputs() ([]string, error) {
	return e.Paths, nil
}

// SiblingOutputSink writes each run's VHS file next to its first input,
// replacing the .flt extension with .vhs.
type SiblingOutputSink struct{}

func (SiblingOutputSink) OutputFor(flightIndex int, firstInputPath string) (string, error) {
	trimmed := strings.TrimSuffix(firstInputPath, filepath.Ext(firstInputPath))
	return trimmed + ".vhs", nil
}

// DirOutputSink writes every run's VHS file into Dir, named after the first
// input's base name with its extension replaced.
type DirOutputSink struct {
	Dir string
}

func (d DirOutputSink) OutputFor(flightIndex int, firstInputPath string) (string, error) {
	base := filepath.Base(firstInputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(d.Dir, base+".vhs"), nil
}
