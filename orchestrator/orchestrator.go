// Package orchestrator drives one conversion run: it asks an InputSupplier
// for an ordered set of FLT paths, parses each one, greedily merges
// consecutive parses into maximal mergeable runs, and hands each finished
// run to the VHS writer through an OutputSink.
package orchestrator

import (
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/mrkline/flt2vhs/flt"
	"github.com/mrkline/flt2vhs/merge"
	"github.com/mrkline/flt2vhs/vhs"
	"github.com/mrkline/flt2vhs/xlog"
)

// InputSupplier delivers an ordered list of input paths. The order defines
// potential-merge adjacency: the driver only ever tries to merge path[i+1]
// into the run ending at path[i].
type InputSupplier interface {
	Inputs() ([]string, error)
}

// OutputSink names the output path for the run of input paths that
// produced flightIndex (0-based, in Inputs() order).
type OutputSink interface {
	OutputFor(flightIndex int, firstInputPath string) (string, error)
}

// Status is the outcome signal the driver returns to its caller.
type Status int

const (
	// Clean means every conversion in the run succeeded with no corruption.
	Clean Status = iota
	// CompletedWithCorruption means every conversion finished, but at
	// least one input Flight set Corrupted.
	CompletedWithCorruption
	// Failed means a conversion could not complete at all (I/O failure
	// opening an input or writing an output).
	Failed
)

func (s Status) String() string {
	switch s {
	case Clean:
		return "clean"
	case CompletedWithCorruption:
		return "completed with corruption"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Run executes one conversion pass: parse every input, merge what can be
// merged, write one VHS file per maximal mergeable run.
func Run(in InputSupplier, out OutputSink, log xlog.Logger) Status {
	if log == nil {
		log = xlog.Noop{}
	}

	paths, err := in.Inputs()
	if err != nil {
		log.Error("listing inputs", xlog.F("error", err))
		return Failed
	}
	if len(paths) == 0 {
		log.Warn("no input files found")
		return Clean
	}

	status := Clean
	runStart := 0
	var current *flt.Flight

	flush := func(endIndex int) bool {
		if current == nil {
			return true
		}
		if current.Corrupted {
			log.Warn("writing output for corrupted flight", xlog.F("first_input", paths[runStart]))
			status = maxStatus(status, CompletedWithCorruption)
		}
		outPath, err := out.OutputFor(runStart, paths[runStart])
		if err != nil {
			log.Error("resolving output path", xlog.F("error", err))
			status = Failed
			return false
		}
		if err := vhs.Write(outPath, current, log); err != nil {
			log.Error("writing vhs output", xlog.F("path", outPath), xlog.F("error", err))
			status = Failed
			return false
		}
		log.Info("wrote vhs output",
			xlog.F("path", outPath), xlog.F("inputs", endIndex-runStart+1))
		return true
	}

	for i, p := range paths {
		next, err := parseFile(p, log)
		if err != nil {
			log.Error("opening input", xlog.F("path", p), xlog.F("error", err))
			status = Failed
			continue
		}

		if current == nil {
			current = next
			runStart = i
			continue
		}

		if merge.Merge(current, next, log) {
			continue
		}

		if !flush(i - 1) {
			return status
		}
		current = next
		runStart = i
	}

	if current != nil {
		flush(len(paths) - 1)
	}

	return status
}

func maxStatus(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// parseFile scope-acquires path: open, memory-map, parse, unmap, close.
func parseFile(path string, log xlog.Logger) (*flt.Flight, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("statting %s: %w", path, err)
	}
	if info.Size() == 0 {
		return flt.Parse(bytes.NewReader(nil), log), nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	defer m.Unmap()

	return flt.Parse(bytes.NewReader(m), log), nil
}
