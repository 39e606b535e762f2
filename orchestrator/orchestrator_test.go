package orchestrator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrkline/flt2vhs/flt"
	"github.com/mrkline/flt2vhs/primitives"
	"github.com/mrkline/flt2vhs/xlog"
)

func writeAircraftFLT(t *testing.T, path string, time float32, uid int32, x float32) {
	t.Helper()
	var buf bytes.Buffer
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(primitives.WriteU8(&buf, uint8(flt.RecAircraftPosition)))
	must(primitives.WriteF32(&buf, time))
	must(primitives.WriteI32(&buf, uid))
	must(primitives.WriteI32(&buf, 1)) // kind
	must(primitives.WriteF32(&buf, x))
	must(primitives.WriteF32(&buf, 0))
	must(primitives.WriteF32(&buf, 0))
	must(primitives.WriteF32(&buf, 0))
	must(primitives.WriteF32(&buf, 0))
	must(primitives.WriteF32(&buf, 0))
	must(primitives.WriteI32(&buf, -1)) // radar target
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRunMergesAdjacentFilesIntoOneOutput(t *testing.T) {
	dir := t.TempDir()
	writeAircraftFLT(t, filepath.Join(dir, "a.flt"), 100.0, 7, 0)
	writeAircraftFLT(t, filepath.Join(dir, "b.flt"), 100.5, 9, 50)

	status := Run(DirInputSupplier{Dir: dir}, DirOutputSink{Dir: dir}, xlog.Noop{})
	if status != Clean {
		t.Fatalf("expected clean run, got %v", status)
	}

	outputs, _ := filepath.Glob(filepath.Join(dir, "*.vhs"))
	if len(outputs) != 1 {
		t.Fatalf("expected one merged output, got %v", outputs)
	}
}

func TestRunSplitsFarApartFilesIntoSeparateOutputs(t *testing.T) {
	dir := t.TempDir()
	writeAircraftFLT(t, filepath.Join(dir, "a.flt"), 100.0, 7, 0)
	writeAircraftFLT(t, filepath.Join(dir, "b.flt"), 200.0, 9, 0)

	status := Run(DirInputSupplier{Dir: dir}, DirOutputSink{Dir: dir}, xlog.Noop{})
	if status != Clean {
		t.Fatalf("expected clean run, got %v", status)
	}

	outputs, _ := filepath.Glob(filepath.Join(dir, "*.vhs"))
	if len(outputs) != 2 {
		t.Fatalf("expected two separate outputs for a large time gap, got %v", outputs)
	}
}

func TestRunWithNoInputsIsClean(t *testing.T) {
	dir := t.TempDir()
	status := Run(DirInputSupplier{Dir: dir}, DirOutputSink{Dir: dir}, xlog.Noop{})
	if status != Clean {
		t.Fatalf("expected clean status for empty directory, got %v", status)
	}
}
