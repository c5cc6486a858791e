package buildplan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/philipparndt/platebatch/internal/batch"
	"github.com/philipparndt/platebatch/internal/cache"
	"github.com/philipparndt/platebatch/internal/slicer"
)

const fakeSlicer = `#!/bin/sh
while [ $# -gt 0 ]; do
	case "$1" in
		--load) shift ;;
		--output) out="$2"; shift ;;
		--export-gcode) ;;
		*) model="$1" ;;
	esac
	shift
done
case "$model" in
	*A.stl) t="5m" ;;
	*) t="10m" ;;
esac
printf '; estimated printing time (normal mode) = 1h\n; estimated printing time (silent mode) = %s\n' "$t" > "$out"
`

type workspace struct {
	dir    string
	config string
}

// newWorkspace lays out a config, a slicer profile and a models tree for
// one 250x210 printer
func newWorkspace(t *testing.T, slicerScript string) *workspace {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	dir := t.TempDir()
	slicerPath := filepath.Join(dir, "slicer")
	mustWrite(t, slicerPath, slicerScript, 0o755)
	mustWrite(t, filepath.Join(dir, "black.ini"), "layer_height = 0.2\n", 0o644)
	if err := os.MkdirAll(filepath.Join(dir, "stl", "Black"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := fmt.Sprintf(`slicer: %s
padding: 20
printers:
  - key: Black
    config: black.ini
    bed: {width: 250, height: 210}
    time_mode: silent
`, slicerPath)
	configPath := filepath.Join(dir, "platebatch.yaml")
	mustWrite(t, configPath, cfg, 0o644)

	return &workspace{dir: dir, config: configPath}
}

func mustWrite(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// addModel writes a one-facet STL spanning x by y mm
func (w *workspace) addModel(t *testing.T, name string, x, y float64) string {
	t.Helper()
	path := filepath.Join(w.dir, "stl", "Black", name)
	stl := fmt.Sprintf("solid %s\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex %g 0 0\nvertex %g %g 5\nendloop\nendfacet\nendsolid %s\n", name, x, x, y, name)
	mustWrite(t, path, stl, 0o644)
	return path
}

func (w *workspace) run(t *testing.T, opts Options) (*Context, string, error) {
	t.Helper()
	var out bytes.Buffer
	opts.ConfigPath = w.config
	opts.Output = &out
	opts.SlicerOutput = io.Discard

	plan, err := NewPlanner().CreatePlan(opts, nil)
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	err = plan.Execute()
	return plan.Context(), out.String(), err
}

func TestExecute_SlicesPacksAndReports(t *testing.T) {
	w := newWorkspace(t, fakeSlicer)
	w.addModel(t, "A.stl", 80, 80)
	w.addModel(t, "B.stl", 80, 80)
	// Not a model file
	mustWrite(t, filepath.Join(w.dir, "stl", "Black", "notes.txt"), "x", 0o644)

	ctx, out, err := w.run(t, Options{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(ctx.Batches) != 1 {
		t.Fatalf("Got %d batches, want 1", len(ctx.Batches))
	}
	if got := ctx.Batches[0].Duration; got != 900 {
		t.Errorf("Batch duration = %d, want 900 (silent mode estimates)", got)
	}
	if got := ctx.Batches[0].Jobs[0].Footprint.String(); got != "100.0x100.0" {
		t.Errorf("Footprint = %s, want 100.0x100.0", got)
	}

	for _, name := range []string{"A_gcode.gcode", "B_gcode.gcode"} {
		if _, err := os.Stat(filepath.Join(w.dir, "stl", "Black", name)); err != nil {
			t.Errorf("Sidecar %s not written: %v", name, err)
		}
	}

	for _, want := range []string{"Printer Black", "Batch 1 (250x210 mm)", "A.stl", "B.stl", "Total print time 0 days 0 hours 15 minutes"} {
		if !strings.Contains(out, want) {
			t.Errorf("Report is missing %q:\n%s", want, out)
		}
	}
}

func TestExecute_NoSliceUsesCache(t *testing.T) {
	w := newWorkspace(t, fakeSlicer)
	w.addModel(t, "A.stl", 80, 80)

	if _, _, err := w.run(t, Options{}); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	// The slicer is gone, so only cached output can be used
	os.Remove(filepath.Join(w.dir, "slicer"))
	ctx, _, err := w.run(t, Options{NoSlice: true})
	if err != nil {
		t.Fatalf("Cached run failed: %v", err)
	}
	if ctx.Batches[0].Duration != 300 {
		t.Errorf("Duration = %d, want 300", ctx.Batches[0].Duration)
	}
}

func TestExecute_NoSliceWithoutCache(t *testing.T) {
	w := newWorkspace(t, fakeSlicer)
	w.addModel(t, "A.stl", 80, 80)

	_, _, err := w.run(t, Options{NoSlice: true})
	if err == nil || !strings.Contains(err.Error(), "slicing is disabled") {
		t.Errorf("Expected slicing disabled error, got %v", err)
	}
}

func TestExecute_BoltCacheOverride(t *testing.T) {
	w := newWorkspace(t, fakeSlicer)
	w.addModel(t, "A.stl", 80, 80)

	if _, _, err := w.run(t, Options{CacheBackend: "bolt"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(w.dir, ".platebatch", "gcode.db")); err != nil {
		t.Errorf("Bolt cache not created: %v", err)
	}
	if _, err := os.Stat(cache.SidecarPath(filepath.Join(w.dir, "stl", "Black", "A.stl"))); err == nil {
		t.Error("Bolt backend must not write sidecar files")
	}
}

func TestExecute_PaddingOverride(t *testing.T) {
	w := newWorkspace(t, fakeSlicer)
	w.addModel(t, "A.stl", 80, 80)

	padding := 0.0
	ctx, _, err := w.run(t, Options{Padding: &padding})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := ctx.Groups[0].Jobs[0].Footprint.String(); got != "80.0x80.0" {
		t.Errorf("Footprint = %s, want 80.0x80.0", got)
	}
}

func TestExecute_Failures(t *testing.T) {
	t.Run("slicer fails", func(t *testing.T) {
		w := newWorkspace(t, "#!/bin/sh\nexit 1\n")
		w.addModel(t, "A.stl", 80, 80)

		_, _, err := w.run(t, Options{})
		if !errors.Is(err, slicer.ErrSliceFailure) {
			t.Errorf("Expected ErrSliceFailure, got %v", err)
		}
	})

	t.Run("model larger than bed", func(t *testing.T) {
		w := newWorkspace(t, fakeSlicer)
		w.addModel(t, "A.stl", 80, 80)
		w.addModel(t, "C.stl", 200, 200)

		ctx, out, err := w.run(t, Options{})
		if !errors.Is(err, batch.ErrUnplaceableFootprint) {
			t.Errorf("Expected ErrUnplaceableFootprint, got %v", err)
		}
		if ctx.Batches != nil || out != "" {
			t.Error("No report may be written after a packing failure")
		}
	})

	t.Run("missing printer directory", func(t *testing.T) {
		w := newWorkspace(t, fakeSlicer)
		os.RemoveAll(filepath.Join(w.dir, "stl", "Black"))

		if _, _, err := w.run(t, Options{}); err == nil {
			t.Error("Expected precondition error")
		}
	})
}

func TestDiscoverModels(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.stl", "a.3mf", "c.STL", "a_gcode.gcode", "readme.md"} {
		mustWrite(t, filepath.Join(dir, name), "", 0o644)
	}
	os.Mkdir(filepath.Join(dir, "sub.stl"), 0o755)

	files, err := DiscoverModels(dir)
	if err != nil {
		t.Fatalf("DiscoverModels failed: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if got := strings.Join(names, ","); got != "a.3mf,b.stl,c.STL" {
		t.Errorf("DiscoverModels() = %s, want a.3mf,b.stl,c.STL", got)
	}
}

func TestCreatePlanRejectsBadOptions(t *testing.T) {
	if _, err := NewPlanner().CreatePlan(Options{}, nil); err == nil {
		t.Error("Expected error without config path")
	}
	if _, err := NewPlanner().CreatePlan(Options{ConfigPath: "x.yaml", Margin: -1}, nil); err == nil {
		t.Error("Expected error for negative margin")
	}
}
