package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cubeFace = `# one quad with texture and normal refs
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
usemtl skin
f 1/1/1 2/1/1 3/1/1 4/1/1
`

func writeOBJ(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(cubeFace), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	out, err := execute(t, "info", writeOBJ(t))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"quad.obj", "Vertices:   4", "Triangles:  2", "Center:     (0.500, 0.500, 0.000)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfo_Missing(t *testing.T) {
	if _, err := execute(t, "info", filepath.Join(t.TempDir(), "none.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSimplify(t *testing.T) {
	in := writeOBJ(t)
	out := filepath.Join(t.TempDir(), "out.obj")
	if _, err := execute(t, "simplify", in, out); err != nil {
		t.Fatalf("simplify: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, "f 1 2 3") {
		t.Errorf("face not reduced:\n%s", got)
	}
	for _, gone := range []string{"vt ", "vn ", "usemtl", "#"} {
		if strings.Contains(got, gone) {
			t.Errorf("output still contains %q:\n%s", gone, got)
		}
	}
}

func TestScatter(t *testing.T) {
	out, err := execute(t, "scatter", writeOBJ(t), "10", "--seed", "3")
	if err != nil {
		t.Fatalf("scatter: %v", err)
	}
	if !strings.Contains(out, "Placed:     10 of 10") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestScatter_Exhausted(t *testing.T) {
	// A separation wider than the model leaves room for a single hair.
	out, err := execute(t, "scatter", writeOBJ(t), "5", "--separation", "10", "--max-attempts", "50")
	if err != nil {
		t.Fatalf("scatter: %v", err)
	}
	if !strings.Contains(out, "Placed:     1 of 5") || !strings.Contains(out, "Exhausted:") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestScatter_BadCount(t *testing.T) {
	if _, err := execute(t, "scatter", writeOBJ(t), "many"); err == nil {
		t.Error("expected error for non-numeric count")
	}
}
