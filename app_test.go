package main

import (
	"os"
	"testing"

	"github.com/ninjagl/intersects/pkg/config"

	"go.uber.org/zap/zaptest"
)

// testCells keeps marching cubes cheap in end-to-end tests.
const testCells = 16

// newTestApp returns an App with default settings, a coarse mesh and a
// logger that writes through t.
func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Mesh.Cells = testCells
	return NewApp(cfg, zaptest.NewLogger(t))
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "/" + b
}

// TestE2EFigureExample exercises the full pipeline: source → engine → graph
// → pairs → tessellate → meshes. This is the same path that the Wails
// Evaluate binding takes, but without the Wails runtime.
func TestE2EFigureExample(t *testing.T) {
	app := newTestApp(t)

	source, err := os.ReadFile("examples/figure.njl")
	if err != nil {
		t.Fatalf("failed to read figure.njl: %v", err)
	}

	result := app.Evaluate(string(source))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// Five colliders give ten pairs.
	if len(result.Pairs) != 10 {
		t.Fatalf("expected 10 pairs, got %d", len(result.Pairs))
	}
	hits := map[string]bool{}
	for _, p := range result.Pairs {
		if p.Intersect {
			hits[pairKey(p.A, p.B)] = true
		}
	}
	for _, want := range []string{"body/floor", "crate/floor", "body/head"} {
		if !hits[want] {
			t.Errorf("expected %s to intersect", want)
		}
	}
	if len(hits) != 3 {
		t.Errorf("expected 3 intersecting pairs, got %v", hits)
	}

	if len(result.Meshes) != 5 {
		t.Fatalf("expected 5 meshes, got %d", len(result.Meshes))
	}
	expected := map[string]bool{
		"ball":  false,
		"body":  true,
		"crate": true,
		"floor": true,
		"head":  true,
	}
	for _, m := range result.Meshes {
		want, ok := expected[m.Name]
		if !ok {
			t.Errorf("unexpected collider name: %q", m.Name)
			continue
		}
		delete(expected, m.Name)

		if len(m.Vertices) == 0 || len(m.Normals) == 0 || len(m.Indices) == 0 {
			t.Errorf("collider %q: empty geometry", m.Name)
		}
		if m.Intersecting != want {
			t.Errorf("collider %q: intersecting = %v, want %v", m.Name, m.Intersecting, want)
		}
		if want && m.Color != hitColor {
			t.Errorf("collider %q: color %s, want highlight", m.Name, m.Color)
		}
		if !want && m.Color == hitColor {
			t.Errorf("collider %q should not be highlighted", m.Name)
		}
	}
	for name := range expected {
		t.Errorf("missing mesh for collider %q", name)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("(sphere \"ball\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleSphere ensures a minimal source renders one mesh and no pairs.
func TestE2ESingleSphere(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(sphere "ball" :radius 2)`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if result.Meshes[0].Name != "ball" {
		t.Errorf("expected collider name 'ball', got %q", result.Meshes[0].Name)
	}
	if len(result.Pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(result.Pairs))
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error = %v", err)
	}
	if cfg.Window.Title != config.Default().Window.Title {
		t.Errorf("title = %q, want default", cfg.Window.Title)
	}

	if _, err := loadConfig("does-not-exist.yaml"); err == nil {
		t.Error("expected error for a missing config file")
	}
}
