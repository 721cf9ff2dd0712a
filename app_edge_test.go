package main

import (
	"context"
	"math"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: empty string -> no meshes, pairs, errors or warnings.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected 0 warnings for empty source, got %d", len(result.Warnings))
	}
	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Pairs == nil {
		t.Error("Pairs should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(";; nothing here yet\n  \n; still nothing\n")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for comments, got %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for comments, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax and reference errors.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := newTestApp(t)

	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	result := app.Evaluate("(+ 1 2)\n(sphere \"ball\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

func TestE2EUndefinedNodeReference(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`
(sphere "ball")
(group "pile" (node "ghost"))
`)
	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for undefined node reference")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e.Message, "ghost") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected error mentioning 'ghost', got: %v", result.Errors)
	}
	if len(result.Meshes) != 0 || len(result.Pairs) != 0 {
		t.Errorf("expected no output on error, got %d meshes, %d pairs", len(result.Meshes), len(result.Pairs))
	}
}

func TestE2EDuplicateName(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(sphere "twin") (capsule "twin")`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a duplicate collider name")
	}
}

// ---------------------------------------------------------------------------
// 3. Degenerate and invalid geometry.
// ---------------------------------------------------------------------------

func TestE2EZeroRadiusSphere(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`
(sphere "dot" :radius 0)
(sphere "ball" :radius 1 :position (vec3 0.5 0 0))
`)
	if len(result.Errors) != 0 {
		t.Fatalf("zero radius should warn, not fail: %v", result.Errors)
	}

	var pointWarning, hiddenWarning bool
	for _, w := range result.Warnings {
		if strings.Contains(w.Message, "sphere is a point") {
			pointWarning = true
		}
		if strings.Contains(w.Message, `"dot" has no volume`) {
			hiddenWarning = true
		}
	}
	if !pointWarning || !hiddenWarning {
		t.Errorf("expected point and no-volume warnings, got %v", result.Warnings)
	}

	if len(result.Meshes) != 1 || result.Meshes[0].Name != "ball" {
		t.Fatalf("expected only the ball mesh, got %d meshes", len(result.Meshes))
	}
	// The point still takes part in the pair test and lies inside the ball.
	if len(result.Pairs) != 1 || !result.Pairs[0].Intersect {
		t.Errorf("expected the point inside the ball to intersect, got %+v", result.Pairs)
	}
}

func TestE2ENegativeRadius(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(capsule "bad" :radius -1)`)

	if len(result.Errors) == 0 {
		t.Fatal("expected a validation error for a negative radius")
	}
	if !strings.Contains(result.Errors[0].Message, "must not be negative") {
		t.Errorf("unexpected message: %q", result.Errors[0].Message)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2ENonUniformScale(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`
(sphere "egg" :radius 1 :scale (vec3 3 1 1))
(sphere "near" :radius 1 :position (vec3 3.5 0 0))
(sphere "above" :radius 1 :position (vec3 0 2.5 0))
`)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	got := map[string]bool{}
	for _, p := range result.Pairs {
		got[pairKey(p.A, p.B)] = p.Intersect
	}
	if !got["egg/near"] {
		t.Error("stretched sphere should reach along x")
	}
	if got["above/egg"] {
		t.Error("stretched sphere should not reach along y")
	}
}

// ---------------------------------------------------------------------------
// 4. Rapid evaluation (debounce simulation): no panics.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// Alternates between valid and invalid sources so the engine recovers
	// cleanly between error and success states.
	app := newTestApp(t)

	sources := []string{
		`(sphere "ok" :radius 1)`,
		`(sphere "broken"`,
		``,
		`(group "g" (node "missing"))`,
		`(capsule "also-ok" :radius 0.5 :length 2)`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(box "fine" :size (vec3 1 2 3))`,
		`(undefined-func 1 2 3)`,
		`(sphere "a") (sphere "b" :position (vec3 1 0 0))`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	result := app.Evaluate(sources[len(sources)-1])
	if len(result.Errors) != 0 || len(result.Pairs) != 1 || !result.Pairs[0].Intersect {
		t.Errorf("final evaluation = %+v", result)
	}
}

// ---------------------------------------------------------------------------
// 5. Configuration reaches the pipeline.
// ---------------------------------------------------------------------------

func TestE2EPrefilter(t *testing.T) {
	app := newTestApp(t)
	app.cfg.Collision.Prefilter = true
	app.cfg.Collision.Workers = 2

	result := app.Evaluate(`
(sphere "a" :radius 1)
(sphere "b" :radius 1 :position (vec3 1.5 0 0))
(sphere "far" :radius 1 :position (vec3 50 0 0))
`)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	skipped, hits := 0, 0
	for _, p := range result.Pairs {
		if p.Skipped {
			skipped++
		}
		if p.Intersect {
			hits++
		}
	}
	if skipped != 2 || hits != 1 {
		t.Errorf("skipped = %d, hits = %d, want 2 and 1", skipped, hits)
	}
}

func TestE2ECancelledContext(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app.startup(ctx)

	result := app.Evaluate(`(sphere "a") (sphere "b")`)
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0].Message, "pair check failed") {
		t.Errorf("expected a pair check error, got %v", result.Errors)
	}
}

func TestE2EColorPaletteWrapping(t *testing.T) {
	app := newTestApp(t)

	// More colliders than the palette has colors, all apart.
	source := `
(group "row"
  (sphere "s1" :position (vec3 0 0 0))
  (sphere "s2" :position (vec3 3 0 0))
  (sphere "s3" :position (vec3 6 0 0))
  (sphere "s4" :position (vec3 9 0 0))
  (sphere "s5" :position (vec3 12 0 0))
  (sphere "s6" :position (vec3 15 0 0))
  (sphere "s7" :position (vec3 18 0 0))
  (sphere "s8" :position (vec3 21 0 0))
  (sphere "s9" :position (vec3 24 0 0)))
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 9 {
		t.Fatalf("expected 9 meshes, got %d", len(result.Meshes))
	}
	for _, m := range result.Meshes {
		if m.Color == "" || m.Color == hitColor {
			t.Errorf("mesh %q has color %q", m.Name, m.Color)
		}
	}
	if result.Meshes[8].Color != result.Meshes[0].Color {
		t.Errorf("palette should wrap: %s != %s", result.Meshes[8].Color, result.Meshes[0].Color)
	}
}

// ---------------------------------------------------------------------------
// 6. CheckPair host binding.
// ---------------------------------------------------------------------------

func TestCheckPair(t *testing.T) {
	app := newTestApp(t)
	two := [3]float64{2, 2, 2}

	tests := []struct {
		name      string
		a, b      ObjectData
		intersect bool
		distance  float64
	}{
		{
			name:      "overlapping spheres",
			a:         ObjectData{Shape: "sphere", Radius: 1},
			b:         ObjectData{Shape: "sphere", Radius: 1, Position: [3]float64{1.5, 0, 0}},
			intersect: true,
			distance:  -0.5,
		},
		{
			name:      "capsule beside box",
			a:         ObjectData{Shape: "box", Width: 2, Height: 2, Depth: 2},
			b:         ObjectData{Shape: "capsule", Radius: 0.5, Length: 2, Position: [3]float64{2, 0, 0}},
			intersect: false,
			distance:  0.5,
		},
		{
			name:      "scaled sphere reaches",
			a:         ObjectData{Shape: "sphere", Radius: 1, Scale: &two},
			b:         ObjectData{Shape: "sphere", Radius: 1, Position: [3]float64{2.5, 0, 0}},
			intersect: true,
			distance:  -0.5,
		},
		{
			name:      "crossed capsules",
			a:         ObjectData{Shape: "capsule", Radius: 1, Length: 1},
			b:         ObjectData{Shape: "capsule", Radius: 1, Length: 1, Position: [3]float64{2, 0, 0}, Rotation: [3]float64{0, 0, math.Pi / 2}},
			intersect: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := app.CheckPair(tt.a, tt.b)
			if pd.Error != "" {
				t.Fatalf("CheckPair error: %s", pd.Error)
			}
			if pd.Intersect != tt.intersect {
				t.Errorf("Intersect = %v, want %v", pd.Intersect, tt.intersect)
			}
			if tt.distance != 0 && math.Abs(pd.Distance-tt.distance) > 1e-9 {
				t.Errorf("Distance = %f, want %f", pd.Distance, tt.distance)
			}
		})
	}
}

func TestCheckPairContact(t *testing.T) {
	app := newTestApp(t)
	pd := app.CheckPair(
		ObjectData{Shape: "sphere", Radius: 1},
		ObjectData{Shape: "sphere", Radius: 1, Position: [3]float64{1.5, 0, 0}},
	)
	if len(pd.Normal) != 3 || math.Abs(pd.Normal[0]-1) > 1e-9 {
		t.Errorf("normal = %v, want [1 0 0]", pd.Normal)
	}
	if pd.A != "sphere" || pd.B != "sphere" {
		t.Errorf("labels = %q, %q", pd.A, pd.B)
	}
}

func TestCheckPairErrors(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		name string
		a, b ObjectData
		want string
	}{
		{"unknown first", ObjectData{Shape: "cone"}, ObjectData{Shape: "sphere", Radius: 1}, "cone"},
		{"unknown second", ObjectData{Shape: "sphere", Radius: 1}, ObjectData{Shape: ""}, "unknown shape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := app.CheckPair(tt.a, tt.b)
			if !strings.Contains(pd.Error, tt.want) {
				t.Errorf("Error = %q, want it to contain %q", pd.Error, tt.want)
			}
			if pd.Intersect {
				t.Error("failed check should not intersect")
			}
		})
	}
}
