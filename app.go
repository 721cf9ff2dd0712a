package main

import (
	"context"
	"fmt"

	"github.com/ninjagl/intersects/pkg/collide"
	"github.com/ninjagl/intersects/pkg/config"
	"github.com/ninjagl/intersects/pkg/engine"
	"github.com/ninjagl/intersects/pkg/geom"
	"github.com/ninjagl/intersects/pkg/graph"
	"github.com/ninjagl/intersects/pkg/kernel"
	"github.com/ninjagl/intersects/pkg/kernel/sdfx"
	"github.com/ninjagl/intersects/pkg/logging"
	"github.com/ninjagl/intersects/pkg/tessellate"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"
)

// colorPalette is a default palette used to assign distinct colors to colliders.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#1ABC9C", "#F39C12", "#3498DB", "#7F8C8D",
}

// hitColor marks colliders that take part in an intersection.
const hitColor = "#E74C3C"

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	cfg    config.Config
	log    *zap.Logger
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices     []float32 `json:"vertices"`
	Normals      []float32 `json:"normals"`
	Indices      []uint32  `json:"indices"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Intersecting bool      `json:"intersecting"`
}

// PairData is the outcome of one pairwise test.
type PairData struct {
	A         string    `json:"a"`
	B         string    `json:"b"`
	Intersect bool      `json:"intersect"`
	Distance  float64   `json:"distance"`
	Point     []float64 `json:"point,omitempty"`
	Normal    []float64 `json:"normal,omitempty"`
	Skipped   bool      `json:"skipped,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Pairs    []PairData      `json:"pairs"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// ObjectData describes one object for CheckPair. Rotation is XYZ Euler
// angles in radians; a nil Scale means (1, 1, 1).
type ObjectData struct {
	Shape    string      `json:"shape"`
	Position [3]float64  `json:"position"`
	Rotation [3]float64  `json:"rotation"`
	Scale    *[3]float64 `json:"scale,omitempty"`

	Radius float64 `json:"radius,omitempty"`
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Depth  float64 `json:"depth,omitempty"`
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp(cfg config.Config, log *zap.Logger) *App {
	log = logging.Or(log)
	return &App{
		cfg: cfg,
		log: log,
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.Eval.Timeout),
			engine.WithLogger(log.Named("engine")),
		),
		kernel: sdfx.New(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.log.Info("inspector started")
}

// shutdown is called by Wails when the window closes.
func (a *App) shutdown(context.Context) {
	_ = a.log.Sync()
}

func (a *App) runContext() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// Evaluate takes scene source and returns collider meshes, pair results
// and errors. This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Pairs:    []PairData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into a scene graph.
	g, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error("evaluate failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 2: Validate structure and geometry.
	vr := graph.ValidateAll(g)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	if len(vr.Errors) > 0 {
		for _, e := range vr.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Message})
		}
		return result
	}

	// Step 3: Test every pair of colliders.
	pairs, err := graph.CheckPairs(a.runContext(), g, graph.PairOptions{
		Workers:   a.cfg.Collision.Workers,
		Prefilter: a.cfg.Collision.Prefilter,
		Logger:    a.log.Named("pairs"),
	})
	if err != nil {
		a.log.Error("pair check failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: "pair check failed: " + err.Error()})
		return result
	}
	for _, p := range pairs {
		result.Pairs = append(result.Pairs, pairData(p.NameA, p.NameB, p.Result, p.Skipped))
	}
	hits := graph.Intersecting(pairs)

	// Step 4: Tessellate the colliders into triangle meshes.
	tess, err := tessellate.Tessellate(g, a.kernel, a.cfg.Mesh.Cells)
	if err != nil {
		a.log.Error("tessellate failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	for _, name := range tess.Skipped {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Message: fmt.Sprintf("collider %q has no volume and is not drawn", name),
		})
	}

	// Step 5: Convert kernel meshes to the frontend MeshData format.
	for i, m := range tess.Meshes {
		md := MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		}
		if n := g.Lookup(m.Name); n != nil && hits[n.ID] {
			md.Color = hitColor
			md.Intersecting = true
		}
		result.Meshes = append(result.Meshes, md)
	}

	a.log.Debug("scene evaluated",
		zap.Int("meshes", len(result.Meshes)),
		zap.Int("pairs", len(result.Pairs)),
		zap.Int("intersecting", len(hits)),
		zap.Int("warnings", len(result.Warnings)))
	return result
}

// CheckPair tests two objects given directly by the host.
func (a *App) CheckPair(first, second ObjectData) PairData {
	pd := PairData{A: first.Shape, B: second.Shape}
	oa, err := first.object()
	if err != nil {
		pd.Error = err.Error()
		return pd
	}
	ob, err := second.object()
	if err != nil {
		pd.Error = err.Error()
		return pd
	}
	res, err := collide.DetectObjects(oa, ob)
	if err != nil {
		pd.Error = err.Error()
		return pd
	}
	a.log.Debug("pair checked",
		zap.String("a", first.Shape),
		zap.String("b", second.Shape),
		zap.Bool("intersect", res.Intersect))
	return pairData(first.Shape, second.Shape, res, false)
}

// object converts the host description into a collide.Object.
func (o ObjectData) object() (collide.Object, error) {
	var shape collide.Shape
	switch o.Shape {
	case "sphere":
		shape = collide.SphereShape{Radius: o.Radius}
	case "box":
		shape = collide.BoxShape{Width: o.Width, Height: o.Height, Depth: o.Depth}
	case "capsule":
		shape = collide.CapsuleShape{Radius: o.Radius, Length: o.Length}
	default:
		return collide.Object{}, fmt.Errorf("unknown shape %q", o.Shape)
	}

	scale := geom.One
	if o.Scale != nil {
		scale = vec(*o.Scale)
	}
	rot := geom.Euler{X: o.Rotation[0], Y: o.Rotation[1], Z: o.Rotation[2]}
	return collide.Object{
		Transform: geom.NewTransform(vec(o.Position), rot, scale),
		Shape:     shape,
	}, nil
}

func pairData(a, b string, r collide.Result, skipped bool) PairData {
	pd := PairData{
		A:         a,
		B:         b,
		Intersect: r.Intersect,
		Distance:  r.Distance,
		Skipped:   skipped,
	}
	if r.Contact != nil {
		pd.Point = floats(r.Contact.Point)
		pd.Normal = floats(r.Contact.Normal)
	}
	return pd
}

func vec(a [3]float64) v3.Vec {
	return v3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func floats(v v3.Vec) []float64 {
	return []float64{v.X, v.Y, v.Z}
}
