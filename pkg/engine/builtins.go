package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ninjagl/intersects/pkg/collide"
	"github.com/ninjagl/intersects/pkg/geom"
	"github.com/ninjagl/intersects/pkg/graph"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: half-size -> half_size
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(node %q)", n.name)
	}
	return fmt.Sprintf("(node %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toScale accepts a vec3 or a single number for uniform scale.
func toScale(s zygo.Sexp) (v3.Vec, error) {
	if f, err := toFloat64(s); err == nil {
		return v3.Vec{X: f, Y: f, Z: f}, nil
	}
	v, err := toVec3(s)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("expected vec3 or number, got %T (%s)", s, s.SexpString(nil))
	}
	return v, nil
}

// toNodeName resolves a node reference or a name string to a node name.
func toNodeName(g *graph.SceneGraph, s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpNodeRef:
		if n := g.Get(v.id); n != nil {
			return n.Name, nil
		}
		return "", fmt.Errorf("stale node reference %s", v.id.Short())
	case *zygo.SexpStr:
		return v.S, nil
	}
	return "", fmt.Errorf("expected node reference or name, got %T (%s)", s, s.SexpString(nil))
}

// kwFloat reads an optional numeric keyword argument.
func kwFloat(pa kwArgs, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// kwTransform reads :position, :rotation (Euler radians, XYZ order) and
// :scale.
func kwTransform(pa kwArgs) (geom.Transform, error) {
	pos := v3.Vec{}
	rot := v3.Vec{}
	scale := geom.One
	if v, ok := pa.kw["position"]; ok {
		p, err := toVec3(v)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("position: %w", err)
		}
		pos = p
	}
	if v, ok := pa.kw["rotation"]; ok {
		r, err := toVec3(v)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("rotation: %w", err)
		}
		rot = r
	}
	if v, ok := pa.kw["scale"]; ok {
		sc, err := toScale(v)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("scale: %w", err)
		}
		scale = sc
	}
	return geom.NewTransform(pos, geom.Euler{X: rot.X, Y: rot.Y, Z: rot.Z}, scale), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// errNoName is returned by shape builtins whose first argument is not a name.
var errNoName = errors.New("first argument must be the collider name")

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. The builtins operate on the provided SceneGraph, populating
// it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.SceneGraph) {
	anon := 0
	nameOrAnon := func(kind string, pa kwArgs) (string, error) {
		if len(pa.positional) == 0 {
			anon++
			return fmt.Sprintf("%s_%d", kind, anon), nil
		}
		n, err := toString(pa.positional[0])
		if err != nil {
			return "", fmt.Errorf("%w: %v", errNoName, err)
		}
		if g.Lookup(n) != nil {
			return "", fmt.Errorf("duplicate name %q", n)
		}
		return n, nil
	}

	addCollider := func(kind, name string, shape collide.Shape, t geom.Transform) zygo.Sexp {
		id := graph.NewNodeID(kind + "/" + name)
		g.AddNode(&graph.Node{
			ID:     id,
			Kind:   graph.NodeCollider,
			Name:   name,
			Source: graph.SourceRef{Form: kind},
			Data:   graph.ColliderData{Shape: shape, Transform: t},
		})
		return &sexpNodeRef{id: id, name: name}
	}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere "ball" :radius 1 :position (vec3 0 0 0) :scale (vec3 1 2 1))
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameOrAnon("sphere", pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		shape := collide.SphereShape{Radius: 1}
		if err := kwFloat(pa, "radius", &shape.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		t, err := kwTransform(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return addCollider("sphere", n, shape, t), nil
	})

	// -----------------------------------------------------------------------
	// (box "crate" :width 1 :height 2 :depth 1 :rotation (vec3 0 0.5 0))
	// (box "crate" :size (vec3 1 2 1))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameOrAnon("box", pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		shape := collide.BoxShape{Width: 1, Height: 1, Depth: 1}
		if v, ok := pa.kw["size"]; ok {
			size, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			shape = collide.BoxShape{Width: size.X, Height: size.Y, Depth: size.Z}
		}
		for key, dst := range map[string]*float64{
			"width":  &shape.Width,
			"height": &shape.Height,
			"depth":  &shape.Depth,
		} {
			if err := kwFloat(pa, key, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
		}
		t, err := kwTransform(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return addCollider("box", n, shape, t), nil
	})

	// -----------------------------------------------------------------------
	// (capsule "arm" :radius 0.5 :length 2 :rotation (vec3 0 0 1.57))
	// -----------------------------------------------------------------------
	env.AddFunction("capsule", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameOrAnon("capsule", pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
		}
		shape := collide.CapsuleShape{Radius: 1, Length: 1}
		if err := kwFloat(pa, "radius", &shape.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
		}
		if err := kwFloat(pa, "length", &shape.Length); err != nil {
			return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
		}
		t, err := kwTransform(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("capsule: %w", err)
		}
		return addCollider("capsule", n, shape, t), nil
	})

	// -----------------------------------------------------------------------
	// (group "rig" :position (vec3 0 1 0) (sphere ...) (node "crate") ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		grpName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		if g.Lookup(grpName) != nil {
			return zygo.SexpNull, fmt.Errorf("group: duplicate name %q", grpName)
		}
		t, err := kwTransform(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: %w", err)
		}

		var children []graph.NodeID
		for i, arg := range pa.positional[1:] {
			ref, ok := arg.(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("group: child %d: expected node reference, got %T (%s)",
					i+1, arg, arg.SexpString(nil))
			}
			children = append(children, ref.id)
		}

		id := graph.NewNodeID("group/" + grpName)
		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeGroup,
			Name:     grpName,
			Source:   graph.SourceRef{Form: "group"},
			Children: children,
			Data:     graph.GroupData{Transform: t},
		})

		return &sexpNodeRef{id: id, name: grpName}, nil
	})

	// -----------------------------------------------------------------------
	// (node "name")
	// -----------------------------------------------------------------------
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("node requires a name argument")
		}
		nodeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: name: %w", err)
		}
		n := g.Lookup(nodeName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("node: no node named %q", nodeName)
		}
		return &sexpNodeRef{id: n.ID, name: nodeName}, nil
	})

	// -----------------------------------------------------------------------
	// (collides "ball" (node "post")) => true / false
	// (distance "ball" "post")        => signed surface gap
	//
	// Both see the graph as built so far: a collider that is not yet in a
	// group is tested at its local transform.
	// -----------------------------------------------------------------------
	pairQuery := func(fn string, args []zygo.Sexp) (collide.Result, error) {
		if len(args) != 2 {
			return collide.Result{}, fmt.Errorf("%s requires exactly 2 arguments, got %d", fn, len(args))
		}
		a, err := toNodeName(g, args[0])
		if err != nil {
			return collide.Result{}, fmt.Errorf("%s: first: %w", fn, err)
		}
		b, err := toNodeName(g, args[1])
		if err != nil {
			return collide.Result{}, fmt.Errorf("%s: second: %w", fn, err)
		}
		res, err := g.Detect(a, b)
		if err != nil {
			return collide.Result{}, fmt.Errorf("%s: %w", fn, err)
		}
		return res, nil
	}

	env.AddFunction("collides", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		res, err := pairQuery("collides", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpBool{Val: res.Intersect}, nil
	})

	env.AddFunction("distance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		res, err := pairQuery("distance", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: res.Distance}, nil
	})
}
