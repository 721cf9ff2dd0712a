// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/ninjagl/intersects/pkg/collide"
	"github.com/ninjagl/intersects/pkg/geom"
	"github.com/ninjagl/intersects/pkg/kernel"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells is the marching cubes resolution used when ToMesh is
// given no cell count.
const DefaultMeshCells = 48

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Distance evaluates the signed distance field at p.
func (s *sdfxSolid) Distance(p v3.Vec) float64 {
	return s.s.Evaluate(p)
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Solid builds the distance field of a world-space primitive. Round
// spheres use sdf.Sphere3D; boxes, capsules and ellipsoids use the
// fields in solids.go.
func (k *SdfxKernel) Solid(p collide.Primitive) (kernel.Solid, error) {
	switch p := p.(type) {
	case collide.Sphere:
		if p.Ellipsoid != nil {
			if geom.AbsVec(p.Ellipsoid.Scale).MinComponent()*p.Radius <= geom.Epsilon {
				return nil, fmt.Errorf("%w: flattened ellipsoid", kernel.ErrDegenerate)
			}
			return wrap(newEllipsoid(p)), nil
		}
		if p.Radius <= geom.Epsilon {
			return nil, fmt.Errorf("%w: sphere radius %g", kernel.ErrDegenerate, p.Radius)
		}
		s, err := sdf.Sphere3D(p.Radius)
		if err != nil {
			return nil, fmt.Errorf("sdfx.Sphere3D: %w", err)
		}
		return wrap(sdf.Transform3D(s, sdf.Translate3d(p.Center))), nil

	case collide.Box:
		if p.HalfExtents.MinComponent() <= geom.Epsilon {
			return nil, fmt.Errorf("%w: flat box", kernel.ErrDegenerate)
		}
		return wrap(newOrientedBox(p)), nil

	case collide.Capsule:
		if p.Radius <= geom.Epsilon {
			return nil, fmt.Errorf("%w: capsule radius %g", kernel.ErrDegenerate, p.Radius)
		}
		return wrap(newCapsule(p)), nil

	default:
		return nil, fmt.Errorf("%w: %T", kernel.ErrUnsupported, p)
	}
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Overlaps reports whether any grid point over the overlap of the two
// bounding boxes lies inside both solids. Overlaps thinner than a grid
// step can be missed; a true result is always a real overlap.
func (k *SdfxKernel) Overlaps(a, b kernel.Solid, cells int) bool {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	var lo, hi [3]float64
	for i := 0; i < 3; i++ {
		lo[i] = max(amin[i], bmin[i])
		hi[i] = min(amax[i], bmax[i])
		if lo[i] > hi[i] {
			return false
		}
	}
	if cells < 1 {
		cells = 1
	}

	field := unwrap(k.Intersection(a, b))
	step := v3.Vec{
		X: (hi[0] - lo[0]) / float64(cells),
		Y: (hi[1] - lo[1]) / float64(cells),
		Z: (hi[2] - lo[2]) / float64(cells),
	}
	for i := 0; i <= cells; i++ {
		for j := 0; j <= cells; j++ {
			for l := 0; l <= cells; l++ {
				p := v3.Vec{
					X: lo[0] + float64(i)*step.X,
					Y: lo[1] + float64(j)*step.Y,
					Z: lo[2] + float64(l)*step.Z,
				}
				if field.Evaluate(p) <= 0 {
					return true
				}
			}
		}
	}
	return false
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid, cells int) (*kernel.Mesh, error) {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
