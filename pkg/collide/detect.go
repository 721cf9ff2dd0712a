package collide

import "fmt"

// Detect runs the test matching the kinds of a and b. The contact normal
// always points from a toward b. A nil primitive never intersects.
func Detect(a, b Primitive) Result {
	switch pa := a.(type) {
	case Sphere:
		switch pb := b.(type) {
		case Sphere:
			return SphereSphere(pa, pb)
		case Box:
			return SphereBox(pa, pb)
		case Capsule:
			return SphereCapsule(pa, pb)
		}
	case Box:
		switch pb := b.(type) {
		case Sphere:
			return SphereBox(pb, pa).Flip()
		case Box:
			return BoxBox(pa, pb)
		case Capsule:
			return BoxCapsule(pa, pb)
		}
	case Capsule:
		switch pb := b.(type) {
		case Sphere:
			return SphereCapsule(pb, pa).Flip()
		case Box:
			return CapsuleBox(pa, pb)
		case Capsule:
			return CapsuleCapsule(pa, pb)
		}
	}
	return Result{}
}

// DetectObjects resolves both objects and tests them.
func DetectObjects(a, b Object) (Result, error) {
	pa, err := Resolve(a)
	if err != nil {
		return Result{}, fmt.Errorf("detect: first object: %w", err)
	}
	pb, err := Resolve(b)
	if err != nil {
		return Result{}, fmt.Errorf("detect: second object: %w", err)
	}
	return Detect(pa, pb), nil
}

// DetectSphereSphere tests two sphere objects.
func DetectSphereSphere(a, b Object) (Result, error) {
	sa, err := sphereShape(a)
	if err != nil {
		return Result{}, fmt.Errorf("sphere-sphere: first object: %w", err)
	}
	sb, err := sphereShape(b)
	if err != nil {
		return Result{}, fmt.Errorf("sphere-sphere: second object: %w", err)
	}
	return SphereSphere(ResolveSphere(a.Transform, sa), ResolveSphere(b.Transform, sb)), nil
}

// DetectAABBCapsule tests a box object against a capsule object.
func DetectAABBCapsule(box, capsule Object) (Result, error) {
	bs, ok := box.Shape.(BoxShape)
	if !ok {
		return Result{}, fmt.Errorf("box-capsule: first object is %s: %w", shapeName(box.Shape), ErrShapeMismatch)
	}
	cs, ok := capsule.Shape.(CapsuleShape)
	if !ok {
		return Result{}, fmt.Errorf("box-capsule: second object is %s: %w", shapeName(capsule.Shape), ErrShapeMismatch)
	}
	return BoxCapsule(ResolveBox(box.Transform, bs), ResolveCapsule(capsule.Transform, cs)), nil
}

// DetectCapsuleCapsule tests two capsule objects.
func DetectCapsuleCapsule(a, b Object) (Result, error) {
	ca, ok := a.Shape.(CapsuleShape)
	if !ok {
		return Result{}, fmt.Errorf("capsule-capsule: first object is %s: %w", shapeName(a.Shape), ErrShapeMismatch)
	}
	cb, ok := b.Shape.(CapsuleShape)
	if !ok {
		return Result{}, fmt.Errorf("capsule-capsule: second object is %s: %w", shapeName(b.Shape), ErrShapeMismatch)
	}
	return CapsuleCapsule(ResolveCapsule(a.Transform, ca), ResolveCapsule(b.Transform, cb)), nil
}

func sphereShape(o Object) (SphereShape, error) {
	s, ok := o.Shape.(SphereShape)
	if !ok {
		return SphereShape{}, fmt.Errorf("object is %s: %w", shapeName(o.Shape), ErrShapeMismatch)
	}
	return s, nil
}

func shapeName(s Shape) string {
	if s == nil {
		return "empty"
	}
	return "a " + s.ShapeKind().String()
}
