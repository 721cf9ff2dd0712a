// Package graph defines the collider scene graph. Groups carry a local
// transform and own children; colliders carry a shape and a local
// transform. World placement is the composition of the transforms on the
// path from a root, which is what the collision tests consume.
package graph
