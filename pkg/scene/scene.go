package scene

import (
	"fmt"
	"strings"

	"github.com/df07/go-smallpaint/pkg/core"
)

// StorageKind selects the acceleration structure behind a Scene
type StorageKind uint8

const (
	// LinearStorage tests every object on each query
	LinearStorage StorageKind = iota
	// BVHStorage partitions bounded objects into a bounding volume hierarchy
	BVHStorage
)

func (k StorageKind) String() string {
	switch k {
	case LinearStorage:
		return "linear"
	case BVHStorage:
		return "bvh"
	default:
		return "unknown"
	}
}

// ParseStorageKind converts a storage name to its kind
func ParseStorageKind(name string) (StorageKind, error) {
	switch strings.ToLower(name) {
	case "linear", "":
		return LinearStorage, nil
	case "bvh":
		return BVHStorage, nil
	default:
		return 0, fmt.Errorf("scene: unknown storage %q", name)
	}
}

// Scene is the set of objects a tracer queries. Insertions must all happen
// before rendering starts, followed by Rebuild.
type Scene struct {
	kind   StorageKind
	linear *Linear
	bvh    *BVH
}

// New creates an empty scene backed by the given storage
func New(kind StorageKind) *Scene {
	s := &Scene{kind: kind}
	switch kind {
	case BVHStorage:
		s.bvh = NewBVH()
	default:
		s.kind = LinearStorage
		s.linear = NewLinear()
	}
	return s
}

// Kind returns the storage kind
func (s *Scene) Kind() StorageKind {
	return s.kind
}

// Insert adds an object to the scene
func (s *Scene) Insert(object *Object) {
	switch s.kind {
	case BVHStorage:
		s.bvh.Insert(object)
	default:
		s.linear.Insert(object)
	}
}

// Rebuild prepares the storage for queries after insertions.
// It is a no-op for linear storage.
func (s *Scene) Rebuild(maxLeafSize int) {
	if s.kind == BVHStorage {
		s.bvh.Rebuild(maxLeafSize)
	}
}

// Ready reports whether queries reflect every inserted object
func (s *Scene) Ready() bool {
	return s.kind != BVHStorage || !s.bvh.NeedsRebuild()
}

// Len returns the number of objects in the scene
func (s *Scene) Len() int {
	switch s.kind {
	case BVHStorage:
		return s.bvh.Len()
	default:
		return s.linear.Len()
	}
}

// FindIntersection returns the nearest object hit by the ray
func (s *Scene) FindIntersection(ray core.Ray) (Intersection, bool) {
	switch s.kind {
	case BVHStorage:
		return s.bvh.FindIntersection(ray)
	default:
		return s.linear.FindIntersection(ray)
	}
}
