package scene

import (
	"math"

	"github.com/df07/go-smallpaint/pkg/core"
)

// Linear stores objects in insertion order and tests every one of them
type Linear struct {
	objects []*Object
}

// NewLinear creates an empty linear store
func NewLinear() *Linear {
	return &Linear{}
}

// Insert appends an object
func (l *Linear) Insert(object *Object) {
	l.objects = append(l.objects, object)
}

// Len returns the number of stored objects
func (l *Linear) Len() int {
	return len(l.objects)
}

// FindIntersection returns the nearest hit over all objects
func (l *Linear) FindIntersection(ray core.Ray) (Intersection, bool) {
	return nearestIntersection(l.objects, ray, math.Inf(1))
}

// nearestIntersection scans objects and keeps the smallest t strictly below
// closest. The first object wins on equal distances.
func nearestIntersection(objects []*Object, ray core.Ray, closest float64) (Intersection, bool) {
	var best Intersection
	found := false
	for _, object := range objects {
		hit, ok := object.Intersect(ray)
		if !ok || hit.T < core.SelfIntersectionTolerance || hit.T >= closest {
			continue
		}
		closest = hit.T
		best = hit
		found = true
	}
	return best, found
}
