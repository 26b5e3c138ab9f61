// Package loaders reads scene descriptions from disk.
package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/geometry"
	"github.com/df07/go-smallpaint/pkg/scene"
	"gopkg.in/yaml.v2"
)

// ErrSceneFile is wrapped by every malformed scene description
var ErrSceneFile = errors.New("loaders: invalid scene file")

// SceneFile is the YAML description of a scene
type SceneFile struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Objects     []ObjectSpec `yaml:"objects"`
}

// ObjectSpec describes one object. Which geometry fields are read depends
// on Type:
//
//	plane:    point, normal
//	sphere:   center, radius
//	cylinder: origin, direction, height, radius, caps
//	lens:     origin, direction, thickness, radius, front_radius, back_radius
type ObjectSpec struct {
	Type     string    `yaml:"type"`
	Material string    `yaml:"material"`
	Color    []float64 `yaml:"color"`
	Emission float64   `yaml:"emission"`

	Point     []float64 `yaml:"point"`
	Normal    []float64 `yaml:"normal"`
	Center    []float64 `yaml:"center"`
	Origin    []float64 `yaml:"origin"`
	Direction []float64 `yaml:"direction"`

	Radius      float64 `yaml:"radius"`
	Height      float64 `yaml:"height"`
	Caps        string  `yaml:"caps"`
	Thickness   float64 `yaml:"thickness"`
	FrontRadius float64 `yaml:"front_radius"`
	BackRadius  float64 `yaml:"back_radius"`
}

// IsSceneFile reports whether name refers to a scene description file
// rather than a bundled sample
func IsSceneFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadScene reads a scene description and builds it with the given storage
func LoadScene(path string, kind scene.StorageKind, maxLeafSize int) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loaders: %w", err)
	}
	sc, err := ParseScene(data, kind, maxLeafSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScene decodes a scene description and returns the scene ready for
// queries. Unknown keys are rejected.
func ParseScene(data []byte, kind scene.StorageKind, maxLeafSize int) (*scene.Scene, error) {
	var file SceneFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSceneFile, err)
	}
	if len(file.Objects) == 0 {
		return nil, fmt.Errorf("%w: no objects", ErrSceneFile)
	}

	sc := scene.New(kind)
	for i, spec := range file.Objects {
		object, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, spec.Type, err)
		}
		sc.Insert(object)
	}
	sc.Rebuild(maxLeafSize)
	return sc, nil
}

func (o ObjectSpec) build() (*scene.Object, error) {
	material, err := parseMaterial(o.Material)
	if err != nil {
		return nil, err
	}
	var color core.Vec3
	if o.Color != nil {
		if color, err = vec("color", o.Color); err != nil {
			return nil, err
		}
	}

	switch o.Type {
	case "plane":
		point, err := vec("point", o.Point)
		if err != nil {
			return nil, err
		}
		normal, err := vec("normal", o.Normal)
		if err != nil {
			return nil, err
		}
		if normal.Length() == 0 {
			return nil, fmt.Errorf("%w: plane normal must not be zero", ErrSceneFile)
		}
		return scene.NewPlane(color, o.Emission, material, point, normal.Normalize()), nil

	case "sphere":
		center, err := vec("center", o.Center)
		if err != nil {
			return nil, err
		}
		if o.Radius <= 0 {
			return nil, fmt.Errorf("%w: sphere radius must be positive", ErrSceneFile)
		}
		return scene.NewSphere(color, o.Emission, material, center, o.Radius), nil

	case "cylinder":
		axis, err := o.axis()
		if err != nil {
			return nil, err
		}
		caps, err := parseCaps(o.Caps)
		if err != nil {
			return nil, err
		}
		if o.Radius <= 0 {
			return nil, fmt.Errorf("%w: cylinder radius must be positive", ErrSceneFile)
		}
		return scene.NewCylinder(color, o.Emission, material, axis, o.Height, o.Radius, caps)

	case "lens":
		axis, err := o.axis()
		if err != nil {
			return nil, err
		}
		return scene.NewLens(color, o.Emission, material, axis, o.Thickness, o.Radius, o.FrontRadius, o.BackRadius)

	default:
		return nil, fmt.Errorf("%w: unknown object type %q", ErrSceneFile, o.Type)
	}
}

func (o ObjectSpec) axis() (core.Ray, error) {
	origin, err := vec("origin", o.Origin)
	if err != nil {
		return core.Ray{}, err
	}
	direction, err := vec("direction", o.Direction)
	if err != nil {
		return core.Ray{}, err
	}
	if direction.Length() == 0 {
		return core.Ray{}, fmt.Errorf("%w: axis direction must not be zero", ErrSceneFile)
	}
	return core.NewRay(origin, direction.Normalize()), nil
}

func vec(field string, values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s needs 3 components, got %d", ErrSceneFile, field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func parseMaterial(name string) (scene.Material, error) {
	for _, m := range []scene.Material{scene.Diffuse, scene.Specular, scene.Refractive} {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	if name == "" {
		return scene.Diffuse, nil
	}
	return 0, fmt.Errorf("%w: unknown material %q", ErrSceneFile, name)
}

// parseCaps accepts the flat cap variants only; custom caps belong to lenses
func parseCaps(name string) (geometry.CapType, error) {
	for _, c := range []geometry.CapType{geometry.ThroughHole, geometry.SingleCap, geometry.DoubleCap} {
		if strings.EqualFold(name, c.String()) {
			return c, nil
		}
	}
	if name == "" {
		return geometry.DoubleCap, nil
	}
	return 0, fmt.Errorf("%w: unknown caps %q", ErrSceneFile, name)
}
