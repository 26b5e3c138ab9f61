package server

import (
	"net/http"
	"strconv"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool       `json:"hit"`
	MaterialType string     `json:"materialType,omitempty"`
	GeometryType string     `json:"geometryType,omitempty"`
	Caps         string     `json:"caps,omitempty"` // Cylinders only
	Color        [3]float64 `json:"color"`
	Emission     float64    `json:"emission"`
	Point        [3]float64 `json:"point"`
	Normal       [3]float64 `json:"normal"`
	Distance     float64    `json:"distance"`
	Bounded      bool       `json:"bounded"`
}

func array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect casts the camera ray through a pixel and describes the
// first object it hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.parseRequestConfig(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= cfg.Width || pixelY < 0 || pixelY >= cfg.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sc, err := cfg.BuildScene()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Same ray the renderer casts for the pixel without jitter
	camera := renderer.NewSimpleCamera(cfg.Width, cfg.Height)
	ray := core.NewRay(core.Vec3{}, camera.Direction(float64(pixelX), float64(pixelY)).Normalize())

	hit, ok := sc.FindIntersection(ray)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	var caps string
	if cylinder, ok := hit.Object.Geometry.Cylinder(); ok {
		caps = cylinder.Cap.String()
	}

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		Caps:         caps,
		MaterialType: hit.Object.Material.String(),
		GeometryType: hit.Object.Geometry.Kind.String(),
		Color:        array(hit.Object.Color),
		Emission:     hit.Object.Emission,
		Point:        array(hit.Point),
		Normal:       array(hit.Normal),
		Distance:     hit.T,
		Bounded:      !hit.Object.BoundingBox().Unbounded(),
	})
}
