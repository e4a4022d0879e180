package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/harrycollin/simple-raytracer/pkg/core"
	"github.com/harrycollin/simple-raytracer/pkg/geometry"
	"github.com/harrycollin/simple-raytracer/pkg/integrator"
	"github.com/harrycollin/simple-raytracer/pkg/renderer"
	"github.com/harrycollin/simple-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        [3]float64             `json:"color"` // One linear sample through the pixel
	Properties   map[string]interface{} `json:"properties"`
}

// inspectPixel casts the primary ray for a pixel and reports the nearest shape it hits
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) (core.Ray, core.Hit, core.Shape, bool) {
	ray, ok := sceneObj.Camera.GetRay(float64(pixelX), float64(pixelY), width, height)
	if !ok {
		return core.Ray{}, core.Hit{}, nil, false
	}

	hit, shape, isHit := sceneObj.Nearest(ray)
	return ray, hit, shape, isHit
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape core.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	surface := shape.Surface()
	properties["color"] = [3]float64{surface.Color.R, surface.Color.G, surface.Color.B}
	properties["roughness"] = surface.Roughness
	properties["reflectivity"] = surface.Reflectivity

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	values := r.URL.Query()
	req := &RenderRequest{}
	sceneObj, err := parseSceneParams(values, req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(values.Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(values.Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	ray, hit, shape, isHit := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if !isHit {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(InspectResponse{Hit: false})
		return
	}

	config := renderer.ConfigForScene(req.Scene, sceneObj)
	color := integrator.NewReflectiveIntegrator(config.Integrator).RayColor(ray, sceneObj, core.NewSeededSampler(0))

	geometryType, properties := extractGeometryInfo(shape)

	response := InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.Distance,
		Color:        [3]float64{color.R, color.G, color.B},
		Properties:   properties,
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
