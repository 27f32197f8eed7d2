package server

import (
	"fmt"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit           bool                   `json:"hit"`
	GeometryType  string                 `json:"geometryType,omitempty"`
	Geometry      map[string]interface{} `json:"geometry,omitempty"`
	MaterialIndex int                    `json:"materialIndex,omitempty"`
	Material      map[string]interface{} `json:"material,omitempty"`
	Point         [3]float64             `json:"point"`
	Normal        [3]float64             `json:"normal"`
	Distance      float64                `json:"distance"`
	AllHits       []HitInfo              `json:"allHits"` // Every surface crossed by the primary ray
}

// HitInfo summarizes one intersection along the inspected ray
type HitInfo struct {
	GeometryType  string     `json:"geometryType"`
	MaterialIndex int        `json:"materialIndex"`
	Point         [3]float64 `json:"point"`
	Distance      float64    `json:"distance"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 255)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X), int(c.Y), int(c.Z))
}

// extractMaterialInfo describes a material for display
func extractMaterialInfo(m *scene.Material) map[string]interface{} {
	return map[string]interface{}{
		"diffuse":      vecArray(m.DiffuseColor),
		"color":        hexColor(m.DiffuseColor),
		"specular":     vecArray(m.SpecularColor),
		"reflection":   vecArray(m.ReflectionColor),
		"shininess":    m.Shininess,
		"transparency": m.Transparency,
	}
}

// extractGeometryInfo describes a surface's shape parameters
func extractGeometryInfo(surface geometry.Surface) map[string]interface{} {
	properties := make(map[string]interface{})

	switch geom := surface.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
	case *geometry.Plane:
		properties["normal"] = vecArray(geom.Normal)
		properties["offset"] = geom.Offset
	case *geometry.Cube:
		properties["center"] = vecArray(geom.Center)
		properties["edgeLength"] = geom.EdgeLength
		bounds := geom.Bounds()
		properties["boundingBox"] = map[string]interface{}{
			"min": vecArray(bounds.Min),
			"max": vecArray(bounds.Max),
		}
	}
	return properties
}

// inspectPixel traces the primary ray of a pixel and reports what it hits
func inspectPixel(scn *scene.Scene, width, height, pixelX, pixelY int) InspectResponse {
	ray := scn.Camera.GetRay(pixelX, pixelY, width, height)

	response := InspectResponse{AllHits: []HitInfo{}}
	for _, hit := range geometry.FindAll(ray, scn.Surfaces, nil) {
		response.AllHits = append(response.AllHits, HitInfo{
			GeometryType:  scene.SurfaceKind(hit.Surface),
			MaterialIndex: hit.Surface.MaterialIndex(),
			Point:         vecArray(hit.HitPoint),
			Distance:      hit.Distance,
		})
	}

	hit, ok := geometry.FindNearest(ray, scn.Surfaces, nil)
	if !ok {
		return response
	}

	response.Hit = true
	response.GeometryType = scene.SurfaceKind(hit.Surface)
	response.Geometry = extractGeometryInfo(hit.Surface)
	response.MaterialIndex = hit.Surface.MaterialIndex()
	response.Material = extractMaterialInfo(scn.MaterialFor(hit.Surface))
	response.Point = vecArray(hit.HitPoint)
	response.Normal = vecArray(hit.Normal)
	response.Distance = hit.Distance
	return response
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "inspect")
	defer span.End()

	query := r.URL.Query()
	width, height, err := s.parseSize(query)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil || pixelX < 0 || pixelX >= width {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil || pixelY < 0 || pixelY >= height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	_, loadSpan := otel.Tracer(tracerName).Start(ctx, "resolveScene")
	resolved, err := s.resolveScene(query.Get("scene"))
	loadSpan.End()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.Int("x", pixelX), attribute.Int("y", pixelY))
	writeJSON(w, http.StatusOK, inspectPixel(resolved.Scene, width, height, pixelX, pixelY))
}
