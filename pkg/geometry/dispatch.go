package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// FindNearest returns the closest intersection of the ray with any surface
// other than ignore. Ties keep the first surface in list order. Pass a nil
// ignore to consider every surface.
func FindNearest(ray core.Ray, surfaces []Surface, ignore Surface) (*Intersection, bool) {
	var nearest *Intersection
	for _, surface := range surfaces {
		if ignore != nil && surface == ignore {
			continue
		}
		hit, ok := surface.Intersect(ray)
		if !ok {
			continue
		}
		if nearest == nil || hit.Distance < nearest.Distance {
			nearest = hit
		}
	}
	return nearest, nearest != nil
}

// FindAll returns every intersection of the ray with the surfaces other than
// ignore, in surface order. It is meant for diagnostics; shading only needs
// FindNearest.
func FindAll(ray core.Ray, surfaces []Surface, ignore Surface) []*Intersection {
	var hits []*Intersection
	for _, surface := range surfaces {
		if ignore != nil && surface == ignore {
			continue
		}
		if hit, ok := surface.Intersect(ray); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}
