package models

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// HaversineKm возвращает расстояние по большому кругу между двумя точками в километрах.
// Радиус сферы orb.EarthRadius (6378.137 км) близок к сфере, на которой MongoDB считает $geoNear.
func HaversineKm(lon1, lat1, lon2, lat2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2}) / 1000
}
