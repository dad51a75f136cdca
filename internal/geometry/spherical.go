package geometry

import "math"

const earthRadiusKm = 6371.0088

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// haversineKm returns the great-circle distance between two lon/lat points.
func haversineKm(lon1, lat1, lon2, lat2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// ringAreaKm2 returns the signed spherical area of one linear ring using the
// RFC 7946 recommended approximation. Positive for counter-clockwise rings.
func ringAreaKm2(ring [][]float64) float64 {
	if len(ring) < 4 {
		return 0
	}
	var total float64
	for i := 0; i < len(ring)-1; i++ {
		p1, p2 := ring[i], ring[i+1]
		if len(p1) < 2 || len(p2) < 2 {
			continue
		}
		lon1, lat1 := toRadians(p1[0]), toRadians(p1[1])
		lon2, lat2 := toRadians(p2[0]), toRadians(p2[1])
		total += (lon2 - lon1) * (2 + math.Sin(lat1) + math.Sin(lat2))
	}
	return total * earthRadiusKm * earthRadiusKm / 2
}

// ringPerimeterKm sums great-circle segment lengths along a ring.
func ringPerimeterKm(ring [][]float64) float64 {
	var total float64
	for i := 0; i < len(ring)-1; i++ {
		p1, p2 := ring[i], ring[i+1]
		if len(p1) < 2 || len(p2) < 2 {
			continue
		}
		total += haversineKm(p1[0], p1[1], p2[0], p2[1])
	}
	return total
}

// polygonAreaKm2 returns the absolute area of one polygon: exterior ring
// minus interior holes.
func polygonAreaKm2(poly [][][]float64) float64 {
	if len(poly) == 0 {
		return 0
	}
	area := math.Abs(ringAreaKm2(poly[0]))
	for _, hole := range poly[1:] {
		area -= math.Abs(ringAreaKm2(hole))
	}
	if area < 0 {
		return 0
	}
	return area
}

// complexityRatio relates a shape's perimeter to the perimeter of a circle
// with the same area: 1.0 is a perfect circle, larger means more jagged or
// fragmented coastline.
func complexityRatio(perimeterKm, areaKm2 float64) float64 {
	if areaKm2 <= 0 {
		return 0
	}
	return perimeterKm / (2 * math.Sqrt(math.Pi*areaKm2))
}
