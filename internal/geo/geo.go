package geo

import (
	"fmt"
	"math"
	"strconv"
)

// Point is a WGS84 coordinate pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ring is an ordered boundary ring of [lng, lat] vertices, first vertex
// repeated as the last to close the ring. The lng-first order matches the
// GeoJSON-style documents the store keeps for geospatial indexing.
type Ring [][2]float64

// Rect is an axis-aligned bounding rectangle over latitude/longitude.
//
// Zone membership throughout the system is decided against a zone's Rect,
// not its exact polygon shape. The displayed boundary may be any ring; the
// containment contract is min/max lat and lng over its vertices.
type Rect struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundsOf derives the bounding rectangle of a ring. Rings must carry at
// least one vertex; callers validate ring shape at load time, so an empty
// ring here is a programming error.
func BoundsOf(ring Ring) (Rect, error) {
	if len(ring) == 0 {
		return Rect{}, fmt.Errorf("ring has no vertices")
	}
	r := Rect{
		MinLat: ring[0][1], MaxLat: ring[0][1],
		MinLng: ring[0][0], MaxLng: ring[0][0],
	}
	for _, v := range ring[1:] {
		lng, lat := v[0], v[1]
		r.MinLat = math.Min(r.MinLat, lat)
		r.MaxLat = math.Max(r.MaxLat, lat)
		r.MinLng = math.Min(r.MinLng, lng)
		r.MaxLng = math.Max(r.MaxLng, lng)
	}
	return r, nil
}

// Contains reports whether p lies inside the rectangle, bounds inclusive.
func (r Rect) Contains(p Point) bool {
	return p.Lat >= r.MinLat && p.Lat <= r.MaxLat &&
		p.Lng >= r.MinLng && p.Lng <= r.MaxLng
}

// Clamp pushes each coordinate of p independently into the rectangle's range.
func (r Rect) Clamp(p Point) Point {
	return Point{
		Lat: math.Max(r.MinLat, math.Min(r.MaxLat, p.Lat)),
		Lng: math.Max(r.MinLng, math.Min(r.MaxLng, p.Lng)),
	}
}

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// ParseLatLng parses latitude and longitude strings, rejecting non-numeric,
// NaN/Inf and out-of-range values.
func ParseLatLng(latStr, lngStr string) (Point, error) {
	lat, err := parseCoord(latStr, 90, "lat")
	if err != nil {
		return Point{}, err
	}
	lng, err := parseCoord(lngStr, 180, "lng")
	if err != nil {
		return Point{}, err
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// ParseRadiusKm parses a search radius in kilometres; it must be a positive
// finite number.
func ParseRadiusKm(s string) (float64, error) {
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("invalid radius %q", s)
	}
	if r <= 0 {
		return 0, fmt.Errorf("radius must be positive, got %v", r)
	}
	return r, nil
}

func parseCoord(s string, limit float64, name string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%s %v out of range [%v, %v]", name, v, -limit, limit)
	}
	return v, nil
}
