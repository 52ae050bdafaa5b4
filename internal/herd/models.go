package herd

import "github.com/GestionGanadera/GG-Backend/internal/geo"

// Animal is one head of livestock. Position and zone are rewritten by the
// movement simulator, the connected flag by the connectivity simulator;
// records are created at seed time and never deleted during operation.
type Animal struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Lat         float64 `json:"-"`
	Lng         float64 `json:"-"`
	Connected   bool    `json:"connected"`
	ZoneID      *string `json:"zoneId"`
}

func (Animal) TableName() string { return "ganaderia.cattle" }

// Position returns the animal's coordinates as a point.
func (a Animal) Position() geo.Point {
	return geo.Point{Lat: a.Lat, Lng: a.Lng}
}

// Filter narrows a herd listing. Zero values mean "no constraint"; Connected
// is a pointer so false is distinguishable from unset.
type Filter struct {
	ZoneID    string
	Connected *bool
}

// Query is one radius/text search request over the herd.
type Query struct {
	Search    string
	ZoneID    string
	Connected *bool
	Center    *geo.Point
	RadiusKm  float64
}
