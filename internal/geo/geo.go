package geo

import "math"

const (
	earthRadiusKm = 6371.0

	// CircuityFactor converts great-circle distance into an approximate road distance.
	CircuityFactor = 1.2
)

// City is a supported trip endpoint.
type City struct {
	Value string  `json:"value"`
	Label string  `json:"label"`
	Lat   float64 `json:"latitude"`
	Lng   float64 `json:"longitude"`
}

// Directory is a read-only index of supported cities.
type Directory struct {
	cities []City
	byKey  map[string]City
}

// NewDirectory builds a directory from the given cities. The slice is copied.
func NewDirectory(cities []City) *Directory {
	d := &Directory{
		cities: make([]City, len(cities)),
		byKey:  make(map[string]City, len(cities)),
	}
	copy(d.cities, cities)
	for _, c := range cities {
		d.byKey[c.Value] = c
	}
	return d
}

var defaultDirectory = NewDirectory(cityTable)

// Default returns the directory of built-in supported cities.
func Default() *Directory {
	return defaultDirectory
}

// All returns a copy of every supported city in table order.
func (d *Directory) All() []City {
	out := make([]City, len(d.cities))
	copy(out, d.cities)
	return out
}

// IsSupported reports whether value names a supported city.
func (d *Directory) IsSupported(value string) bool {
	_, ok := d.byKey[value]
	return ok
}

// Lookup returns the city for value.
func (d *Directory) Lookup(value string) (City, bool) {
	c, ok := d.byKey[value]
	return c, ok
}

// DistanceKm returns the estimated road distance between two supported cities,
// rounded to the nearest kilometre. Unknown or identical cities yield 0.
func (d *Directory) DistanceKm(origin, destination string) int {
	if origin == destination {
		return 0
	}
	from, ok := d.byKey[origin]
	if !ok {
		return 0
	}
	to, ok := d.byKey[destination]
	if !ok {
		return 0
	}
	return int(math.Round(HaversineKm(from.Lat, from.Lng, to.Lat, to.Lng) * CircuityFactor))
}

// HaversineKm calculates the great-circle distance between two points in kilometres.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dlng/2)*math.Sin(dlng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
