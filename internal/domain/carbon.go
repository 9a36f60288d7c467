package domain

// CarbonGramsPerKm is the CO2 a shared ride saves per kilometre.
const CarbonGramsPerKm = 110

// CarbonStats is a user's lifetime carbon savings.
type CarbonStats struct {
	TotalCO2SavedGrams int
	TotalDistanceKm    int
	CompletedRides     int
}

// CarbonLeg is one counted ride between two cities for a user.
type CarbonLeg struct {
	UserID          string
	OriginCity      string
	DestinationCity string
}

// Add accumulates one ride of the given distance.
func (s *CarbonStats) Add(distanceKm int) {
	s.TotalDistanceKm += distanceKm
	s.TotalCO2SavedGrams += distanceKm * CarbonGramsPerKm
	s.CompletedRides++
}
