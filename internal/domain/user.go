package domain

import (
	"strings"
	"time"
)

// Principal is the authenticated caller, decoded from a bearer token.
type Principal struct {
	ID    string
	Email string
	Name  string
}

// Gender values accepted on driver profiles.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User represents an account. A user becomes a driver once a complete car profile is stored.
type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	PhoneNumber      string
	ProfilePhotoURL  string
	Major            string
	AcademicYear     string
	Vibe             string
	FavoritePlaylist string
	Gender           string
	IsDriver         bool
	Car              *CarProfile // nil when the user has no driver registration
	Student          StudentVerification
	CreatedAt        time.Time
}

// StudentVerification tracks the .edu email verification flow.
type StudentVerification struct {
	Email        string
	PendingEmail string
	Code         string
	ExpiresAt    time.Time
	Verified     bool
	SchoolName   string
	VerifiedAt   time.Time
}

// CarProfile holds the vehicle details a driver must provide.
// Make, Model, Color, PlateState and PlateNumber are always set together.
type CarProfile struct {
	Make        string
	Model       string
	Color       string
	PlateState  string
	PlateNumber string
	Description string
}

// CarProfileInput is the raw, possibly partial, car data from a request.
type CarProfileInput struct {
	Make        string
	Model       string
	Color       string
	PlateState  string
	PlateNumber string
	Description string
}

// NewCarProfile validates the input as a whole.
// It returns (nil, nil) when no required field is set and ErrIncompleteCarProfile
// when only some of them are.
func NewCarProfile(in CarProfileInput) (*CarProfile, error) {
	required := []string{
		strings.TrimSpace(in.Make),
		strings.TrimSpace(in.Model),
		strings.TrimSpace(in.Color),
		strings.TrimSpace(in.PlateState),
		strings.TrimSpace(in.PlateNumber),
	}

	set := 0
	for _, v := range required {
		if v != "" {
			set++
		}
	}

	switch set {
	case 0:
		return nil, nil
	case len(required):
		return &CarProfile{
			Make:        required[0],
			Model:       required[1],
			Color:       required[2],
			PlateState:  required[3],
			PlateNumber: required[4],
			Description: strings.TrimSpace(in.Description),
		}, nil
	default:
		return nil, ErrIncompleteCarProfile
	}
}

// NormalizeGender lower-cases and validates a gender value. Empty input is allowed.
func NormalizeGender(raw string) (string, error) {
	g := strings.ToLower(strings.TrimSpace(raw))
	switch g {
	case "", GenderMale, GenderFemale:
		return g, nil
	default:
		return "", ErrInvalidGender
	}
}
