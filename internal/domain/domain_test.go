package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewCarProfile(t *testing.T) {
	t.Parallel()

	full := CarProfileInput{
		Make:        " Toyota ",
		Model:       "Corolla",
		Color:       "Blue",
		PlateState:  "UT",
		PlateNumber: "ABC123",
		Description: "roof rack",
	}

	car, err := NewCarProfile(full)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if car == nil || car.Make != "Toyota" || car.Description != "roof rack" {
		t.Errorf("unexpected car profile: %+v", car)
	}

	car, err = NewCarProfile(CarProfileInput{Description: "only a note"})
	if err != nil || car != nil {
		t.Errorf("expected no car profile and no error, got %+v, %v", car, err)
	}

	_, err = NewCarProfile(CarProfileInput{Make: "Toyota", Model: "Corolla"})
	if !errors.Is(err, ErrIncompleteCarProfile) {
		t.Errorf("expected ErrIncompleteCarProfile, got %v", err)
	}
}

func TestNormalizeGender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"Male", GenderMale, false},
		{" female ", GenderFemale, false},
		{"other", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeGender(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeGender(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrip_SeatTransitions(t *testing.T) {
	t.Parallel()

	trip := &Trip{SeatsAvailable: 1, Status: TripStatusOpen}

	trip.TakeSeat()
	if trip.SeatsAvailable != 0 || trip.Status != TripStatusFull {
		t.Errorf("expected 0 seats and full, got %d %s", trip.SeatsAvailable, trip.Status)
	}

	trip.ReturnSeat()
	if trip.SeatsAvailable != 1 || trip.Status != TripStatusOpen {
		t.Errorf("expected 1 seat and open, got %d %s", trip.SeatsAvailable, trip.Status)
	}
}

func TestTrip_SetSeatsKeepsTerminalStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []TripStatus{TripStatusCancelled, TripStatusCompleted} {
		trip := &Trip{SeatsAvailable: 2, Status: status}
		trip.SetSeats(0)
		if trip.Status != status {
			t.Errorf("expected %s to be sticky, got %s", status, trip.Status)
		}
	}
}

func TestTrip_HasDeparted(t *testing.T) {
	t.Parallel()

	now := time.Now()
	if !(&Trip{DepartureTime: now.Add(-time.Minute)}).HasDeparted(now) {
		t.Error("expected past departure to count as departed")
	}
	if (&Trip{DepartureTime: now.Add(time.Hour)}).HasDeparted(now) {
		t.Error("expected future departure to not count as departed")
	}
}

func TestSummarizeReviews(t *testing.T) {
	t.Parallel()

	if s := SummarizeReviews(nil); s.Count != 0 || s.AverageRating != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}

	s := SummarizeReviews([]*Review{{Rating: 5}, {Rating: 4}, {Rating: 4}})
	if s.Count != 3 {
		t.Errorf("expected 3 reviews, got %d", s.Count)
	}
	if s.AverageRating != 4.3 {
		t.Errorf("expected average 4.3, got %v", s.AverageRating)
	}
}

func TestCarbonStats_Add(t *testing.T) {
	t.Parallel()

	var s CarbonStats
	s.Add(69)
	s.Add(10)

	if s.CompletedRides != 2 || s.TotalDistanceKm != 79 || s.TotalCO2SavedGrams != 79*CarbonGramsPerKm {
		t.Errorf("unexpected stats: %+v", s)
	}
}
