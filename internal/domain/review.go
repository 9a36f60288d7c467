package domain

import (
	"math"
	"time"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating left by one trip participant for another.
type Review struct {
	ID         string
	TripID     string
	ReviewerID string
	RevieweeID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// ReviewSummary aggregates the reviews a user received.
type ReviewSummary struct {
	Count         int
	AverageRating float64
}

// SummarizeReviews counts reviews and averages their ratings to one decimal.
func SummarizeReviews(reviews []*Review) ReviewSummary {
	if len(reviews) == 0 {
		return ReviewSummary{}
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}

	avg := float64(total) / float64(len(reviews))
	return ReviewSummary{
		Count:         len(reviews),
		AverageRating: math.Round(avg*10) / 10,
	}
}
