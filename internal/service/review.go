package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"flock/internal/domain"
	"flock/internal/repository"
)

// ReviewService gates and stores reviews between trip participants.
type ReviewService struct {
	tripRepo    repository.TripRepository
	requestRepo repository.RideRequestRepository
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	tripRepo repository.TripRepository,
	requestRepo repository.RideRequestRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
) *ReviewService {
	return &ReviewService{
		tripRepo:    tripRepo,
		requestRepo: requestRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
	}
}

// ReviewInput contains the parameters for reviewing a trip participant.
type ReviewInput struct {
	RevieweeID string
	Rating     *int // nil when missing or not an integer
	Comment    string
}

// ReviewView is a review with the reviewer's name.
type ReviewView struct {
	Review       *domain.Review
	ReviewerName string
}

// UserReviews is every review a user received with the summary.
type UserReviews struct {
	Reviews []*ReviewView
	Summary domain.ReviewSummary
}

// CreateReview records a review. Drivers review accepted riders; accepted
// riders review the driver. Reviews open once departure time has passed.
func (s *ReviewService) CreateReview(ctx context.Context, p domain.Principal, tripID string, in ReviewInput) (*domain.Review, error) {
	if in.RevieweeID == "" || in.Rating == nil {
		return nil, ErrReviewFieldsRequired
	}
	if *in.Rating < domain.MinRating || *in.Rating > domain.MaxRating {
		return nil, ErrRatingOutOfRange
	}
	if !validID(tripID) {
		return nil, ErrTripNotFound
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if !trip.DepartureTime.Before(time.Now()) {
		return nil, ErrReviewLocked
	}

	if in.RevieweeID == p.ID {
		return nil, ErrSelfReview
	}

	if trip.DriverID == p.ID {
		accepted, err := s.requestRepo.ListAcceptedByTrip(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		allowed := false
		for _, r := range accepted {
			if r.RiderID == in.RevieweeID {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrDriverReviewTarget
		}
	} else {
		req, err := s.requestRepo.GetByTripAndRider(ctx, trip.ID, p.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if req == nil || !req.IsAccepted() {
			return nil, ErrReviewerNotAccepted
		}
		if in.RevieweeID != trip.DriverID {
			return nil, ErrRiderReviewTarget
		}
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		TripID:     trip.ID,
		ReviewerID: p.ID,
		RevieweeID: in.RevieweeID,
		Rating:     *in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  time.Now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	return review, nil
}

// ListUserReviews returns the reviews a user received, newest first.
func (s *ReviewService) ListUserReviews(ctx context.Context, userID string) (*UserReviews, error) {
	if !validID(userID) {
		return nil, ErrInvalidUserID
	}

	reviews, err := s.reviewRepo.ListByReviewee(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ReviewerID)
	}
	reviewers, err := s.userRepo.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	views := make([]*ReviewView, 0, len(reviews))
	for _, r := range reviews {
		v := &ReviewView{Review: r}
		if u, ok := reviewers[r.ReviewerID]; ok {
			v.ReviewerName = u.Name
		}
		views = append(views, v)
	}

	return &UserReviews{Reviews: views, Summary: domain.SummarizeReviews(reviews)}, nil
}
