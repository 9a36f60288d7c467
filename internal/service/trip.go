package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"flock/internal/domain"
	"flock/internal/geo"
	"flock/internal/logger"
	"flock/internal/repository"
)

// TripService handles the trip lifecycle.
type TripService struct {
	tx                  repository.Transactor
	tripRepo            repository.TripRepository
	requestRepo         repository.RideRequestRepository
	userRepo            repository.UserRepository
	cities              *geo.Directory
	notificationService *NotificationService
	carbonService       *CarbonService
	log                 logger.Logger
}

// NewTripService creates a new TripService.
func NewTripService(
	tx repository.Transactor,
	tripRepo repository.TripRepository,
	requestRepo repository.RideRequestRepository,
	userRepo repository.UserRepository,
	cities *geo.Directory,
	notificationService *NotificationService,
	carbonService *CarbonService,
	log logger.Logger,
) *TripService {
	return &TripService{
		tx:                  tx,
		tripRepo:            tripRepo,
		requestRepo:         requestRepo,
		userRepo:            userRepo,
		cities:              cities,
		notificationService: notificationService,
		carbonService:       carbonService,
		log:                 log,
	}
}

// TripInput contains the editable fields of a trip.
type TripInput struct {
	OriginCity       string
	DestinationCity  string
	OriginLabel      string
	DestinationLabel string
	OriginPoint      *domain.Coordinates
	DestinationPoint *domain.Coordinates
	DepartureTime    time.Time
	SeatsAvailable   *int
	MeetingSpot      string
	Notes            string
}

// TripListing is a trip in the public feed.
type TripListing struct {
	Trip                   *domain.Trip
	Driver                 *domain.User
	DriverCarbonSavedGrams int
}

// RequestWithRider is a ride request joined with its rider.
type RequestWithRider struct {
	Request *domain.RideRequest
	Rider   *domain.User
}

// TripDetails is a single trip as seen by a particular viewer.
type TripDetails struct {
	Trip                   *domain.Trip
	Driver                 *domain.User
	ShowCar                bool
	ViewerRequest          *domain.RideRequest
	RideRequests           []*RequestWithRider
	DriverCarbonSavedGrams int
}

// CreateTrip posts a new trip for a registered driver.
func (s *TripService) CreateTrip(ctx context.Context, p domain.Principal, in TripInput) (*domain.Trip, error) {
	if err := s.validate(in, 1); err != nil {
		return nil, err
	}

	driver, err := s.userRepo.GetByID(ctx, p.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if driver == nil || !driver.IsDriver {
		return nil, ErrDriverRegistrationRequired
	}

	trip := &domain.Trip{
		ID:       uuid.New().String(),
		DriverID: p.ID,
		Status:   domain.TripStatusOpen,
	}
	applyTripInput(trip, in)

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.log.Info("trip created",
		logger.String("trip_id", trip.ID),
		logger.String("driver_id", trip.DriverID),
	)
	return trip, nil
}

// UpdateTrip edits a trip. Seat changes recompute open/full unless the trip
// is cancelled or completed.
func (s *TripService) UpdateTrip(ctx context.Context, p domain.Principal, tripID string, in TripInput) (*domain.Trip, error) {
	if err := s.validate(in, 0); err != nil {
		return nil, err
	}
	if !validID(tripID) {
		return nil, ErrTripNotFound
	}

	var trip *domain.Trip
	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		var err error
		trip, err = s.lockOwnedTrip(ctx, uow, p, tripID)
		if err != nil {
			return err
		}

		applyTripInput(trip, in)
		return uow.Trips().Update(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// CancelTrip cancels a trip and notifies every accepted rider. Seats are left as they are.
func (s *TripService) CancelTrip(ctx context.Context, p domain.Principal, tripID string) (*domain.Trip, error) {
	return s.finish(ctx, p, tripID, domain.TripStatusCancelled)
}

// CompleteTrip completes a departed trip and notifies every accepted rider.
func (s *TripService) CompleteTrip(ctx context.Context, p domain.Principal, tripID string) (*domain.Trip, error) {
	return s.finish(ctx, p, tripID, domain.TripStatusCompleted)
}

func (s *TripService) finish(ctx context.Context, p domain.Principal, tripID string, target domain.TripStatus) (*domain.Trip, error) {
	if !validID(tripID) {
		return nil, ErrTripNotFound
	}

	var (
		trip          *domain.Trip
		accepted      []*domain.RideRequest
		notifications []*domain.Notification
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		var err error
		trip, err = s.lockOwnedTrip(ctx, uow, p, tripID)
		if err != nil {
			return err
		}

		if err := checkFinishable(trip, target, time.Now()); err != nil {
			return err
		}

		trip.Status = target
		if err := uow.Trips().Update(ctx, trip); err != nil {
			return err
		}

		accepted, err = uow.RideRequests().ListAcceptedByTrip(ctx, trip.ID)
		if err != nil {
			return err
		}

		for _, req := range accepted {
			var n *domain.Notification
			if target == domain.TripStatusCancelled {
				n, err = s.notificationService.NotifyTripCancelled(ctx, uow.Notifications(), req)
			} else {
				n, err = s.notificationService.NotifyTripCompleted(ctx, uow.Notifications(), req)
			}
			if err != nil {
				return err
			}
			notifications = append(notifications, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.Dispatch(ctx, notifications...)

	affected := []string{trip.DriverID}
	for _, req := range accepted {
		affected = append(affected, req.RiderID)
	}
	s.carbonService.Invalidate(ctx, affected...)

	s.log.Info("trip finished",
		logger.String("trip_id", trip.ID),
		logger.String("status", string(trip.Status)),
		logger.Int("accepted_riders", len(accepted)),
	)
	return trip, nil
}

func checkFinishable(trip *domain.Trip, target domain.TripStatus, now time.Time) error {
	if target == domain.TripStatusCancelled {
		switch trip.Status {
		case domain.TripStatusCancelled:
			return ErrTripAlreadyCancelled
		case domain.TripStatusCompleted:
			return ErrCompletedTripNotCancellable
		}
		return nil
	}

	switch trip.Status {
	case domain.TripStatusCompleted:
		return ErrTripAlreadyCompleted
	case domain.TripStatusCancelled:
		return ErrCancelledTripNotCompletable
	}
	if trip.DepartureTime.After(now) {
		return ErrTripNotDeparted
	}
	return nil
}

// CompleteExpiredTrips completes departed trips that carried at least one accepted rider.
func (s *TripService) CompleteExpiredTrips(ctx context.Context) (int64, error) {
	n, err := s.tripRepo.CompleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("auto-completed expired trips", logger.Int64("count", n))
	}
	return n, nil
}

// ListTrips returns every trip with its driver and the driver's carbon savings.
func (s *TripService) ListTrips(ctx context.Context) ([]*TripListing, error) {
	s.sweep(ctx)

	trips, err := s.tripRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	driverIDs := make([]string, 0, len(trips))
	for _, t := range trips {
		driverIDs = append(driverIDs, t.DriverID)
	}
	driverIDs = uniqueIDs(driverIDs)

	drivers, err := s.userRepo.GetByIDs(ctx, driverIDs)
	if err != nil {
		return nil, err
	}

	carbon, err := s.carbonService.SavedGramsForUsers(ctx, driverIDs)
	if err != nil {
		return nil, err
	}

	listings := make([]*TripListing, 0, len(trips))
	for _, t := range trips {
		listings = append(listings, &TripListing{
			Trip:                   t,
			Driver:                 drivers[t.DriverID],
			DriverCarbonSavedGrams: carbon[t.DriverID],
		})
	}
	return listings, nil
}

// GetTrip returns a trip as seen by viewer, who may be nil for anonymous callers.
// Car details are shown only to the driver and accepted riders; the request
// list only to the driver.
func (s *TripService) GetTrip(ctx context.Context, viewer *domain.Principal, tripID string) (*TripDetails, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	driver, err := s.userRepo.GetByID(ctx, trip.DriverID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	details := &TripDetails{Trip: trip, Driver: driver, RideRequests: []*RequestWithRider{}}
	isDriver := viewer != nil && viewer.ID == trip.DriverID

	switch {
	case isDriver:
		details.ShowCar = true
		details.RideRequests, err = s.requestsWithRiders(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
	case viewer != nil:
		req, err := s.requestRepo.GetByTripAndRider(ctx, trip.ID, viewer.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		details.ViewerRequest = req
		details.ShowCar = req != nil && req.IsAccepted()
	}

	stats, err := s.carbonService.StatsForUser(ctx, trip.DriverID)
	if err != nil {
		return nil, err
	}
	details.DriverCarbonSavedGrams = stats.TotalCO2SavedGrams

	return details, nil
}

// ListMyTrips returns the trips the caller drives.
func (s *TripService) ListMyTrips(ctx context.Context, p domain.Principal) ([]*domain.Trip, error) {
	s.sweep(ctx)
	return s.tripRepo.ListByDriver(ctx, p.ID)
}

// sweep runs the auto-complete pass ahead of a read. A failed sweep does not fail the read.
func (s *TripService) sweep(ctx context.Context) {
	if _, err := s.CompleteExpiredTrips(ctx); err != nil {
		s.log.Warn("auto-complete sweep failed", logger.Error(err))
	}
}

func (s *TripService) requestsWithRiders(ctx context.Context, tripID string) ([]*RequestWithRider, error) {
	requests, err := s.requestRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	riderIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		riderIDs = append(riderIDs, r.RiderID)
	}

	riders, err := s.userRepo.GetByIDs(ctx, riderIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*RequestWithRider, 0, len(requests))
	for _, r := range requests {
		out = append(out, &RequestWithRider{Request: r, Rider: riders[r.RiderID]})
	}
	return out, nil
}

func (s *TripService) getTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
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
	return trip, nil
}

func (s *TripService) lockOwnedTrip(ctx context.Context, uow repository.UnitOfWork, p domain.Principal, tripID string) (*domain.Trip, error) {
	trip, err := uow.Trips().GetByIDForUpdate(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	if trip.DriverID != p.ID {
		return nil, ErrNotTripOwner
	}
	return trip, nil
}

func (s *TripService) validate(in TripInput, minSeats int) error {
	if in.OriginCity == "" || in.DestinationCity == "" || in.DepartureTime.IsZero() || in.SeatsAvailable == nil {
		return ErrTripFieldsRequired
	}

	if !s.cities.IsSupported(in.OriginCity) || !s.cities.IsSupported(in.DestinationCity) || in.OriginCity == in.DestinationCity {
		return ErrInvalidTripCities
	}

	if *in.SeatsAvailable < minSeats {
		if minSeats > 0 {
			return ErrSeatsBelowOne
		}
		return ErrSeatsNegative
	}
	return nil
}

func applyTripInput(trip *domain.Trip, in TripInput) {
	trip.OriginCity = in.OriginCity
	trip.DestinationCity = in.DestinationCity
	trip.OriginLabel = in.OriginLabel
	trip.DestinationLabel = in.DestinationLabel
	trip.OriginPoint = in.OriginPoint
	trip.DestinationPoint = in.DestinationPoint
	trip.DepartureTime = in.DepartureTime
	trip.MeetingSpot = in.MeetingSpot
	trip.Notes = in.Notes
	trip.SetSeats(*in.SeatsAvailable)
}
