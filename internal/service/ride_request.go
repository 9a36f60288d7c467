package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"flock/internal/domain"
	"flock/internal/logger"
	"flock/internal/repository"
)

// RideRequestService handles seat requests and the seat accounting they drive.
type RideRequestService struct {
	tx                  repository.Transactor
	tripRepo            repository.TripRepository
	requestRepo         repository.RideRequestRepository
	notificationService *NotificationService
	carbonService       *CarbonService
	log                 logger.Logger
}

// NewRideRequestService creates a new RideRequestService.
func NewRideRequestService(
	tx repository.Transactor,
	tripRepo repository.TripRepository,
	requestRepo repository.RideRequestRepository,
	notificationService *NotificationService,
	carbonService *CarbonService,
	log logger.Logger,
) *RideRequestService {
	return &RideRequestService{
		tx:                  tx,
		tripRepo:            tripRepo,
		requestRepo:         requestRepo,
		notificationService: notificationService,
		carbonService:       carbonService,
		log:                 log,
	}
}

// RequestWithTrip is a ride request joined with its trip.
type RequestWithTrip struct {
	Request *domain.RideRequest
	Trip    *domain.Trip
}

// CreateRequest asks for a seat on a trip and notifies the driver.
func (s *RideRequestService) CreateRequest(ctx context.Context, p domain.Principal, tripID, note string) (*domain.RideRequest, error) {
	note = strings.TrimSpace(note)
	if len([]rune(note)) < domain.MinRequestNoteLength {
		return nil, ErrRequestNoteRequired
	}
	if !validID(tripID) {
		return nil, ErrTripNotFound
	}

	var (
		req          *domain.RideRequest
		notification *domain.Notification
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		trip, err := lockTrip(ctx, uow, tripID)
		if err != nil {
			return err
		}

		switch {
		case trip.DriverID == p.ID:
			return ErrOwnTripRequest
		case trip.Status == domain.TripStatusCancelled:
			return ErrTripCancelled
		case trip.Status == domain.TripStatusFull || trip.SeatsAvailable < 1:
			return ErrTripFull
		}

		req = &domain.RideRequest{
			ID:        uuid.New().String(),
			TripID:    trip.ID,
			RiderID:   p.ID,
			Message:   note,
			Status:    domain.RideRequestStatusPending,
			CreatedAt: time.Now(),
		}
		if err := uow.RideRequests().Create(ctx, req); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrDuplicateRequest
			}
			return err
		}

		notification, err = s.notificationService.NotifyRideRequested(ctx, uow.Notifications(), trip, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.Dispatch(ctx, notification)
	return req, nil
}

// AcceptRequest gives a pending rider a seat. The seat count, the trip status,
// the request status and the rider notification commit together.
func (s *RideRequestService) AcceptRequest(ctx context.Context, p domain.Principal, requestID string) (*domain.RideRequest, error) {
	var (
		req          *domain.RideRequest
		notification *domain.Notification
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		var (
			trip *domain.Trip
			err  error
		)
		req, trip, err = lockRequestAndTrip(ctx, uow, requestID)
		if err != nil {
			return err
		}
		if trip == nil || trip.DriverID != p.ID {
			return ErrNotRequestDriver
		}

		switch {
		case trip.Status == domain.TripStatusCancelled:
			return ErrCancelledTripAccept
		case req.Status != domain.RideRequestStatusPending:
			return ErrRequestNotPending
		case trip.SeatsAvailable < 1:
			return ErrTripFull
		}

		trip.TakeSeat()
		if err := uow.Trips().Update(ctx, trip); err != nil {
			return err
		}

		req.Status = domain.RideRequestStatusAccepted
		if err := uow.RideRequests().UpdateStatus(ctx, req.ID, req.Status); err != nil {
			return err
		}

		notification, err = s.notificationService.NotifyRequestAccepted(ctx, uow.Notifications(), req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.Dispatch(ctx, notification)
	s.carbonService.Invalidate(ctx, p.ID, req.RiderID)
	s.log.Info("ride request accepted",
		logger.String("request_id", req.ID),
		logger.String("trip_id", req.TripID),
	)
	return req, nil
}

// RejectRequest rejects a request. A previously accepted rider's seat is
// returned unless the trip is cancelled.
func (s *RideRequestService) RejectRequest(ctx context.Context, p domain.Principal, requestID string) (*domain.RideRequest, error) {
	var (
		req          *domain.RideRequest
		notification *domain.Notification
		driverID     string
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		var (
			trip *domain.Trip
			err  error
		)
		req, trip, err = lockRequestAndTrip(ctx, uow, requestID)
		if err != nil {
			return err
		}
		if trip == nil || trip.DriverID != p.ID {
			return ErrNotRequestDriver
		}
		driverID = trip.DriverID

		wasAccepted := req.IsAccepted()
		req.Status = domain.RideRequestStatusRejected
		if err := uow.RideRequests().UpdateStatus(ctx, req.ID, req.Status); err != nil {
			return err
		}

		if err := reclaimSeat(ctx, uow, trip, wasAccepted); err != nil {
			return err
		}

		notification, err = s.notificationService.NotifyRequestRejected(ctx, uow.Notifications(), req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.Dispatch(ctx, notification)
	s.carbonService.Invalidate(ctx, driverID, req.RiderID)
	return req, nil
}

// WithdrawRequest deletes the caller's request. A held seat is returned
// unless the trip is cancelled.
func (s *RideRequestService) WithdrawRequest(ctx context.Context, p domain.Principal, requestID string) (*domain.RideRequest, error) {
	var (
		req      *domain.RideRequest
		driverID string
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, uow repository.UnitOfWork) error {
		var (
			trip *domain.Trip
			err  error
		)
		req, trip, err = lockRequestAndTrip(ctx, uow, requestID)
		if err != nil {
			return err
		}
		if req.RiderID != p.ID {
			return ErrNotRequestRider
		}
		if trip == nil {
			return ErrTripNotFound
		}
		driverID = trip.DriverID

		if err := reclaimSeat(ctx, uow, trip, req.IsAccepted()); err != nil {
			return err
		}

		return uow.RideRequests().Delete(ctx, req.ID)
	})
	if err != nil {
		return nil, err
	}

	s.carbonService.Invalidate(ctx, driverID, req.RiderID)
	return req, nil
}

// ListMyRequests returns the caller's requests with their trips.
func (s *RideRequestService) ListMyRequests(ctx context.Context, p domain.Principal) ([]*RequestWithTrip, error) {
	requests, err := s.requestRepo.ListByRider(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	tripIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		tripIDs = append(tripIDs, r.TripID)
	}

	trips, err := s.tripRepo.GetByIDs(ctx, uniqueIDs(tripIDs))
	if err != nil {
		return nil, err
	}

	out := make([]*RequestWithTrip, 0, len(requests))
	for _, r := range requests {
		out = append(out, &RequestWithTrip{Request: r, Trip: trips[r.TripID]})
	}
	return out, nil
}

// reclaimSeat returns the seat of a previously accepted request to the trip.
func reclaimSeat(ctx context.Context, uow repository.UnitOfWork, trip *domain.Trip, wasAccepted bool) error {
	if !wasAccepted || trip.Status == domain.TripStatusCancelled {
		return nil
	}
	trip.ReturnSeat()
	return uow.Trips().Update(ctx, trip)
}

func getRequest(ctx context.Context, repo repository.RideRequestRepository, requestID string) (*domain.RideRequest, error) {
	if !validID(requestID) {
		return nil, ErrRequestNotFound
	}

	req, err := repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func lockTrip(ctx context.Context, uow repository.UnitOfWork, tripID string) (*domain.Trip, error) {
	trip, err := uow.Trips().GetByIDForUpdate(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

// lockRequestAndTrip locks the request's trip row, then re-reads the request
// so its status cannot change underneath the caller. The trip is nil when it
// no longer exists.
func lockRequestAndTrip(ctx context.Context, uow repository.UnitOfWork, requestID string) (*domain.RideRequest, *domain.Trip, error) {
	req, err := getRequest(ctx, uow.RideRequests(), requestID)
	if err != nil {
		return nil, nil, err
	}

	trip, err := lockTrip(ctx, uow, req.TripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return req, nil, nil
		}
		return nil, nil, err
	}

	req, err = getRequest(ctx, uow.RideRequests(), requestID)
	if err != nil {
		return nil, nil, err
	}
	return req, trip, nil
}
