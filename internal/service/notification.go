package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"flock/internal/domain"
	"flock/internal/logger"
	"flock/internal/repository"
)

// EventPublisher sends events to the message broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, msg any) error
}

// NotificationEvent is the broker payload for a notification.
type NotificationEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	TripID    string    `json:"trip_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationList is a user's notifications with the unread count.
type NotificationList struct {
	Notifications []*domain.Notification
	UnreadCount   int
}

// NotificationService records notifications and fans them out after commit.
type NotificationService struct {
	repo      repository.NotificationRepository
	publisher EventPublisher // nil when no broker is configured
	log       logger.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository, publisher EventPublisher, log logger.Logger) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, log: log}
}

// NotifyRideRequested tells the driver a rider asked for a seat.
func (s *NotificationService) NotifyRideRequested(ctx context.Context, repo repository.NotificationRepository, trip *domain.Trip, req *domain.RideRequest) (*domain.Notification, error) {
	return s.record(ctx, repo, &domain.Notification{
		UserID:    trip.DriverID,
		Type:      domain.NotificationRideRequest,
		Title:     "New ride request",
		Body:      "A rider requested a seat on your trip.",
		TripID:    trip.ID,
		RequestID: req.ID,
	})
}

// NotifyRequestAccepted tells the rider their request was accepted.
func (s *NotificationService) NotifyRequestAccepted(ctx context.Context, repo repository.NotificationRepository, req *domain.RideRequest) (*domain.Notification, error) {
	return s.record(ctx, repo, &domain.Notification{
		UserID:    req.RiderID,
		Type:      domain.NotificationRequestAccepted,
		Title:     "Ride request accepted",
		Body:      "Your ride request was accepted.",
		TripID:    req.TripID,
		RequestID: req.ID,
	})
}

// NotifyRequestRejected tells the rider their request was rejected.
func (s *NotificationService) NotifyRequestRejected(ctx context.Context, repo repository.NotificationRepository, req *domain.RideRequest) (*domain.Notification, error) {
	return s.record(ctx, repo, &domain.Notification{
		UserID:    req.RiderID,
		Type:      domain.NotificationRequestRejected,
		Title:     "Ride request updated",
		Body:      "Your ride request was rejected.",
		TripID:    req.TripID,
		RequestID: req.ID,
	})
}

// NotifyTripCancelled tells an accepted rider the trip was cancelled.
func (s *NotificationService) NotifyTripCancelled(ctx context.Context, repo repository.NotificationRepository, req *domain.RideRequest) (*domain.Notification, error) {
	return s.record(ctx, repo, &domain.Notification{
		UserID:    req.RiderID,
		Type:      domain.NotificationTripCancelled,
		Title:     "Trip cancelled",
		Body:      "A driver cancelled one of your upcoming trips.",
		TripID:    req.TripID,
		RequestID: req.ID,
	})
}

// NotifyTripCompleted tells an accepted rider the trip was completed.
func (s *NotificationService) NotifyTripCompleted(ctx context.Context, repo repository.NotificationRepository, req *domain.RideRequest) (*domain.Notification, error) {
	return s.record(ctx, repo, &domain.Notification{
		UserID:    req.RiderID,
		Type:      domain.NotificationTripCompleted,
		Title:     "Trip completed",
		Body:      "Your completed trip is now in history. Leave a review if you have not yet.",
		TripID:    req.TripID,
		RequestID: req.ID,
	})
}

// Dispatch publishes committed notifications. Failures are logged, never returned,
// since the notification rows are already stored.
func (s *NotificationService) Dispatch(ctx context.Context, notifications ...*domain.Notification) {
	for _, n := range notifications {
		if n == nil {
			continue
		}

		if s.publisher == nil {
			s.log.Info("notification recorded",
				logger.String("type", string(n.Type)),
				logger.String("user_id", n.UserID),
				logger.String("title", n.Title),
			)
			continue
		}

		event := NotificationEvent{
			ID:        n.ID,
			UserID:    n.UserID,
			Type:      string(n.Type),
			Title:     n.Title,
			Body:      n.Body,
			TripID:    n.TripID,
			RequestID: n.RequestID,
			CreatedAt: n.CreatedAt,
		}
		if err := s.publisher.PublishJSON(ctx, "notification."+string(n.Type), event); err != nil {
			s.log.Warn("failed to publish notification",
				logger.String("notification_id", n.ID),
				logger.Error(err),
			)
		}
	}
}

// List returns the caller's notifications and how many are unread.
func (s *NotificationService) List(ctx context.Context, p domain.Principal) (*NotificationList, error) {
	notifications, err := s.repo.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead marks one of the caller's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, p domain.Principal, id string) (*domain.Notification, error) {
	n, err := s.repo.MarkRead(ctx, id, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

// MarkAllRead marks all of the caller's notifications read.
func (s *NotificationService) MarkAllRead(ctx context.Context, p domain.Principal) error {
	return s.repo.MarkAllRead(ctx, p.ID)
}

func (s *NotificationService) record(ctx context.Context, repo repository.NotificationRepository, n *domain.Notification) (*domain.Notification, error) {
	if repo == nil {
		repo = s.repo
	}

	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()
	if err := repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
