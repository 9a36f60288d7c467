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

// MessageService gates and stores trip-scoped messages.
type MessageService struct {
	tripRepo    repository.TripRepository
	requestRepo repository.RideRequestRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

// NewMessageService creates a new MessageService.
func NewMessageService(
	tripRepo repository.TripRepository,
	requestRepo repository.RideRequestRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
) *MessageService {
	return &MessageService{
		tripRepo:    tripRepo,
		requestRepo: requestRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// AcceptedRider is a rider the driver may message.
type AcceptedRider struct {
	RequestID string
	RiderID   string
	RiderName string
	Message   string
	Status    domain.RideRequestStatus
	CreatedAt time.Time
}

// MessageView is a message with participant names.
type MessageView struct {
	Message      *domain.Message
	SenderName   string
	ReceiverName string
}

// Conversation is the message view of a trip for one participant.
type Conversation struct {
	Messages       []*MessageView
	CanMessage     bool
	AcceptedRiders []*AcceptedRider
	ParticipantID  string // empty for a driver viewing the whole trip thread
}

// messageAccess is the outcome of the messaging gate.
type messageAccess struct {
	trip           *domain.Trip
	isDriver       bool
	participantID  string
	acceptedRiders []*AcceptedRider
}

// ListMessages returns the caller's conversation on a trip. Drivers without a
// participant see the whole thread.
func (s *MessageService) ListMessages(ctx context.Context, p domain.Principal, tripID, participantID string) (*Conversation, error) {
	access, err := s.resolveAccess(ctx, p, tripID, participantID)
	if err != nil {
		return nil, err
	}

	var messages []*domain.Message
	if access.isDriver && access.participantID == "" {
		messages, err = s.messageRepo.ListByTrip(ctx, tripID)
	} else {
		messages, err = s.messageRepo.ListConversation(ctx, tripID, p.ID, access.participantID)
	}
	if err != nil {
		return nil, err
	}

	views, err := s.withNames(ctx, messages)
	if err != nil {
		return nil, err
	}

	riders := access.acceptedRiders
	if riders == nil {
		riders = []*AcceptedRider{}
	}

	return &Conversation{
		Messages:       views,
		CanMessage:     true,
		AcceptedRiders: riders,
		ParticipantID:  access.participantID,
	}, nil
}

// SendMessage posts a message. Riders always write to the driver; drivers
// must address an accepted rider.
func (s *MessageService) SendMessage(ctx context.Context, p domain.Principal, tripID, text, receiverID string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrMessageTextRequired
	}

	access, err := s.resolveAccess(ctx, p, tripID, receiverID)
	if err != nil {
		return nil, err
	}

	target := access.participantID
	if access.isDriver && receiverID == "" {
		return nil, ErrReceiverRequired
	}

	msg := &domain.Message{
		ID:         uuid.New().String(),
		TripID:     access.trip.ID,
		SenderID:   p.ID,
		ReceiverID: target,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) resolveAccess(ctx context.Context, p domain.Principal, tripID, participantID string) (*messageAccess, error) {
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

	if trip.DriverID == p.ID {
		riders, err := s.acceptedRiders(ctx, trip.ID)
		if err != nil {
			return nil, err
		}

		if participantID != "" {
			allowed := false
			for _, r := range riders {
				if r.RiderID == participantID {
					allowed = true
					break
				}
			}
			if !allowed {
				return nil, ErrRecipientNotAccepted
			}
		}

		return &messageAccess{
			trip:           trip,
			isDriver:       true,
			participantID:  participantID,
			acceptedRiders: riders,
		}, nil
	}

	req, err := s.requestRepo.GetByTripAndRider(ctx, trip.ID, p.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if req == nil || !req.IsAccepted() {
		return nil, ErrMessagingLocked
	}

	return &messageAccess{
		trip:          trip,
		participantID: trip.DriverID,
	}, nil
}

func (s *MessageService) acceptedRiders(ctx context.Context, tripID string) ([]*AcceptedRider, error) {
	requests, err := s.requestRepo.ListAcceptedByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.RiderID)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	riders := make([]*AcceptedRider, 0, len(requests))
	for _, r := range requests {
		rider := &AcceptedRider{
			RequestID: r.ID,
			RiderID:   r.RiderID,
			Message:   r.Message,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		}
		if u, ok := users[r.RiderID]; ok {
			rider.RiderName = u.Name
		}
		riders = append(riders, rider)
	}
	return riders, nil
}

func (s *MessageService) withNames(ctx context.Context, messages []*domain.Message) ([]*MessageView, error) {
	ids := make([]string, 0, len(messages)*2)
	for _, m := range messages {
		ids = append(ids, m.SenderID, m.ReceiverID)
	}

	users, err := s.userRepo.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	views := make([]*MessageView, 0, len(messages))
	for _, m := range messages {
		v := &MessageView{Message: m}
		if u, ok := users[m.SenderID]; ok {
			v.SenderName = u.Name
		}
		if u, ok := users[m.ReceiverID]; ok {
			v.ReceiverName = u.Name
		}
		views = append(views, v)
	}
	return views, nil
}
