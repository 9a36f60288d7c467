package tests

import (
	"time"

	"github.com/google/uuid"

	"flock/internal/auth"
	"flock/internal/domain"
	"flock/internal/geo"
	"flock/internal/logger"
	"flock/internal/service"
)

// Env wires every service against in-memory mocks.
type Env struct {
	Users         *MockUserRepository
	Trips         *MockTripRepository
	Requests      *MockRideRequestRepository
	Messages      *MockMessageRepository
	Reviews       *MockReviewRepository
	Notifications *MockNotificationRepository
	Carbon        *MockCarbonRepository
	Tx            *MockTransactor
	Cache         *MockCarbonCache
	Locks         *MockLockStore
	Publisher     *MockPublisher
	Store         *MockStore
	Tokens        *auth.TokenManager
	Cities        *geo.Directory

	NotificationService *service.NotificationService
	CarbonService       *service.CarbonService
	TripService         *service.TripService
	RideRequestService  *service.RideRequestService
	MessageService      *service.MessageService
	ReviewService       *service.ReviewService
	AuthService         *service.AuthService
	UserService         *service.UserService
	UploadService       *service.UploadService
}

// NewEnv builds a fresh environment.
func NewEnv() *Env {
	log := logger.Nop()
	e := &Env{
		Users:         NewMockUserRepository(),
		Requests:      NewMockRideRequestRepository(),
		Messages:      NewMockMessageRepository(),
		Reviews:       NewMockReviewRepository(),
		Notifications: NewMockNotificationRepository(),
		Cache:         NewMockCarbonCache(),
		Locks:         NewMockLockStore(),
		Publisher:     NewMockPublisher(),
		Store:         NewMockStore(),
		Tokens:        auth.NewTokenManager("test-secret", time.Hour),
		Cities:        geo.Default(),
	}
	e.Trips = NewMockTripRepository(e.Requests)
	e.Carbon = NewMockCarbonRepository(e.Trips, e.Requests)
	e.Tx = NewMockTransactor(e.Trips, e.Requests, e.Notifications)

	e.NotificationService = service.NewNotificationService(e.Notifications, e.Publisher, log)
	e.CarbonService = service.NewCarbonService(e.Carbon, e.Cities, e.Cache, log)
	e.TripService = service.NewTripService(e.Tx, e.Trips, e.Requests, e.Users, e.Cities, e.NotificationService, e.CarbonService, log)
	e.RideRequestService = service.NewRideRequestService(e.Tx, e.Trips, e.Requests, e.NotificationService, e.CarbonService, log)
	e.MessageService = service.NewMessageService(e.Trips, e.Requests, e.Messages, e.Users)
	e.ReviewService = service.NewReviewService(e.Trips, e.Requests, e.Reviews, e.Users)
	e.AuthService = service.NewAuthService(e.Users, e.Tokens, log)
	e.UserService = service.NewUserService(e.Users, true, log)
	e.UploadService = service.NewUploadService(e.Store)
	return e
}

// AddUser stores a rider and returns its principal.
func (e *Env) AddUser(name string) domain.Principal {
	u := &domain.User{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           name + "@example.edu",
		PhoneNumber:     "555-0100",
		ProfilePhotoURL: "https://cdn.test/" + name + ".jpg",
		CreatedAt:       time.Now(),
	}
	e.Users.AddUser(u)
	return domain.Principal{ID: u.ID, Email: u.Email, Name: u.Name}
}

// AddDriver stores a user with a complete car profile.
func (e *Env) AddDriver(name string) domain.Principal {
	p := e.AddUser(name)
	u := e.Users.GetUser(p.ID)
	u.IsDriver = true
	u.Gender = domain.GenderFemale
	u.Car = &domain.CarProfile{Make: "Honda", Model: "Civic", Color: "Blue", PlateState: "TX", PlateNumber: "ABC123"}
	return p
}

// AddTrip stores an open trip from Austin to Dallas.
func (e *Env) AddTrip(driverID string, departure time.Time, seats int) *domain.Trip {
	trip := &domain.Trip{
		ID:              uuid.New().String(),
		DriverID:        driverID,
		OriginCity:      "austin_tx",
		DestinationCity: "dallas_tx",
		DepartureTime:   departure,
		Status:          domain.TripStatusOpen,
		CreatedAt:       time.Now(),
	}
	trip.SetSeats(seats)
	e.Trips.AddTrip(trip)
	return trip
}

// AddRequest stores a ride request with the given status.
func (e *Env) AddRequest(tripID, riderID string, status domain.RideRequestStatus) *domain.RideRequest {
	req := &domain.RideRequest{
		ID:        uuid.New().String(),
		TripID:    tripID,
		RiderID:   riderID,
		Message:   "Can I join?",
		Status:    status,
		CreatedAt: time.Now(),
	}
	e.Requests.AddRequest(req)
	return req
}

// Seats returns a pointer to n.
func Seats(n int) *int {
	return &n
}
