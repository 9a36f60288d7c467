package tests

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"flock/internal/domain"
	"flock/internal/redis"
	"flock/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount   int32
	UpdateCallCount   int32
	GetByIDsCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *user
	m.users[user.ID] = &copy
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrConflict
		}
	}
	copy := *user
	if copy.CreatedAt.IsZero() {
		copy.CreatedAt = time.Now()
	}
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	atomic.AddInt32(&m.GetByIDsCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			copy := *u
			result[id] = &copy
		}
	}
	return result, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

// GetUser returns the stored user (for test assertions).
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository. It reads
// accepted requests from the request mock to emulate the auto-complete query.
type MockTripRepository struct {
	mu       sync.RWMutex
	trips    map[string]*domain.Trip
	requests *MockRideRequestRepository

	// Counters for verification
	CreateCallCount          int32
	UpdateCallCount          int32
	ForUpdateCallCount       int32
	CompleteExpiredCallCount int32

	// Error injection
	CreateError          error
	UpdateError          error
	CompleteExpiredError error

	// BeforeCompleteExpired runs at the start of CompleteExpired when set.
	BeforeCompleteExpired func()
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository(requests *MockRideRequestRepository) *MockTripRepository {
	return &MockTripRepository{
		trips:    make(map[string]*domain.Trip),
		requests: requests,
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now()
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	atomic.AddInt32(&m.ForUpdateCallCount, 1)
	return m.GetByID(ctx, id)
}

func (m *MockTripRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]*domain.Trip, len(ids))
	for _, id := range ids {
		if t, ok := m.trips[id]; ok {
			copy := *t
			result[id] = &copy
		}
	}
	return result, nil
}

func (m *MockTripRepository) List(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(func(*domain.Trip) bool { return true }), nil
}

func (m *MockTripRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(func(t *domain.Trip) bool { return t.DriverID == driverID }), nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	atomic.AddInt32(&m.CompleteExpiredCallCount, 1)
	if m.BeforeCompleteExpired != nil {
		m.BeforeCompleteExpired()
	}
	if m.CompleteExpiredError != nil {
		return 0, m.CompleteExpiredError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.trips {
		if t.Status != domain.TripStatusOpen && t.Status != domain.TripStatusFull {
			continue
		}
		if !t.DepartureTime.Before(now) || !m.requests.HasAccepted(t.ID) {
			continue
		}
		t.Status = domain.TripStatusCompleted
		n++
	}
	return n, nil
}

// GetTrip returns the stored trip (for test assertions).
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

func (m *MockTripRepository) sorted(keep func(*domain.Trip) bool) []*domain.Trip {
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		if keep(t) {
			copy := *t
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DepartureTime.Equal(result[j].DepartureTime) {
			return result[i].DepartureTime.Before(result[j].DepartureTime)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *MockTripRepository) snapshot() map[string]domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Trip, len(m.trips))
	for id, t := range m.trips {
		snap[id] = *t
	}
	return snap
}

func (m *MockTripRepository) restore(snap map[string]domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = make(map[string]*domain.Trip, len(snap))
	for id, t := range snap {
		t := t
		m.trips[id] = &t
	}
}

// ──────────────────────────────────────────────
// MOCK RIDE REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRideRequestRepository is a mock implementation of RideRequestRepository.
type MockRideRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.RideRequest
	seq      map[string]int
	next     int

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32
	DeleteCallCount       int32

	// Error injection
	CreateError       error
	UpdateStatusError error
	DeleteError       error
}

// NewMockRideRequestRepository creates a new mock ride request repository.
func NewMockRideRequestRepository() *MockRideRequestRepository {
	return &MockRideRequestRepository{
		requests: make(map[string]*domain.RideRequest),
		seq:      make(map[string]int),
	}
}

// AddRequest adds a request to the mock repository.
func (m *MockRideRequestRepository) AddRequest(req *domain.RideRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(req)
}

func (m *MockRideRequestRepository) put(req *domain.RideRequest) {
	copy := *req
	if _, ok := m.seq[req.ID]; !ok {
		m.next++
		m.seq[req.ID] = m.next
	}
	m.requests[req.ID] = &copy
}

func (m *MockRideRequestRepository) Create(ctx context.Context, req *domain.RideRequest) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.TripID == req.TripID && r.RiderID == req.RiderID {
			return repository.ErrConflict
		}
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	m.put(req)
	return nil
}

func (m *MockRideRequestRepository) GetByID(ctx context.Context, id string) (*domain.RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *req
	return &copy, nil
}

func (m *MockRideRequestRepository) GetByTripAndRider(ctx context.Context, tripID, riderID string) (*domain.RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.requests {
		if r.TripID == tripID && r.RiderID == riderID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockRideRequestRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.RideRequest, error) {
	return m.list(func(r *domain.RideRequest) bool { return r.TripID == tripID }, false), nil
}

func (m *MockRideRequestRepository) ListAcceptedByTrip(ctx context.Context, tripID string) ([]*domain.RideRequest, error) {
	return m.list(func(r *domain.RideRequest) bool { return r.TripID == tripID && r.IsAccepted() }, false), nil
}

func (m *MockRideRequestRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.RideRequest, error) {
	return m.list(func(r *domain.RideRequest) bool { return r.RiderID == riderID }, true), nil
}

func (m *MockRideRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RideRequestStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	req.Status = status
	return nil
}

func (m *MockRideRequestRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.requests, id)
	return nil
}

// HasAccepted reports whether the trip has an accepted request.
func (m *MockRideRequestRepository) HasAccepted(tripID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.requests {
		if r.TripID == tripID && r.IsAccepted() {
			return true
		}
	}
	return false
}

// GetRequest returns the stored request (for test assertions).
func (m *MockRideRequestRepository) GetRequest(id string) *domain.RideRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[id]
}

func (m *MockRideRequestRepository) list(keep func(*domain.RideRequest) bool, newestFirst bool) []*domain.RideRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.RideRequest, 0)
	for _, r := range m.requests {
		if keep(r) {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if newestFirst {
			return m.seq[result[i].ID] > m.seq[result[j].ID]
		}
		return m.seq[result[i].ID] < m.seq[result[j].ID]
	})
	return result
}

func (m *MockRideRequestRepository) snapshot() map[string]domain.RideRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.RideRequest, len(m.requests))
	for id, r := range m.requests {
		snap[id] = *r
	}
	return snap
}

func (m *MockRideRequestRepository) restore(snap map[string]domain.RideRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]*domain.RideRequest, len(snap))
	for id, r := range snap {
		r := r
		m.requests[id] = &r
	}
}

// ──────────────────────────────────────────────
// MOCK MESSAGE REPOSITORY
// ──────────────────────────────────────────────

// MockMessageRepository is a mock implementation of MessageRepository.
type MockMessageRepository struct {
	mu       sync.RWMutex
	messages []*domain.Message

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockMessageRepository creates a new mock message repository.
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{}
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *msg
	m.messages = append(m.messages, &copy)
	return nil
}

func (m *MockMessageRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Message, error) {
	return m.filter(func(msg *domain.Message) bool { return msg.TripID == tripID }), nil
}

func (m *MockMessageRepository) ListConversation(ctx context.Context, tripID, userA, userB string) ([]*domain.Message, error) {
	return m.filter(func(msg *domain.Message) bool {
		if msg.TripID != tripID {
			return false
		}
		return (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA)
	}), nil
}

// Count returns the number of stored messages.
func (m *MockMessageRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

func (m *MockMessageRepository) filter(keep func(*domain.Message) bool) []*domain.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Message, 0)
	for _, msg := range m.messages {
		if keep(msg) {
			copy := *msg
			result = append(result, &copy)
		}
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK REVIEW REPOSITORY
// ──────────────────────────────────────────────

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews []*domain.Review

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockReviewRepository creates a new mock review repository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.TripID == review.TripID && r.ReviewerID == review.ReviewerID && r.RevieweeID == review.RevieweeID {
			return repository.ErrConflict
		}
	}
	copy := *review
	m.reviews = append(m.reviews, &copy)
	return nil
}

func (m *MockReviewRepository) ListByReviewee(ctx context.Context, revieweeID string) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Review, 0)
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if r := m.reviews[i]; r.RevieweeID == revieweeID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

// Count returns the number of stored reviews.
func (m *MockReviewRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reviews)
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

// AddNotification adds a notification to the mock repository.
func (m *MockNotificationRepository) AddNotification(n *domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *n
	m.notifications = append(m.notifications, &copy)
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddNotification(n)
	return nil
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Notification, 0)
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if n := m.notifications[i]; n.UserID == userID {
			copy := *n
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			copy := *n
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// ForUser returns the notifications of a user of the given type (for test assertions).
func (m *MockNotificationRepository) ForUser(userID string, typ domain.NotificationType) []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && n.Type == typ {
			result = append(result, n)
		}
	}
	return result
}

// Count returns the number of stored notifications.
func (m *MockNotificationRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notifications)
}

func (m *MockNotificationRepository) snapshot() []domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make([]domain.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		snap = append(snap, *n)
	}
	return snap
}

func (m *MockNotificationRepository) restore(snap []domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = make([]*domain.Notification, 0, len(snap))
	for i := range snap {
		n := snap[i]
		m.notifications = append(m.notifications, &n)
	}
}

// ──────────────────────────────────────────────
// MOCK CARBON REPOSITORY
// ──────────────────────────────────────────────

// MockCarbonRepository derives carbon legs from the trip and request mocks.
type MockCarbonRepository struct {
	trips    *MockTripRepository
	requests *MockRideRequestRepository

	// Counters for verification
	QueryCount int32
}

// NewMockCarbonRepository creates a new mock carbon repository.
func NewMockCarbonRepository(trips *MockTripRepository, requests *MockRideRequestRepository) *MockCarbonRepository {
	return &MockCarbonRepository{trips: trips, requests: requests}
}

func (m *MockCarbonRepository) RiderLegs(ctx context.Context, userIDs []string, now time.Time) ([]domain.CarbonLeg, error) {
	atomic.AddInt32(&m.QueryCount, 1)
	wanted := toSet(userIDs)
	var legs []domain.CarbonLeg
	for _, r := range m.requests.snapshot() {
		if !r.IsAccepted() || !wanted[r.RiderID] {
			continue
		}
		if t := m.trips.GetTrip(r.TripID); t != nil && counts(t, now) {
			legs = append(legs, domain.CarbonLeg{UserID: r.RiderID, OriginCity: t.OriginCity, DestinationCity: t.DestinationCity})
		}
	}
	return legs, nil
}

func (m *MockCarbonRepository) DriverLegs(ctx context.Context, userIDs []string, now time.Time) ([]domain.CarbonLeg, error) {
	atomic.AddInt32(&m.QueryCount, 1)
	wanted := toSet(userIDs)
	var legs []domain.CarbonLeg
	for _, t := range m.trips.snapshot() {
		t := t
		if !wanted[t.DriverID] || !counts(&t, now) || !m.requests.HasAccepted(t.ID) {
			continue
		}
		legs = append(legs, domain.CarbonLeg{UserID: t.DriverID, OriginCity: t.OriginCity, DestinationCity: t.DestinationCity})
	}
	return legs, nil
}

func counts(t *domain.Trip, now time.Time) bool {
	return t.Status == domain.TripStatusCompleted || t.DepartureTime.Before(now)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor runs transactions one at a time against the mock
// repositories and restores their contents when fn fails.
type MockTransactor struct {
	mu            sync.Mutex
	trips         *MockTripRepository
	requests      *MockRideRequestRepository
	notifications *MockNotificationRepository

	// Counters for verification
	CommitCount   int32
	RollbackCount int32

	// Error injection
	CommitError error
}

// NewMockTransactor creates a new mock transactor.
func NewMockTransactor(trips *MockTripRepository, requests *MockRideRequestRepository, notifications *MockNotificationRepository) *MockTransactor {
	return &MockTransactor{trips: trips, requests: requests, notifications: notifications}
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	trips := m.trips.snapshot()
	requests := m.requests.snapshot()
	notifications := m.notifications.snapshot()

	err := fn(ctx, mockUnitOfWork{m})
	if err == nil && m.CommitError != nil {
		err = m.CommitError
	}
	if err != nil {
		atomic.AddInt32(&m.RollbackCount, 1)
		m.trips.restore(trips)
		m.requests.restore(requests)
		m.notifications.restore(notifications)
		return err
	}

	atomic.AddInt32(&m.CommitCount, 1)
	return nil
}

type mockUnitOfWork struct {
	tx *MockTransactor
}

func (u mockUnitOfWork) Trips() repository.TripRepository { return u.tx.trips }
func (u mockUnitOfWork) RideRequests() repository.RideRequestRepository {
	return u.tx.requests
}
func (u mockUnitOfWork) Notifications() repository.NotificationRepository {
	return u.tx.notifications
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore. Locks taken through
// AcquireLock belong to this store; Hold takes them for another instance.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]mockLock

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

type mockLock struct {
	foreign bool
	expiry  time.Time
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]mockLock),
	}
}

func (m *MockLockStore) AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, exists := m.locks[name]; exists && time.Now().Before(l.expiry) {
		return false, nil // Lock still held.
	}
	m.locks[name] = mockLock{expiry: time.Now().Add(ttl)}
	return true, nil
}

// ReleaseLock leaves locks held by another instance in place.
func (m *MockLockStore) ReleaseLock(ctx context.Context, name string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, exists := m.locks[name]; exists && !l.foreign {
		delete(m.locks, name)
	}
	return nil
}

// Hold takes a lock on behalf of another instance, replacing any current holder.
func (m *MockLockStore) Hold(name string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[name] = mockLock{foreign: true, expiry: time.Now().Add(ttl)}
}

// IsLocked checks if a lock is held (for test assertions).
func (m *MockLockStore) IsLocked(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, exists := m.locks[name]
	return exists && time.Now().Before(l.expiry)
}

// ──────────────────────────────────────────────
// MOCK CARBON CACHE
// ──────────────────────────────────────────────

// MockCarbonCache is a mock implementation of CarbonCacheInterface.
type MockCarbonCache struct {
	mu    sync.Mutex
	stats map[string]domain.CarbonStats

	// Counters
	HitCount        int32
	InvalidateCount int32

	// Error injection
	GetError error
}

// NewMockCarbonCache creates a new mock carbon cache.
func NewMockCarbonCache() *MockCarbonCache {
	return &MockCarbonCache{stats: make(map[string]domain.CarbonStats)}
}

func (m *MockCarbonCache) GetCarbonStats(ctx context.Context, userID string) (*domain.CarbonStats, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stats[userID]
	if !ok {
		return nil, nil
	}
	atomic.AddInt32(&m.HitCount, 1)
	return &st, nil
}

func (m *MockCarbonCache) SetCarbonStats(ctx context.Context, userID string, stats *domain.CarbonStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[userID] = *stats
	return nil
}

func (m *MockCarbonCache) GetCarbonStatsBatch(ctx context.Context, userIDs []string) (map[string]*domain.CarbonStats, []string, error) {
	if m.GetError != nil {
		return nil, nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	found := make(map[string]*domain.CarbonStats)
	var missing []string
	for _, id := range userIDs {
		if st, ok := m.stats[id]; ok {
			st := st
			found[id] = &st
			atomic.AddInt32(&m.HitCount, 1)
			continue
		}
		missing = append(missing, id)
	}
	return found, missing, nil
}

func (m *MockCarbonCache) SetCarbonStatsBatch(ctx context.Context, stats map[string]*domain.CarbonStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, st := range stats {
		m.stats[id] = *st
	}
	return nil
}

func (m *MockCarbonCache) InvalidateCarbonStats(ctx context.Context, userIDs ...string) error {
	atomic.AddInt32(&m.InvalidateCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range userIDs {
		delete(m.stats, id)
	}
	return nil
}

// Has reports whether stats are cached for the user.
func (m *MockCarbonCache) Has(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.stats[userID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK IDEMPOTENCY STORE
// ──────────────────────────────────────────────

// MockIdempotencyStore is a mock implementation of IdempotencyStoreInterface.
type MockIdempotencyStore struct {
	mu        sync.Mutex
	responses map[string]redis.StoredResponse

	// Error injection
	GetError error
}

// NewMockIdempotencyStore creates a new mock idempotency store.
func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{responses: make(map[string]redis.StoredResponse)}
}

func (m *MockIdempotencyStore) GetResponse(ctx context.Context, key string) (*redis.StoredResponse, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	resp, ok := m.responses[key]
	if !ok {
		return nil, nil
	}
	return &resp, nil
}

func (m *MockIdempotencyStore) SaveResponse(ctx context.Context, key string, resp *redis.StoredResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[key] = *resp
	return nil
}

// Len returns the number of stored responses.
func (m *MockIdempotencyStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}

// ──────────────────────────────────────────────
// MOCK EVENT PUBLISHER
// ──────────────────────────────────────────────

// PublishedEvent is a message captured by MockPublisher.
type PublishedEvent struct {
	RoutingKey string
	Message    any
}

// MockPublisher is a mock implementation of the notification event publisher.
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent

	// Error injection
	PublishError error
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishJSON(ctx context.Context, routingKey string, msg any) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, Message: msg})
	return nil
}

// Events returns the published events in order.
func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// ──────────────────────────────────────────────
// MOCK OBJECT STORE
// ──────────────────────────────────────────────

// ErrStoreUnavailable is a ready-made MockStore.SaveError.
var ErrStoreUnavailable = errors.New("store unavailable")

// MockStore is an in-memory storage.Store.
type MockStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Error injection
	SaveError error
}

// NewMockStore creates a new mock object store.
func NewMockStore() *MockStore {
	return &MockStore{objects: make(map[string][]byte)}
}

func (m *MockStore) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	if m.SaveError != nil {
		return "", m.SaveError
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = buf.Bytes()
	return "https://cdn.test/uploads/" + name, nil
}

// Names returns the stored object names.
func (m *MockStore) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.objects))
	for n := range m.objects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
