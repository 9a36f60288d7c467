package handler

import (
	"time"

	"flock/internal/domain"
	"flock/internal/service"
)

const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// CarResponse is a driver's vehicle.
type CarResponse struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Color       string `json:"color"`
	PlateState  string `json:"plate_state"`
	PlateNumber string `json:"plate_number"`
	Description string `json:"description,omitempty"`
}

// UserResponse is the caller's own account.
type UserResponse struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Email               string       `json:"email"`
	PhoneNumber         string       `json:"phone_number"`
	ProfilePhotoURL     string       `json:"profile_photo_url"`
	Major               string       `json:"major,omitempty"`
	AcademicYear        string       `json:"academic_year,omitempty"`
	Vibe                string       `json:"vibe,omitempty"`
	FavoritePlaylist    string       `json:"favorite_playlist,omitempty"`
	Gender              string       `json:"gender,omitempty"`
	StudentEmail        string       `json:"student_email,omitempty"`
	PendingStudentEmail string       `json:"pending_student_email,omitempty"`
	IsStudentVerified   bool         `json:"is_student_verified"`
	VerifiedSchoolName  string       `json:"verified_school_name,omitempty"`
	StudentVerifiedAt   string       `json:"student_verified_at,omitempty"`
	VerificationExpires string       `json:"student_verification_expires_at,omitempty"`
	IsDriver            bool         `json:"is_driver"`
	Car                 *CarResponse `json:"car,omitempty"`
	CreatedAt           string       `json:"created_at"`
}

// UserSummary is the public view of another user.
type UserSummary struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	PhoneNumber       string       `json:"phone_number,omitempty"`
	ProfilePhotoURL   string       `json:"profile_photo_url,omitempty"`
	Gender            string       `json:"gender,omitempty"`
	IsStudentVerified bool         `json:"is_student_verified"`
	SchoolName        string       `json:"verified_school_name,omitempty"`
	Car               *CarResponse `json:"car,omitempty"`
}

// TripResponse is a trip with its driver.
type TripResponse struct {
	ID                     string       `json:"id"`
	DriverID               string       `json:"driver_id"`
	OriginCity             string       `json:"origin_city"`
	DestinationCity        string       `json:"destination_city"`
	OriginLabel            string       `json:"origin_label,omitempty"`
	DestinationLabel       string       `json:"destination_label,omitempty"`
	OriginLat              *float64     `json:"origin_lat,omitempty"`
	OriginLng              *float64     `json:"origin_lng,omitempty"`
	DestinationLat         *float64     `json:"destination_lat,omitempty"`
	DestinationLng         *float64     `json:"destination_lng,omitempty"`
	DepartureTime          string       `json:"departure_time"`
	SeatsAvailable         int          `json:"seats_available"`
	Status                 string       `json:"status"`
	MeetingSpot            string       `json:"meeting_spot,omitempty"`
	Notes                  string       `json:"notes,omitempty"`
	CreatedAt              string       `json:"created_at"`
	Driver                 *UserSummary `json:"driver,omitempty"`
	DriverCarbonSavedGrams *int         `json:"driver_carbon_saved_grams,omitempty"`
}

// TripDetailsResponse is a single trip as seen by the caller.
type TripDetailsResponse struct {
	TripResponse
	ViewerRequest *RideRequestResponse  `json:"viewer_request"`
	RideRequests  []RideRequestResponse `json:"ride_requests"`
}

// RideRequestResponse is a ride request, with its rider or trip when known.
type RideRequestResponse struct {
	ID        string        `json:"id"`
	TripID    string        `json:"trip_id"`
	RiderID   string        `json:"rider_id"`
	Message   string        `json:"message"`
	Status    string        `json:"status"`
	CreatedAt string        `json:"created_at"`
	Rider     *UserSummary  `json:"rider,omitempty"`
	Trip      *TripResponse `json:"trip,omitempty"`
}

// NotificationResponse is a notification.
type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	TripID    string `json:"trip_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// MessageResponse is a trip message.
type MessageResponse struct {
	ID           string `json:"id"`
	TripID       string `json:"trip_id"`
	SenderID     string `json:"sender_id"`
	SenderName   string `json:"sender_name,omitempty"`
	ReceiverID   string `json:"receiver_id"`
	ReceiverName string `json:"receiver_name,omitempty"`
	MessageText  string `json:"message_text"`
	CreatedAt    string `json:"created_at"`
}

// ReviewResponse is a review.
type ReviewResponse struct {
	ID           string `json:"id"`
	TripID       string `json:"trip_id"`
	ReviewerID   string `json:"reviewer_id"`
	ReviewerName string `json:"reviewer_name,omitempty"`
	RevieweeID   string `json:"reviewee_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"created_at"`
}

// CarbonStatsResponse is a user's carbon savings.
type CarbonStatsResponse struct {
	TotalCO2SavedGrams int `json:"total_co2_saved_grams"`
	TotalDistanceKm    int `json:"total_distance_km"`
	CompletedRides     int `json:"completed_rides"`
}

func toCarResponse(car *domain.CarProfile) *CarResponse {
	if car == nil {
		return nil
	}
	return &CarResponse{
		Make:        car.Make,
		Model:       car.Model,
		Color:       car.Color,
		PlateState:  car.PlateState,
		PlateNumber: car.PlateNumber,
		Description: car.Description,
	}
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		PhoneNumber:         u.PhoneNumber,
		ProfilePhotoURL:     u.ProfilePhotoURL,
		Major:               u.Major,
		AcademicYear:        u.AcademicYear,
		Vibe:                u.Vibe,
		FavoritePlaylist:    u.FavoritePlaylist,
		Gender:              u.Gender,
		StudentEmail:        u.Student.Email,
		PendingStudentEmail: u.Student.PendingEmail,
		IsStudentVerified:   u.Student.Verified,
		VerifiedSchoolName:  u.Student.SchoolName,
		StudentVerifiedAt:   formatTime(u.Student.VerifiedAt),
		VerificationExpires: formatTime(u.Student.ExpiresAt),
		IsDriver:            u.IsDriver,
		Car:                 toCarResponse(u.Car),
		CreatedAt:           formatTime(u.CreatedAt),
	}
}

func toUserSummary(u *domain.User, showCar bool) *UserSummary {
	if u == nil {
		return nil
	}
	s := &UserSummary{
		ID:                u.ID,
		Name:              u.Name,
		PhoneNumber:       u.PhoneNumber,
		ProfilePhotoURL:   u.ProfilePhotoURL,
		Gender:            u.Gender,
		IsStudentVerified: u.Student.Verified,
		SchoolName:        u.Student.SchoolName,
	}
	if showCar {
		s.Car = toCarResponse(u.Car)
	}
	return s
}

func toTripResponse(t *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:               t.ID,
		DriverID:         t.DriverID,
		OriginCity:       t.OriginCity,
		DestinationCity:  t.DestinationCity,
		OriginLabel:      t.OriginLabel,
		DestinationLabel: t.DestinationLabel,
		DepartureTime:    formatTime(t.DepartureTime),
		SeatsAvailable:   t.SeatsAvailable,
		Status:           string(t.Status),
		MeetingSpot:      t.MeetingSpot,
		Notes:            t.Notes,
		CreatedAt:        formatTime(t.CreatedAt),
	}
	if p := t.OriginPoint; p != nil {
		resp.OriginLat, resp.OriginLng = &p.Lat, &p.Lng
	}
	if p := t.DestinationPoint; p != nil {
		resp.DestinationLat, resp.DestinationLng = &p.Lat, &p.Lng
	}
	return resp
}

func toTripListing(l *service.TripListing) TripResponse {
	resp := toTripResponse(l.Trip)
	resp.Driver = toUserSummary(l.Driver, false)
	grams := l.DriverCarbonSavedGrams
	resp.DriverCarbonSavedGrams = &grams
	return resp
}

func toTripDetails(d *service.TripDetails) TripDetailsResponse {
	resp := TripDetailsResponse{
		TripResponse: toTripResponse(d.Trip),
		RideRequests: make([]RideRequestResponse, 0, len(d.RideRequests)),
	}
	resp.Driver = toUserSummary(d.Driver, d.ShowCar)
	grams := d.DriverCarbonSavedGrams
	resp.DriverCarbonSavedGrams = &grams

	if d.ViewerRequest != nil {
		vr := toRideRequestResponse(d.ViewerRequest)
		resp.ViewerRequest = &vr
	}
	for _, rr := range d.RideRequests {
		r := toRideRequestResponse(rr.Request)
		r.Rider = toUserSummary(rr.Rider, false)
		resp.RideRequests = append(resp.RideRequests, r)
	}
	return resp
}

func toRideRequestResponse(r *domain.RideRequest) RideRequestResponse {
	return RideRequestResponse{
		ID:        r.ID,
		TripID:    r.TripID,
		RiderID:   r.RiderID,
		Message:   r.Message,
		Status:    string(r.Status),
		CreatedAt: formatTime(r.CreatedAt),
	}
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		TripID:    n.TripID,
		RequestID: n.RequestID,
		IsRead:    n.IsRead,
		CreatedAt: formatTime(n.CreatedAt),
	}
}

func toMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		TripID:      m.TripID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		MessageText: m.Text,
		CreatedAt:   formatTime(m.CreatedAt),
	}
}

func toReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		TripID:     r.TripID,
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  formatTime(r.CreatedAt),
	}
}

func toCarbonStatsResponse(s *domain.CarbonStats) CarbonStatsResponse {
	return CarbonStatsResponse{
		TotalCO2SavedGrams: s.TotalCO2SavedGrams,
		TotalDistanceKm:    s.TotalDistanceKm,
		CompletedRides:     s.CompletedRides,
	}
}
