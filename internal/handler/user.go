package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/domain"
	"flock/internal/service"
)

// UserHandler handles HTTP requests for the caller's own account.
type UserHandler struct {
	userService         *service.UserService
	tripService         *service.TripService
	notificationService *service.NotificationService
	carbonService       *service.CarbonService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(
	userService *service.UserService,
	tripService *service.TripService,
	notificationService *service.NotificationService,
	carbonService *service.CarbonService,
) *UserHandler {
	return &UserHandler{
		userService:         userService,
		tripService:         tripService,
		notificationService: notificationService,
		carbonService:       carbonService,
	}
}

// CarRequest carries the car fields of a profile update.
type CarRequest struct {
	CarMake        string `json:"carMake"`
	CarModel       string `json:"carModel"`
	CarColor       string `json:"carColor"`
	CarPlateState  string `json:"carPlateState"`
	CarPlateNumber string `json:"carPlateNumber"`
	CarDescription string `json:"carDescription"`
}

func (r CarRequest) toInput() domain.CarProfileInput {
	return domain.CarProfileInput{
		Make:        r.CarMake,
		Model:       r.CarModel,
		Color:       r.CarColor,
		PlateState:  r.CarPlateState,
		PlateNumber: r.CarPlateNumber,
		Description: r.CarDescription,
	}
}

// UpdateProfileRequest is the HTTP request body for PUT /users/me.
type UpdateProfileRequest struct {
	CarRequest
	Name             string `json:"name"`
	PhoneNumber      string `json:"phoneNumber"`
	ProfilePhotoURL  string `json:"profilePhotoUrl"`
	Major            string `json:"major"`
	AcademicYear     string `json:"academicYear"`
	Vibe             string `json:"vibe"`
	FavoritePlaylist string `json:"favoritePlaylist"`
	Gender           string `json:"gender"`
}

// DriverProfileRequest is the HTTP request body for driver registration.
type DriverProfileRequest struct {
	CarRequest
	Gender string `json:"gender"`
}

// StudentVerificationRequest starts a .edu verification.
type StudentVerificationRequest struct {
	StudentEmail string `json:"studentEmail"`
}

// ConfirmVerificationRequest confirms a .edu verification.
type ConfirmVerificationRequest struct {
	Code string `json:"code"`
}

// UserEnvelope wraps the caller's account.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// VerificationResponse is the outcome of a verification step.
type VerificationResponse struct {
	User                UserResponse `json:"user"`
	Message             string       `json:"message"`
	DevVerificationCode string       `json:"dev_verification_code,omitempty"`
}

// NotificationsResponse lists the caller's notifications.
type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, UserEnvelope{User: toUserResponse(user)})
}

// UpdateMe handles PUT /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), principal(c), service.ProfileInput{
		Name:             req.Name,
		PhoneNumber:      req.PhoneNumber,
		ProfilePhotoURL:  req.ProfilePhotoURL,
		Major:            req.Major,
		AcademicYear:     req.AcademicYear,
		Vibe:             req.Vibe,
		FavoritePlaylist: req.FavoritePlaylist,
		Gender:           req.Gender,
		Car:              req.CarRequest.toInput(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, UserEnvelope{User: toUserResponse(user)})
}

// SaveDriverProfile handles POST /users/me/driver-profile
func (h *UserHandler) SaveDriverProfile(c *gin.Context) {
	var req DriverProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.userService.SaveDriverProfile(c.Request.Context(), principal(c), req.CarRequest.toInput(), req.Gender)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, UserEnvelope{User: toUserResponse(user)})
}

// StartStudentVerification handles POST /users/me/student-verification
func (h *UserHandler) StartStudentVerification(c *gin.Context) {
	var req StudentVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.userService.StartStudentVerification(c.Request.Context(), principal(c), req.StudentEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VerificationResponse{
		User:                toUserResponse(result.User),
		Message:             result.Message,
		DevVerificationCode: result.Code,
	})
}

// ConfirmStudentVerification handles POST /users/me/student-verification/confirm
func (h *UserHandler) ConfirmStudentVerification(c *gin.Context) {
	var req ConfirmVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.userService.ConfirmStudentVerification(c.Request.Context(), principal(c), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VerificationResponse{
		User:    toUserResponse(result.User),
		Message: result.Message,
	})
}

// GetMyTrips handles GET /users/me/trips
func (h *UserHandler) GetMyTrips(c *gin.Context) {
	trips, err := h.tripService.ListMyTrips(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		response = append(response, toTripResponse(t))
	}

	respondJSON(c, http.StatusOK, gin.H{"trips": response})
}

// GetNotifications handles GET /users/me/notifications
func (h *UserHandler) GetNotifications(c *gin.Context) {
	list, err := h.notificationService.List(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := NotificationsResponse{
		Notifications: make([]NotificationResponse, 0, len(list.Notifications)),
		UnreadCount:   list.UnreadCount,
	}
	for _, n := range list.Notifications {
		response.Notifications = append(response.Notifications, toNotificationResponse(n))
	}

	respondJSON(c, http.StatusOK, response)
}

// MarkAllNotificationsRead handles POST /users/me/notifications/read-all
func (h *UserHandler) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.Request.Context(), principal(c)); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"ok": true})
}

// MarkNotificationRead handles POST /users/me/notifications/:id/read
func (h *UserHandler) MarkNotificationRead(c *gin.Context) {
	n, err := h.notificationService.MarkRead(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toNotificationResponse(n))
}

// GetCarbonStats handles GET /users/me/carbon-stats
func (h *UserHandler) GetCarbonStats(c *gin.Context) {
	stats, err := h.carbonService.StatsForUser(c.Request.Context(), principal(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCarbonStatsResponse(stats))
}
