package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/domain"
	"flock/internal/middleware"
	"flock/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// TripRequest is the HTTP request body for creating or editing a trip.
type TripRequest struct {
	OriginCity       string   `json:"originCity"`
	DestinationCity  string   `json:"destinationCity"`
	OriginLabel      string   `json:"originLabel"`
	DestinationLabel string   `json:"destinationLabel"`
	OriginLat        *float64 `json:"originLat"`
	OriginLng        *float64 `json:"originLng"`
	DestinationLat   *float64 `json:"destinationLat"`
	DestinationLng   *float64 `json:"destinationLng"`
	DepartureTime    string   `json:"departureTime"`
	SeatsAvailable   any      `json:"seatsAvailable"`
	MeetingSpot      string   `json:"meetingSpot"`
	Notes            string   `json:"notes"`
}

func (r TripRequest) toInput() (service.TripInput, error) {
	departure, ok := parseDeparture(r.DepartureTime)
	if !ok {
		return service.TripInput{}, service.ErrInvalidDepartureTime
	}

	return service.TripInput{
		OriginCity:       r.OriginCity,
		DestinationCity:  r.DestinationCity,
		OriginLabel:      r.OriginLabel,
		DestinationLabel: r.DestinationLabel,
		OriginPoint:      point(r.OriginLat, r.OriginLng),
		DestinationPoint: point(r.DestinationLat, r.DestinationLng),
		DepartureTime:    departure,
		SeatsAvailable:   wholeNumber(r.SeatsAvailable),
		MeetingSpot:      r.MeetingSpot,
		Notes:            r.Notes,
	}, nil
}

func point(lat, lng *float64) *domain.Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *lat, Lng: *lng}
}

// CreateTrip handles POST /trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// UpdateTrip handles PUT /trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), principal(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// CancelTrip handles POST /trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	trip, err := h.tripService.CancelTrip(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// CompleteTrip handles POST /trips/:id/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	trip, err := h.tripService.CompleteTrip(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// GetAll handles GET /trips
func (h *TripHandler) GetAll(c *gin.Context) {
	listings, err := h.tripService.ListTrips(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(listings))
	for _, l := range listings {
		response = append(response, toTripListing(l))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetTrip handles GET /trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	details, err := h.tripService.GetTrip(c.Request.Context(), middleware.OptionalPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripDetails(details))
}
