package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/service"
)

// RideRequestHandler handles HTTP requests for ride requests.
type RideRequestHandler struct {
	requestService *service.RideRequestService
}

// NewRideRequestHandler creates a new RideRequestHandler.
func NewRideRequestHandler(requestService *service.RideRequestService) *RideRequestHandler {
	return &RideRequestHandler{requestService: requestService}
}

// CreateRideRequestBody is the HTTP request body for requesting a seat.
type CreateRideRequestBody struct {
	Message string `json:"message"`
}

// CreateRequest handles POST /trips/:id/request
func (h *RideRequestHandler) CreateRequest(c *gin.Context) {
	var req CreateRideRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	created, err := h.requestService.CreateRequest(c.Request.Context(), principal(c), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideRequestResponse(created))
}

// AcceptRequest handles POST /requests/:id/accept
func (h *RideRequestHandler) AcceptRequest(c *gin.Context) {
	req, err := h.requestService.AcceptRequest(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideRequestResponse(req))
}

// RejectRequest handles POST /requests/:id/reject
func (h *RideRequestHandler) RejectRequest(c *gin.Context) {
	req, err := h.requestService.RejectRequest(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideRequestResponse(req))
}

// WithdrawRequest handles POST /requests/:id/withdraw
func (h *RideRequestHandler) WithdrawRequest(c *gin.Context) {
	req, err := h.requestService.WithdrawRequest(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideRequestResponse(req))
}

// GetMine handles GET /users/me/requests
func (h *RideRequestHandler) GetMine(c *gin.Context) {
	requests, err := h.requestService.ListMyRequests(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideRequestResponse, 0, len(requests))
	for _, rt := range requests {
		r := toRideRequestResponse(rt.Request)
		if rt.Trip != nil {
			trip := toTripResponse(rt.Trip)
			r.Trip = &trip
		}
		response = append(response, r)
	}

	respondJSON(c, http.StatusOK, gin.H{"requests": response})
}
