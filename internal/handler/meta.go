package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/geo"
)

// MetaHandler serves health and reference data.
type MetaHandler struct {
	cities *geo.Directory
}

// NewMetaHandler creates a new MetaHandler.
func NewMetaHandler(cities *geo.Directory) *MetaHandler {
	return &MetaHandler{cities: cities}
}

// Health handles GET /health
func (h *MetaHandler) Health(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{"ok": true, "message": "Flock backend is running."})
}

// GetCities handles GET /cities
func (h *MetaHandler) GetCities(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{"cities": h.cities.All()})
}
