package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"flock/internal/domain"
	"flock/internal/repository"
	"flock/internal/service"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{service.ErrTripNotFound, http.StatusNotFound},
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrTripFull, http.StatusBadRequest},
		{domain.ErrIncompleteCarProfile, http.StatusBadRequest},
		{service.ErrPhotoTooLarge, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrMessagingLocked, http.StatusForbidden},
		{service.ErrReviewLocked, http.StatusForbidden},
		{service.ErrDuplicateReview, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{fmt.Errorf("accept: %w", service.ErrRequestNotPending), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapErrorToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("mapErrorToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("pq: relation does not exist"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != internalErrorMessage {
		t.Errorf("Expected generic message, got %q", body.Error)
	}
	if len(c.Errors) != 1 {
		t.Errorf("Expected the error attached for logging, got %d", len(c.Errors))
	}
}

func TestRespondError_ShowsServiceMessage(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, service.ErrTripFull)

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusBadRequest || body.Error != service.ErrTripFull.Error() {
		t.Errorf("Expected 400 %q, got %d %q", service.ErrTripFull, w.Code, body.Error)
	}
	if len(c.Errors) != 0 {
		t.Error("Expected client errors not to be attached")
	}
}
