package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/domain"
	"flock/internal/repository"
	"flock/internal/service"
)

const internalErrorMessage = "something went wrong, please try again"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Unexpected errors are attached to the context for the request logger and
// replaced with a generic message.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: internalErrorMessage})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondBadRequest sends a 400 with the given message.
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTripNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, domain.ErrIncompleteCarProfile),
		errors.Is(err, domain.ErrInvalidGender),
		errors.Is(err, service.ErrTripFieldsRequired),
		errors.Is(err, service.ErrInvalidDepartureTime),
		errors.Is(err, service.ErrInvalidTripCities),
		errors.Is(err, service.ErrSeatsBelowOne),
		errors.Is(err, service.ErrSeatsNegative),
		errors.Is(err, service.ErrTripAlreadyCancelled),
		errors.Is(err, service.ErrTripAlreadyCompleted),
		errors.Is(err, service.ErrCompletedTripNotCancellable),
		errors.Is(err, service.ErrCancelledTripNotCompletable),
		errors.Is(err, service.ErrTripNotDeparted),
		errors.Is(err, service.ErrRequestNoteRequired),
		errors.Is(err, service.ErrOwnTripRequest),
		errors.Is(err, service.ErrTripCancelled),
		errors.Is(err, service.ErrTripFull),
		errors.Is(err, service.ErrCancelledTripAccept),
		errors.Is(err, service.ErrRequestNotPending),
		errors.Is(err, service.ErrMessageTextRequired),
		errors.Is(err, service.ErrReceiverRequired),
		errors.Is(err, service.ErrReviewFieldsRequired),
		errors.Is(err, service.ErrRatingOutOfRange),
		errors.Is(err, service.ErrSelfReview),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrRegistrationFieldsRequired),
		errors.Is(err, service.ErrLoginFieldsRequired),
		errors.Is(err, service.ErrProfileFieldsRequired),
		errors.Is(err, service.ErrCarFieldsRequired),
		errors.Is(err, service.ErrDriverGenderRequired),
		errors.Is(err, service.ErrStudentEmailRequired),
		errors.Is(err, service.ErrInvalidStudentEmail),
		errors.Is(err, service.ErrVerificationCodeRequired),
		errors.Is(err, service.ErrNoPendingVerification),
		errors.Is(err, service.ErrWrongVerificationCode),
		errors.Is(err, service.ErrVerificationExpired),
		errors.Is(err, service.ErrPhotoRequired),
		errors.Is(err, service.ErrPhotoTooLarge),
		errors.Is(err, service.ErrPhotoNotImage):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrDriverRegistrationRequired),
		errors.Is(err, service.ErrNotTripOwner),
		errors.Is(err, service.ErrNotRequestDriver),
		errors.Is(err, service.ErrNotRequestRider),
		errors.Is(err, service.ErrMessagingLocked),
		errors.Is(err, service.ErrRecipientNotAccepted),
		errors.Is(err, service.ErrReviewLocked),
		errors.Is(err, service.ErrDriverReviewTarget),
		errors.Is(err, service.ErrReviewerNotAccepted),
		errors.Is(err, service.ErrRiderReviewTarget):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrDuplicateReview):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
