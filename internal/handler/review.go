package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/service"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReviewRequest is the HTTP request body for a review.
type CreateReviewRequest struct {
	RevieweeID string `json:"revieweeId"`
	Rating     any    `json:"rating"`
	Comment    string `json:"comment"`
}

// ReviewSummaryResponse aggregates the reviews a user received.
type ReviewSummaryResponse struct {
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// UserReviewsResponse is every review a user received.
type UserReviewsResponse struct {
	Reviews []ReviewResponse      `json:"reviews"`
	Summary ReviewSummaryResponse `json:"summary"`
}

// CreateReview handles POST /trips/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), principal(c), c.Param("id"), service.ReviewInput{
		RevieweeID: req.RevieweeID,
		Rating:     wholeNumber(req.Rating),
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toReviewResponse(review))
}

// GetUserReviews handles GET /users/:id/reviews
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	result, err := h.reviewService.ListUserReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := UserReviewsResponse{
		Reviews: make([]ReviewResponse, 0, len(result.Reviews)),
		Summary: ReviewSummaryResponse{
			ReviewCount:   result.Summary.Count,
			AverageRating: result.Summary.AverageRating,
		},
	}
	for _, rv := range result.Reviews {
		r := toReviewResponse(rv.Review)
		r.ReviewerName = rv.ReviewerName
		response.Reviews = append(response.Reviews, r)
	}

	respondJSON(c, http.StatusOK, response)
}
