package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/service"
)

// MessageHandler handles HTTP requests for trip messages.
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest is the HTTP request body for sending a message.
type SendMessageRequest struct {
	MessageText string `json:"messageText"`
	ReceiverID  string `json:"receiverId"`
}

// AcceptedRiderResponse is a rider the driver can message.
type AcceptedRiderResponse struct {
	RequestID string `json:"request_id"`
	RiderID   string `json:"rider_id"`
	RiderName string `json:"rider_name"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// ConversationResponse is the message view of a trip.
type ConversationResponse struct {
	Messages       []MessageResponse       `json:"messages"`
	CanMessage     bool                    `json:"can_message"`
	AcceptedRiders []AcceptedRiderResponse `json:"accepted_riders"`
	ParticipantID  *string                 `json:"participant_id"`
}

// GetMessages handles GET /trips/:id/messages
func (h *MessageHandler) GetMessages(c *gin.Context) {
	conv, err := h.messageService.ListMessages(c.Request.Context(), principal(c), c.Param("id"), c.Query("participantId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := ConversationResponse{
		Messages:       make([]MessageResponse, 0, len(conv.Messages)),
		CanMessage:     conv.CanMessage,
		AcceptedRiders: make([]AcceptedRiderResponse, 0, len(conv.AcceptedRiders)),
	}
	if conv.ParticipantID != "" {
		response.ParticipantID = &conv.ParticipantID
	}
	for _, m := range conv.Messages {
		msg := toMessageResponse(m.Message)
		msg.SenderName = m.SenderName
		msg.ReceiverName = m.ReceiverName
		response.Messages = append(response.Messages, msg)
	}
	for _, r := range conv.AcceptedRiders {
		response.AcceptedRiders = append(response.AcceptedRiders, AcceptedRiderResponse{
			RequestID: r.RequestID,
			RiderID:   r.RiderID,
			RiderName: r.RiderName,
			Message:   r.Message,
			Status:    string(r.Status),
			CreatedAt: formatTime(r.CreatedAt),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// SendMessage handles POST /trips/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	msg, err := h.messageService.SendMessage(c.Request.Context(), principal(c), c.Param("id"), req.MessageText, req.ReceiverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toMessageResponse(msg))
}
