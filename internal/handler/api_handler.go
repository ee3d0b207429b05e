package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/SergeiKhy/click-to-wish/internal/models"
	"github.com/SergeiKhy/click-to-wish/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SubmitMessageResponse struct {
	Stored bool `json:"stored"`
}

type MessagesResponse struct {
	Messages []models.Message `json:"messages"`
}

// Pinger is satisfied by the store handle.
type Pinger interface {
	Ping(ctx context.Context) error
}

type APIHandler struct {
	visits   service.VisitService
	messages service.MessageService
	store    Pinger
	logger   *zap.Logger
}

func NewAPIHandler(visits service.VisitService, messages service.MessageService, store Pinger, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		visits:   visits,
		messages: messages,
		store:    store,
		logger:   logger,
	}
}

// HealthCheck godoc
// @Summary Service health
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/health [get]
func (h *APIHandler) HealthCheck(c *gin.Context) {
	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			h.logger.Error("Store ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   "store_unavailable",
				Message: "Database is not reachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "click-to-wish"})
}

// GetStats godoc
// @Summary Total number of counted visits
// @Tags stats
// @Produce json
// @Success 200 {object} models.ClickStats
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/stats [get]
func (h *APIHandler) GetStats(c *gin.Context) {
	stats, err := h.visits.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count clicks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to read the counter",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListMessages godoc
// @Summary Recent messages, newest first
// @Tags messages
// @Produce json
// @Param limit query int false "Maximum number of messages" default(50)
// @Success 200 {object} MessagesResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/messages [get]
func (h *APIHandler) ListMessages(c *gin.Context) {
	limit := models.DefaultFeedLimit
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	messages, err := h.messages.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to fetch messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch messages",
		})
		return
	}
	c.JSON(http.StatusOK, MessagesResponse{Messages: messages})
}

// SubmitMessage godoc
// @Summary Leave a wish or a roast in the public feed
// @Tags messages
// @Accept json
// @Produce json
// @Param request body models.MessageInput true "Message"
// @Success 201 {object} SubmitMessageResponse
// @Success 200 {object} SubmitMessageResponse "empty text, nothing stored"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/messages [post]
func (h *APIHandler) SubmitMessage(c *gin.Context) {
	var input models.MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	stored, err := h.messages.Submit(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("Failed to store message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to store message",
		})
		return
	}

	status := http.StatusOK
	if stored {
		status = http.StatusCreated
	}
	c.JSON(status, SubmitMessageResponse{Stored: stored})
}
