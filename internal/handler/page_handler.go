package handler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/SergeiKhy/click-to-wish/internal/middleware"
	"github.com/SergeiKhy/click-to-wish/internal/models"
	"github.com/SergeiKhy/click-to-wish/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxSourceTagLength = 64

type PageHandler struct {
	visits   service.VisitService
	messages service.MessageService
	friend   service.Friend
	logger   *zap.Logger
}

func NewPageHandler(visits service.VisitService, messages service.MessageService, friend service.Friend, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		visits:   visits,
		messages: messages,
		friend:   friend,
		logger:   logger,
	}
}

// Index renders the wish page. The session's click is recorded on its first
// render only; every render refreshes the counter, wish and feed.
func (h *PageHandler) Index(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		h.logger.Error("Session missing from request context")
		c.String(http.StatusInternalServerError, "session unavailable")
		return
	}

	event := &models.ClickEvent{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		SourceTag: sourceTag(c.Query("src")),
	}

	view, err := h.visits.Visit(c.Request.Context(), sess, event)
	if err != nil {
		h.logger.Error("Failed to build page", zap.String("session_id", sess.ID), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Message": "The birthday counter is unavailable right now. Please try again in a moment.",
		})
		return
	}

	c.HTML(http.StatusOK, "page.html", gin.H{
		"View":        view,
		"MessageSent": c.Query("sent") == "1",
	})
}

// SubmitForm handles the HTML form of the public feed and redirects back to the page.
func (h *PageHandler) SubmitForm(c *gin.Context) {
	var input models.MessageInput
	if err := c.ShouldBind(&input); err != nil {
		h.logger.Warn("Invalid message form", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	stored, err := h.messages.Submit(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("Failed to store message", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Message": "Your message could not be saved. Please try again.",
		})
		return
	}

	if stored {
		c.Redirect(http.StatusSeeOther, "/?sent=1")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// GoNow sends the visitor straight to the profile.
func (h *PageHandler) GoNow(c *gin.Context) {
	c.Redirect(http.StatusFound, h.friend.ProfileURL)
}

// sourceTag normalizes the campaign tag taken from the query string.
func sourceTag(raw string) string {
	tag := strings.TrimSpace(raw)
	if utf8.RuneCountInString(tag) > maxSourceTagLength {
		tag = string([]rune(tag)[:maxSourceTagLength])
	}
	return tag
}
