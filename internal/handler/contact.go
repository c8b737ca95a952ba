package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/travelx/internal/metrics"
	"github.com/dukerupert/travelx/internal/model"
)

// ContactMailer forwards contact form submissions.
type ContactMailer interface {
	Configured() bool
	SendContactMessage(msg model.ContactMessage) error
}

type ContactHandler struct {
	mailer  ContactMailer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewContactHandler(mailer ContactMailer, m *metrics.Metrics, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{mailer: mailer, metrics: m, logger: logger}
}

type contactResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var msg model.ContactMessage
	if err := decodeJSON(w, r, &msg); err != nil {
		writeJSON(w, http.StatusBadRequest, contactResponse{Message: "Invalid request body"})
		return
	}

	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	if msg.Name == "" || msg.Email == "" || strings.TrimSpace(msg.Message) == "" {
		writeJSON(w, http.StatusBadRequest, contactResponse{Message: "Name, email and message are required"})
		return
	}

	h.logger.InfoContext(r.Context(), "contact message received",
		"email", msg.Email,
		"subject", msg.Subject,
		"category", msg.Category,
	)

	if h.mailer != nil && h.mailer.Configured() {
		if err := h.mailer.SendContactMessage(msg); err != nil {
			h.logger.ErrorContext(r.Context(), "forward contact message", "error", err)
		}
	}

	h.metrics.ContactMessage()
	writeJSON(w, http.StatusOK, contactResponse{Message: "Message sent successfully", Success: true})
}
