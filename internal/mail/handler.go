package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/logger"
	"github.com/dteaa/membership_service/internal/metrics"
)

var ErrInvalidEvent = errors.New("invalid event payload")

// Handler consumes profile events and mails the member.
type Handler struct {
	renderer *Renderer
	sender   Sender
	log      logger.Logger
}

func NewHandler(renderer *Renderer, sender Sender, log logger.Logger) *Handler {
	return &Handler{renderer: renderer, sender: sender, log: log}
}

func (h *Handler) HandleMessage(ctx context.Context, message []byte) error {
	var event dto.ProfileEvent
	if err := json.Unmarshal(message, &event); err != nil {
		h.log.Warn("invalid event payload", map[string]interface{}{"payload": string(message)})
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if event.Email == "" {
		metrics.MailsSent.WithLabelValues(event.Type, "skipped").Inc()
		h.log.Warn("event without recipient", map[string]interface{}{"type": event.Type, "user_id": event.UserID})
		return nil
	}

	subject, body, err := h.renderer.Render(event)
	if errors.Is(err, ErrUnknownEvent) {
		metrics.MailsSent.WithLabelValues(event.Type, "skipped").Inc()
		h.log.Debug("event has no mail", map[string]interface{}{"type": event.Type})
		return nil
	}
	if err != nil {
		metrics.MailsSent.WithLabelValues(event.Type, "error").Inc()
		return err
	}

	log := h.log.WithFields(map[string]interface{}{"type": event.Type, "user_id": event.UserID})
	if err := h.sender.Send(ctx, event.Email, subject, body); err != nil {
		metrics.MailsSent.WithLabelValues(event.Type, "error").Inc()
		log.Error("mail send failed", map[string]interface{}{"error": err})
		return err
	}
	metrics.MailsSent.WithLabelValues(event.Type, "sent").Inc()
	log.Info("mail sent", nil)
	return nil
}
