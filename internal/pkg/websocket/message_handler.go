package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// NotificationReader marks notifications as read
type NotificationReader interface {
	MarkRead(ctx context.Context, id, recipientID string) error
}

// MessageHandler applies read acknowledgements sent by clients
type MessageHandler struct {
	reader NotificationReader
	hub    *Hub
	logger zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(reader NotificationReader, hub *Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		reader: reader,
		hub:    hub,
		logger: logger,
	}
}

// Start processes client messages until ctx is done
func (h *MessageHandler) Start(ctx context.Context) {
	messageChan := make(chan *Message, 32)
	h.hub.AddMessageListener(messageChan)

	go func() {
		defer h.hub.RemoveMessageListener(messageChan)
		for {
			select {
			case <-ctx.Done():
				return
			case message := <-messageChan:
				h.handle(ctx, message)
			}
		}
	}()
}

func (h *MessageHandler) handle(ctx context.Context, message *Message) {
	if message.Type != TypeRead || message.NotificationID == "" {
		h.logger.Debug().Str("type", message.Type).Msg("Ignoring client message")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.reader.MarkRead(ctx, message.NotificationID, message.RecipientID); err != nil {
		h.logger.Warn().
			Err(err).
			Str("notificationID", message.NotificationID).
			Str("userID", message.RecipientID).
			Msg("Failed to mark notification as read")
	}
}
