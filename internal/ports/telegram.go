package ports

import (
	"context"

	"github.com/larriantoniy/pethome_bot/internal/domain"
)

// TelegramClient is the messaging transport.
// Implemented by adapters (TDLib, fakes in tests).
type TelegramClient interface {
	// Listen returns the stream of inbound events; it is closed when the
	// client stops.
	Listen(ctx context.Context) (<-chan domain.Event, error)
	// Render shows a screen in the chat.
	Render(ctx context.Context, screen domain.Screen) error
	// Retract deletes an inbound message, e.g. one holding a password.
	Retract(ctx context.Context, chat domain.ChatContext) error
	// Acknowledge answers a button press.
	Acknowledge(ctx context.Context, callbackID int64) error
	Close()
}
