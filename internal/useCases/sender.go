package useCases

import (
	"context"
	"log/slog"

	"github.com/larriantoniy/pethome_bot/internal/domain"
	"github.com/larriantoniy/pethome_bot/internal/ports"
)

// Sender hands an Outcome to the transport. Transport failures are logged,
// never returned: the session has already moved on.
type Sender struct {
	log *slog.Logger
	tg  ports.TelegramClient
}

func NewSender(log *slog.Logger, tg ports.TelegramClient) *Sender {
	return &Sender{log: log, tg: tg}
}

func (s *Sender) Acknowledge(ctx context.Context, log *slog.Logger, ev domain.Event) {
	if ev.Kind != domain.EventButton || ev.CallbackID == 0 {
		return
	}
	if err := s.tg.Acknowledge(ctx, ev.CallbackID); err != nil {
		log.Warn("Acknowledge", "error", err)
	}
}

func (s *Sender) Deliver(ctx context.Context, log *slog.Logger, ev domain.Event, out Outcome) {
	// сначала убираем сообщение пользователя, потом рисуем экран
	if out.Retract {
		if err := s.tg.Retract(ctx, ev.Chat); err != nil {
			log.Warn("Retract", "chat_id", ev.Chat.ChatID, "msg_id", ev.Chat.MessageID, "error", err)
		}
	}
	if out.Screen == nil {
		return
	}
	if err := s.tg.Render(ctx, *out.Screen); err != nil {
		log.Error("Render", "chat_id", out.Screen.Chat.ChatID, "error", err)
	}
}
