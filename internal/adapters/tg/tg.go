package tg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zelenin/go-tdlib/client"

	"github.com/larriantoniy/pethome_bot/internal/config"
	"github.com/larriantoniy/pethome_bot/internal/domain"
	"github.com/larriantoniy/pethome_bot/internal/ports"
)

// TelegramClient implements ports.TelegramClient on top of TDLib
// authorised as a bot. Each chat has one "screen" message that is edited
// in place for every render.
type TelegramClient struct {
	client *client.Client
	logger *slog.Logger
	selfId int64

	mu      sync.Mutex
	screens map[int64]int64 // chat id -> screen message id
}

var ErrRateLimited = errors.New("tdlib: too many requests")

var _ ports.TelegramClient = (*TelegramClient)(nil)

func NewBotClient(cfg *config.AppConfig, log *slog.Logger) (*TelegramClient, error) {
	dbDir := filepath.Join(cfg.BaseDir, "database")
	filesDir := filepath.Join(cfg.BaseDir, "files")

	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir files dir: %w", err)
	}

	if _, err := client.SetLogVerbosityLevel(&client.SetLogVerbosityLevelRequest{
		NewVerbosityLevel: 1,
	}); err != nil {
		log.Error("TDLib SetLogVerbosityLevel", "error", err)
	}

	checkProxy(log, cfg.Proxy)

	var opts []client.Option
	if cfg.Proxy.Enabled {
		opts = append(opts, client.WithProxy(&client.AddProxyRequest{
			Server: cfg.Proxy.Server,
			Port:   cfg.Proxy.Port,
			Enable: true,
			Type: &client.ProxyTypeSocks5{
				Username: cfg.Proxy.Username,
				Password: cfg.Proxy.Password,
			},
		}))
	}

	authorizer := client.BotAuthorizer(tdParams(cfg, dbDir, filesDir), cfg.BotToken)

	tdCli, err := client.NewClient(authorizer, opts...)
	if err != nil {
		log.Error("TDLib NewClient error", "error", err)
		return nil, err
	}

	me, err := tdCli.GetMe()
	if err != nil {
		log.Error("GetMe failed", "error", err)
		tdCli.Close()
		return nil, err
	}

	log.Info("TDLib bot client initialized", "self_id", me.Id)

	return &TelegramClient{
		client:  tdCli,
		logger:  log,
		selfId:  me.Id,
		screens: make(map[int64]int64),
	}, nil
}

func (t *TelegramClient) Close() {
	t.client.Close()
	t.logger.Info("TDLib client closed")
}

// Listen converts TDLib updates into domain events until ctx is done.
func (t *TelegramClient) Listen(ctx context.Context) (<-chan domain.Event, error) {
	out := make(chan domain.Event)

	listener := t.client.GetListener()
	go func() {
		defer close(out)
		defer listener.Close()

		for {
			var update client.Type
			select {
			case <-ctx.Done():
				return
			case u, ok := <-listener.Updates:
				if !ok {
					return
				}
				update = u
			}

			ev, ok := t.toEvent(update)
			if !ok {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (t *TelegramClient) toEvent(update client.Type) (domain.Event, bool) {
	switch upd := update.(type) {
	case *client.UpdateNewMessage:
		return t.fromMessage(upd.Message)

	case *client.UpdateNewCallbackQuery:
		return t.fromCallback(upd)

	case *client.UpdateMessageSendSucceeded:
		// the id returned by SendMessage is temporary
		t.mu.Lock()
		if t.screens[upd.Message.ChatId] == upd.OldMessageId {
			t.screens[upd.Message.ChatId] = upd.Message.Id
		}
		t.mu.Unlock()
	}
	return domain.Event{}, false
}

func (t *TelegramClient) fromMessage(m *client.Message) (domain.Event, bool) {
	if m == nil || m.IsOutgoing {
		return domain.Event{}, false
	}
	sender, ok := m.SenderId.(*client.MessageSenderUser)
	if !ok {
		return domain.Event{}, false
	}
	content, ok := m.Content.(*client.MessageText)
	if !ok {
		t.logger.Debug("skip non-text message", "chat_id", m.ChatId, "type", m.Content.MessageContentType())
		return domain.Event{}, false
	}

	ev := domain.Event{
		Kind:   domain.EventText,
		UserID: sender.UserId,
		Chat:   domain.ChatContext{ChatID: m.ChatId, MessageID: m.Id},
		Text:   content.Text.Text,
	}
	cmd, ok := command(ev.Text)
	if !ok {
		return ev, true
	}
	ev.Text = ""
	switch cmd {
	case "start":
		// a fresh welcome goes to a new message at the bottom of the chat
		t.mu.Lock()
		delete(t.screens, m.ChatId)
		t.mu.Unlock()
		ev.Kind = domain.EventStart
	case "help":
		ev.Kind = domain.EventHelp
	default:
		t.logger.Debug("skip unknown command", "chat_id", m.ChatId, "command", cmd)
		return domain.Event{}, false
	}
	return ev, true
}

// command returns the bot command name of "/name[@bot] [args]".
func command(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd, _, _ := strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	if cmd == "" {
		return "", false
	}
	return strings.ToLower(cmd), true
}

func (t *TelegramClient) fromCallback(upd *client.UpdateNewCallbackQuery) (domain.Event, bool) {
	payload, ok := upd.Payload.(*client.CallbackQueryPayloadData)
	if !ok {
		return domain.Event{}, false
	}
	token, ok := domain.ParseToken(string(payload.Data))
	if !ok {
		t.logger.Warn("unknown callback data", "data", string(payload.Data))
		_ = t.Acknowledge(context.Background(), int64(upd.Id))
		return domain.Event{}, false
	}

	// the message carrying the pressed button becomes the screen
	t.mu.Lock()
	t.screens[upd.ChatId] = upd.MessageId
	t.mu.Unlock()

	return domain.Event{
		Kind:       domain.EventButton,
		UserID:     upd.SenderUserId,
		Chat:       domain.ChatContext{ChatID: upd.ChatId, MessageID: upd.MessageId},
		Token:      token,
		CallbackID: int64(upd.Id),
	}, true
}

// Render edits the chat's screen message, or sends a new one when there
// is none or it can no longer be edited.
func (t *TelegramClient) Render(ctx context.Context, screen domain.Screen) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID := screen.Chat.ChatID
	markup := toMarkup(screen.Buttons)
	content := &client.InputMessageText{
		Text:       &client.FormattedText{Text: screen.Text},
		ClearDraft: true,
	}

	t.mu.Lock()
	screenID := t.screens[chatID]
	t.mu.Unlock()

	if screenID != 0 {
		_, err := t.client.EditMessageText(&client.EditMessageTextRequest{
			ChatId:              chatID,
			MessageId:           screenID,
			ReplyMarkup:         markup,
			InputMessageContent: content,
		})
		if err == nil || isNotModified(err) {
			return nil
		}
		if isTooManyRequests(err) {
			return ErrRateLimited
		}
		t.logger.Debug("EditMessageText failed, sending a new screen", "chat_id", chatID, "msg_id", screenID, "error", err)
	}

	msg, err := t.client.SendMessage(&client.SendMessageRequest{
		ChatId:              chatID,
		ReplyMarkup:         markup,
		InputMessageContent: content,
	})
	if err != nil {
		if isTooManyRequests(err) {
			t.logger.Error("SendMessage rate-limited", "chat_id", chatID, "error", err)
			return ErrRateLimited
		}
		return fmt.Errorf("send message: %w", err)
	}

	t.mu.Lock()
	t.screens[chatID] = msg.Id
	t.mu.Unlock()
	return nil
}

func (t *TelegramClient) Retract(ctx context.Context, chat domain.ChatContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.client.DeleteMessages(&client.DeleteMessagesRequest{
		ChatId:     chat.ChatID,
		MessageIds: []int64{chat.MessageID},
		Revoke:     true,
	})
	return err
}

func (t *TelegramClient) Acknowledge(_ context.Context, callbackID int64) error {
	_, err := t.client.AnswerCallbackQuery(&client.AnswerCallbackQueryRequest{
		CallbackQueryId: client.JsonInt64(callbackID),
	})
	return err
}

func toMarkup(rows [][]domain.Button) client.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := &client.ReplyMarkupInlineKeyboard{
		Rows: make([][]*client.InlineKeyboardButton, 0, len(rows)),
	}
	for _, row := range rows {
		buttons := make([]*client.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, &client.InlineKeyboardButton{
				Text: b.Label,
				Type: &client.InlineKeyboardButtonTypeCallback{Data: []byte(b.Token)},
			})
		}
		kb.Rows = append(kb.Rows, buttons)
	}
	return kb
}

func isTooManyRequests(err error) bool {
	// TDLib оборачивается в client.Error
	var tdErr *client.Error
	if errors.As(err, &tdErr) {
		if tdErr.Code == 429 {
			return true
		}
		if strings.Contains(strings.ToLower(tdErr.Message), "too many requests") {
			return true
		}
	}
	return false
}

func isNotModified(err error) bool {
	var tdErr *client.Error
	return errors.As(err, &tdErr) && strings.Contains(strings.ToUpper(tdErr.Message), "MESSAGE_NOT_MODIFIED")
}
