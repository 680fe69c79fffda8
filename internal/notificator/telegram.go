package notificator

import (
	"bytes"
	"context"
	"runtime/debug"
	"sync"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/custos-watch/custos/internal/config"
	"github.com/custos-watch/custos/internal/models"
	"github.com/custos-watch/custos/pkg/logger"
)

type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingAddWallet
	pendingRemoveWallet
)

// TelegramNotificator delivers cycle reports to administrators and active
// subscribers, alerts the maintainer, and serves the chat admin console.
type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot

	repo models.Repository
	cfg  *config.Config

	mu      sync.Mutex
	pending map[int64]pendingAction
}

func NewTelegramNotificator(cfg *config.Config, repo models.Repository, logger *logger.Logger) (*TelegramNotificator, error) {
	provider := &TelegramNotificator{
		logger:  logger,
		repo:    repo,
		cfg:     cfg,
		pending: make(map[int64]pendingAction),
	}
	opts := []bot.Option{
		bot.WithDefaultHandler(provider.handler),
	}

	b, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, err
	}
	provider.bot = b

	return provider, nil
}

// Start runs the bot long-poll loop until the context is cancelled.
func (t *TelegramNotificator) Start(ctx context.Context) {
	t.bot.Start(ctx)
}

// Broadcast sends the report to every administrator and every active
// subscriber. A failed delivery (e.g. a blocked bot) is logged and counted
// but never aborts delivery to the remaining recipients.
func (t *TelegramNotificator) Broadcast(ctx context.Context, text string) {
	recipients := append([]int64{}, t.cfg.AdminChatIDs...)
	users, err := t.repo.ActiveUsers()
	if err != nil {
		t.logger.Error("Failed to load active users ", "error ", err)
	} else {
		for _, user := range users {
			recipients = append(recipients, user.ChatID)
		}
	}

	failed := 0
	for _, chatID := range recipients {
		id := chatID
		t.safeCall(func() {
			if err := t.send(ctx, id, text, nil); err != nil {
				failed++
				t.logger.Debug("Failed to deliver report ", "chat ", id, " error ", err)
			}
		}, "broadcast")
	}
	if failed > 0 {
		t.logger.Warn("Some reports were not delivered ", "failed ", failed, " recipients ", len(recipients))
	}
}

// Alert sends a diagnostic message to the maintainer chat only.
func (t *TelegramNotificator) Alert(ctx context.Context, text string) {
	t.safeCall(func() {
		if err := t.send(ctx, t.cfg.MaintainerChatID, "⚠️ "+text, nil); err != nil {
			t.logger.Error("Failed to deliver alert ", "error ", err)
		}
	}, "alert")
}

func (t *TelegramNotificator) send(ctx context.Context, chatID int64, text string, markup tgModels.ReplyMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	}
	_, err := t.bot.SendMessage(ctx, params)
	return err
}

func (t *TelegramNotificator) sendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	params := &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &tgModels.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
	}
	_, err := t.bot.SendDocument(ctx, params)
	return err
}

// safeCall runs a function with panic recovery (synchronous, no goroutine spawning)
func (t *TelegramNotificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (t *TelegramNotificator) setPending(chatID int64, action pendingAction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if action == pendingNone {
		delete(t.pending, chatID)
		return
	}
	t.pending[chatID] = action
}

func (t *TelegramNotificator) takePending(chatID int64) pendingAction {
	t.mu.Lock()
	defer t.mu.Unlock()
	action := t.pending[chatID]
	delete(t.pending, chatID)
	return action
}
