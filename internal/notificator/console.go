package notificator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/custos-watch/custos/internal/custos"
	"github.com/custos-watch/custos/internal/export"
	"github.com/custos-watch/custos/internal/models"
)

const (
	buttonAddWallet    = "📥 Add wallet"
	buttonRemoveWallet = "🗑 Remove wallet"
	buttonStats        = "📊 Stats"
	buttonExport       = "📤 Export"
)

func adminKeyboard() *tgModels.ReplyKeyboardMarkup {
	return &tgModels.ReplyKeyboardMarkup{
		Keyboard: [][]tgModels.KeyboardButton{
			{{Text: buttonAddWallet}, {Text: buttonRemoveWallet}},
			{{Text: buttonStats}, {Text: buttonExport}},
		},
		ResizeKeyboard: true,
	}
}

// handler routes every incoming update: administrators get the console,
// everyone else goes through the lazy-enrollment password gate.
func (t *TelegramNotificator) handler(ctx context.Context, b *bot.Bot, update *tgModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	if t.cfg.IsAdmin(update.Message.From.ID) {
		t.handleAdmin(ctx, chatID, text)
		return
	}
	t.handleSubscriber(ctx, chatID, text)
}

func (t *TelegramNotificator) handleAdmin(ctx context.Context, chatID int64, text string) {
	switch t.takePending(chatID) {
	case pendingAddWallet:
		t.finishAddWallet(ctx, chatID, text)
		return
	case pendingRemoveWallet:
		t.finishRemoveWallet(ctx, chatID, text)
		return
	}

	switch text {
	case "/start":
		t.reply(ctx, chatID, "Welcome, administrator!", adminKeyboard())
	case buttonAddWallet:
		t.setPending(chatID, pendingAddWallet)
		t.reply(ctx, chatID,
			"Send the wallet address and token separated by a space (e.g. 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa btc):",
			&tgModels.ReplyKeyboardRemove{RemoveKeyboard: true})
	case buttonRemoveWallet:
		t.setPending(chatID, pendingRemoveWallet)
		t.reply(ctx, chatID,
			"Send the wallet address and token separated by a space to remove it:",
			&tgModels.ReplyKeyboardRemove{RemoveKeyboard: true})
	case buttonStats:
		t.showStats(ctx, chatID)
	case buttonExport:
		t.sendExport(ctx, chatID)
	default:
		t.reply(ctx, chatID, "Use the keyboard below.", adminKeyboard())
	}
}

func (t *TelegramNotificator) finishAddWallet(ctx context.Context, chatID int64, text string) {
	address, token, err := parseWalletSpec(text)
	if err != nil {
		t.reply(ctx, chatID, err.Error(), adminKeyboard())
		return
	}

	wallet := &models.Wallet{Address: address, Token: token}
	if err := t.repo.AddWallet(wallet); err != nil {
		if errors.Is(err, models.ErrWalletExists) {
			t.reply(ctx, chatID, "This wallet is already tracked.", adminKeyboard())
			return
		}
		t.logger.Error("Failed to add wallet ", "address ", address, " error ", err)
		t.reply(ctx, chatID, "Failed to add the wallet: "+err.Error(), adminKeyboard())
		return
	}
	t.reply(ctx, chatID, fmt.Sprintf("Wallet %s (%s) added.", address, token), adminKeyboard())
}

func (t *TelegramNotificator) finishRemoveWallet(ctx context.Context, chatID int64, text string) {
	address, token, err := parseWalletSpec(text)
	if err != nil {
		t.reply(ctx, chatID, err.Error(), adminKeyboard())
		return
	}

	removed, err := t.repo.RemoveWallet(address, token)
	if err != nil {
		t.logger.Error("Failed to remove wallet ", "address ", address, " error ", err)
		t.reply(ctx, chatID, "Failed to remove the wallet: "+err.Error(), adminKeyboard())
		return
	}
	if !removed {
		t.reply(ctx, chatID, "Wallet not found.", adminKeyboard())
		return
	}
	t.reply(ctx, chatID, fmt.Sprintf("Wallet %s (%s) removed.", address, token), adminKeyboard())
}

func (t *TelegramNotificator) showStats(ctx context.Context, chatID int64) {
	stats, err := custos.CollectInflowStats(t.repo, time.Now())
	if err != nil {
		t.logger.Error("Failed to collect inflow stats ", "error ", err)
		t.reply(ctx, chatID, "Failed to collect statistics.", adminKeyboard())
		return
	}
	t.reply(ctx, chatID, stats.Format(), adminKeyboard())
}

func (t *TelegramNotificator) sendExport(ctx context.Context, chatID int64) {
	data, err := export.BalanceHistoryCSV(t.repo)
	if err != nil {
		t.logger.Error("Failed to build export ", "error ", err)
		t.reply(ctx, chatID, "Failed to build the export.", adminKeyboard())
		return
	}
	filename := fmt.Sprintf("balances-%s.csv", time.Now().UTC().Format("2006-01-02"))
	if err := t.sendDocument(ctx, chatID, filename, data); err != nil {
		t.logger.Error("Failed to send export ", "error ", err)
		t.reply(ctx, chatID, "Failed to send the export.", adminKeyboard())
	}
}

// handleSubscriber enrolls unknown users lazily and gates activation behind
// the shared password.
func (t *TelegramNotificator) handleSubscriber(ctx context.Context, chatID int64, text string) {
	user, err := t.repo.GetOrCreateUser(chatID)
	if err != nil {
		t.logger.Error("Failed to load user ", "chat ", chatID, " error ", err)
		return
	}

	if text == "/start" {
		if user.IsActive {
			t.reply(ctx, chatID, "You are already activated!", nil)
			return
		}
		t.reply(ctx, chatID, "Enter the password to activate:", nil)
		return
	}

	if user.IsActive {
		return
	}
	if text == t.cfg.SubscriberPassword {
		if err := t.repo.ActivateUser(chatID); err != nil {
			t.logger.Error("Failed to activate user ", "chat ", chatID, " error ", err)
			return
		}
		t.reply(ctx, chatID, "Password accepted! You are activated.", nil)
		return
	}
	t.reply(ctx, chatID, "Wrong password. Try again.", nil)
}

func (t *TelegramNotificator) reply(ctx context.Context, chatID int64, text string, markup tgModels.ReplyMarkup) {
	if err := t.send(ctx, chatID, text, markup); err != nil {
		t.logger.Error("Failed to send reply ", "chat ", chatID, " error ", err)
	}
}

// parseWalletSpec splits an "<address> <token>" console command.
func parseWalletSpec(text string) (string, models.Token, error) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid format, use: <address> <token>")
	}
	token, err := models.ParseToken(strings.ToLower(parts[1]))
	if err != nil {
		return "", "", err
	}
	return parts[0], token, nil
}
