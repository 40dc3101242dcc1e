package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"household-organizer/internal/config"
	"household-organizer/internal/planner"
	"household-organizer/internal/recipe"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the meal plan commands.
type Bot struct {
	api      *tgbotapi.BotAPI
	commands *Commands
	cfg      *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, store *planner.Store, catalog *recipe.Catalog) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:      bot,
		commands: NewCommands(store, catalog),
		cfg:      cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !isAllowed(b.cfg.TelegramAllowedUserIDs, update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reply := tgbotapi.NewMessage(msg.Chat.ID, b.commands.Handle(ctx, msg.Text))
	reply.ParseMode = "Markdown"
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("Failed to send reply: %v", err)
	}
}

func isAllowed(allowed []int64, userID int64) bool {
	return slices.Contains(allowed, userID)
}
