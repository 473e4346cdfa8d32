package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/centromex/donorlog/internal/eligibility"
	"github.com/centromex/donorlog/internal/ledger"
	"github.com/centromex/donorlog/internal/models"
	"github.com/centromex/donorlog/internal/session"
)

const helpText = "Commands:\n" +
	"/add <name> | <blood group> | <date> | <volume> - Log a donation\n" +
	"    (leave blood group blank for known donors, date blank for today)\n" +
	"/check <name> - Can this donor give blood today?\n" +
	"/eligibility - 90-day eligibility report\n" +
	"/summary - Per-donor totals\n" +
	"/export - Write records and summaries\n" +
	"/help - Show this help message"

// telegramAPI is the subset of *tgbotapi.BotAPI the bot uses.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot serves the ledger to a single Telegram user.
type Bot struct {
	api     telegramAPI
	ctrl    *session.Controller
	ownerID int64 // Only this Telegram user may read or write the ledger
	log     zerolog.Logger
}

type Config struct {
	Token   string
	OwnerID int64
}

func New(cfg Config, ctrl *session.Controller, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Info().Str("account", api.Self.UserName).Msg("authorized on telegram")

	return newBot(api, cfg.OwnerID, ctrl, log), nil
}

func newBot(api telegramAPI, ownerID int64, ctrl *session.Controller, log zerolog.Logger) *Bot {
	return &Bot{
		api:     api,
		ctrl:    ctrl,
		ownerID: ownerID,
		log:     log,
	}
}

// Run handles updates one at a time until ctx is cancelled or the update
// channel closes.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if msg.From.ID != b.ownerID {
		b.log.Warn().Int64("user_id", msg.From.ID).Msg("rejected message from non-owner")
		b.sendMessage(msg.Chat.ID, "This donation ledger is private.")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	b.sendMessage(msg.Chat.ID, "Use /help to see available commands.")
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, "Welcome to the Blood Donation Log!\n\n"+helpText)

	case "help":
		b.sendMessage(msg.Chat.ID, helpText)

	case "add":
		b.handleAdd(msg)

	case "check":
		b.handleCheck(msg)

	case "eligibility":
		b.sendPre(msg.Chat.ID, session.FormatEligibility(b.ctrl.Eligibility()))

	case "summary":
		b.sendPre(msg.Chat.ID, session.FormatSummary(b.ctrl.Summaries()))

	case "export":
		if err := b.ctrl.Export(); err != nil {
			b.log.Error().Err(err).Msg("export failed")
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("Export failed: %v", err))
			return
		}
		b.sendMessage(msg.Chat.ID, "✅ All records and summaries exported.")

	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleAdd(msg *tgbotapi.Message) {
	in, err := parseAddArgs(msg.CommandArguments())
	if err != nil {
		b.sendMessage(msg.Chat.ID, "Usage: /add <name> | <blood group> | <date> | <volume>\n"+
			"Example: /add Alice Smith | O- | 2024-02-01 | 450")
		return
	}

	rec, err := b.ctrl.AddDonation(in)
	var notEligible *eligibility.NotEligibleError
	switch {
	case errors.As(err, &notEligible):
		b.sendMessage(msg.Chat.ID, "⛔ "+notEligible.Error())
		return
	case err != nil:
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Donation not logged: %v", err))
		return
	}

	b.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Donation by %s (%s) logged for %s.",
		rec.Name, rec.BloodGroup, rec.DonationDate.Format(models.DateLayout)))
}

func (b *Bot) handleCheck(msg *tgbotapi.Message) {
	name := ledger.NormalizeName(msg.CommandArguments())
	if name == "" {
		b.sendMessage(msg.Chat.ID, "Usage: /check <name>")
		return
	}

	v := b.ctrl.Check(name)
	if !v.Eligible {
		b.sendMessage(msg.Chat.ID, "⛔ "+v.Message)
		return
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ %s may donate today.", name))
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	if err != nil {
		b.log.Error().Err(err).Msg("error sending message")
	}
}

// sendPre sends text as a monospace block so report columns line up.
func (b *Bot) sendPre(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "<pre>"+html.EscapeString(text)+"</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	if err != nil {
		b.log.Error().Err(err).Msg("error sending report")
	}
}

// Helper functions

func parseAddArgs(args string) (session.DonationInput, error) {
	parts := strings.Split(args, "|")
	if len(parts) != 4 {
		return session.DonationInput{}, fmt.Errorf("expected 4 fields, got %d", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[0] == "" {
		return session.DonationInput{}, fmt.Errorf("no name provided")
	}
	return session.DonationInput{
		Name:       parts[0],
		BloodGroup: parts[1],
		Date:       parts[2],
		Volume:     parts[3],
	}, nil
}
