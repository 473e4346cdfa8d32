package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/centromex/donorlog/internal/ledger"
	"github.com/centromex/donorlog/internal/models"
	"github.com/centromex/donorlog/internal/session"
)

const ownerID int64 = 1001

type fakeAPI struct {
	sent    []tgbotapi.MessageConfig
	updates chan tgbotapi.Update
	stopped bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.stopped = true
}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("no message sent")
	}
	return f.sent[len(f.sent)-1].Text
}

type memPersister struct {
	records   []models.DonationRecord
	summaries []models.DonorSummary
}

func (m *memPersister) LoadDonations() ([]models.DonationRecord, error) { return m.records, nil }

func (m *memPersister) SaveDonations(records []models.DonationRecord) error {
	m.records = records
	return nil
}

func (m *memPersister) SaveSummaries(summaries []models.DonorSummary) error {
	m.summaries = summaries
	return nil
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *ledger.Store, *memPersister) {
	t.Helper()
	today, _ := time.Parse(models.DateLayout, "2024-05-01")
	store := ledger.NewStore()
	p := &memPersister{}
	ctrl := session.NewController(store, p, session.WithClock(func() time.Time { return today }))
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 16)}
	return newBot(api, ownerID, ctrl, zerolog.Nop()), api, store, p
}

func command(from int64, text string) tgbotapi.Update {
	cmd := text
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmd = text[:i]
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: from},
		Chat:     &tgbotapi.Chat{ID: from},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func TestAddCommand(t *testing.T) {
	b, api, store, _ := newTestBot(t)

	b.handleUpdate(command(ownerID, "/add alice smith | o- | 2024-02-01 | 450"))

	if got := api.lastText(t); got != "✅ Donation by Alice Smith (O-) logged for 2024-02-01." {
		t.Errorf("reply = %q", got)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestAddCommandKnownDonorAndIneligible(t *testing.T) {
	b, api, store, _ := newTestBot(t)

	b.handleUpdate(command(ownerID, "/add Alice | O- | 2024-04-01 | 450"))
	b.handleUpdate(command(ownerID, "/add alice |  |  | 450"))

	if got := api.lastText(t); got != "⛔ You are not eligible to donate blood. Please wait at least 60 more day(s)." {
		t.Errorf("reply = %q", got)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestAddCommandUsageAndErrors(t *testing.T) {
	b, api, store, _ := newTestBot(t)

	b.handleUpdate(command(ownerID, "/add Alice O- 450"))
	if got := api.lastText(t); !strings.HasPrefix(got, "Usage: /add") {
		t.Errorf("reply = %q, want usage", got)
	}

	b.handleUpdate(command(ownerID, "/add Alice | O- | | lots"))
	if got := api.lastText(t); !strings.HasPrefix(got, "Donation not logged:") {
		t.Errorf("reply = %q, want rejection", got)
	}

	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestCheckCommand(t *testing.T) {
	b, api, _, _ := newTestBot(t)

	b.handleUpdate(command(ownerID, "/check bob"))
	if got := api.lastText(t); got != "✅ Bob may donate today." {
		t.Errorf("reply = %q", got)
	}

	b.handleUpdate(command(ownerID, "/add Bob | A+ | 2024-02-02 | 500"))
	b.handleUpdate(command(ownerID, "/check BOB"))
	if got := api.lastText(t); got != "⛔ You are not eligible to donate blood. Please wait at least 1 more day(s)." {
		t.Errorf("reply = %q", got)
	}

	b.handleUpdate(command(ownerID, "/check"))
	if got := api.lastText(t); got != "Usage: /check <name>" {
		t.Errorf("reply = %q", got)
	}
}

func TestReportCommandsUseHTML(t *testing.T) {
	b, api, _, _ := newTestBot(t)

	b.handleUpdate(command(ownerID, "/summary"))
	if got := api.lastText(t); got != "<pre>No donation records found.</pre>" {
		t.Errorf("reply = %q", got)
	}

	b.handleUpdate(command(ownerID, "/add Alice | O- | 2024-01-01 | 450"))
	b.handleUpdate(command(ownerID, "/eligibility"))

	last := api.sent[len(api.sent)-1]
	if last.ParseMode != tgbotapi.ModeHTML {
		t.Errorf("ParseMode = %q, want HTML", last.ParseMode)
	}
	if !strings.Contains(last.Text, "Alice") || !strings.Contains(last.Text, "Eligible") {
		t.Errorf("report = %q", last.Text)
	}
}

func TestExportCommand(t *testing.T) {
	b, api, _, p := newTestBot(t)

	b.handleUpdate(command(ownerID, "/add Alice | O- | 2024-01-01 | 450"))
	b.handleUpdate(command(ownerID, "/export"))

	if got := api.lastText(t); got != "✅ All records and summaries exported." {
		t.Errorf("reply = %q", got)
	}
	if len(p.records) != 1 || len(p.summaries) != 1 {
		t.Errorf("persisted %d records and %d summaries, want 1 and 1", len(p.records), len(p.summaries))
	}
}

func TestNonOwnerIsRejected(t *testing.T) {
	b, api, store, _ := newTestBot(t)

	b.handleUpdate(command(2002, "/add Mallory | O- | 2024-01-01 | 450"))

	if got := api.lastText(t); got != "This donation ledger is private." {
		t.Errorf("reply = %q", got)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestPlainTextAndUnknownCommand(t *testing.T) {
	b, api, _, _ := newTestBot(t)

	b.handleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: ownerID},
		Chat: &tgbotapi.Chat{ID: ownerID},
		Text: "hello",
	}})
	if got := api.lastText(t); got != "Use /help to see available commands." {
		t.Errorf("reply = %q", got)
	}

	b.handleUpdate(command(ownerID, "/delete"))
	if got := api.lastText(t); !strings.HasPrefix(got, "Unknown command.") {
		t.Errorf("reply = %q", got)
	}

	b.handleUpdate(tgbotapi.Update{})
	if len(api.sent) != 2 {
		t.Errorf("empty update produced a reply")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	b, api, store, _ := newTestBot(t)
	api.updates <- command(ownerID, "/add Alice | O- | 2024-01-01 | 450")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(api.updates) > 0 {
		select {
		case <-deadline:
			t.Fatal("update was not consumed")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !api.stopped {
		t.Error("StopReceivingUpdates was not called")
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestRunReturnsWhenUpdatesClose(t *testing.T) {
	b, api, _, _ := newTestBot(t)
	close(api.updates)

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestParseAddArgs(t *testing.T) {
	in, err := parseAddArgs(" Alice | O- |  | 450 ")
	if err != nil {
		t.Fatalf("parseAddArgs returned error: %v", err)
	}
	if in.Name != "Alice" || in.BloodGroup != "O-" || in.Date != "" || in.Volume != "450" {
		t.Errorf("parsed %+v", in)
	}

	for _, bad := range []string{"", "Alice", "Alice | O- | 450", " | O- | | 450", "a|b|c|d|e"} {
		if _, err := parseAddArgs(bad); err == nil {
			t.Errorf("parseAddArgs(%q) expected error", bad)
		}
	}
}
