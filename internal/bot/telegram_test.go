package bot

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/web3guy0/algodash/internal/config"
	"github.com/web3guy0/algodash/internal/model"
)

type fakeTelegramAPI struct {
	updates chan tgbotapi.Update
	stopped chan struct{}
	sent    []string
}

func newFakeTelegramAPI() *fakeTelegramAPI {
	return &fakeTelegramAPI{
		updates: make(chan tgbotapi.Update),
		stopped: make(chan struct{}),
	}
}

func (f *fakeTelegramAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeTelegramAPI) StopReceivingUpdates() {
	close(f.stopped)
}

func (f *fakeTelegramAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func newTestBot(api telegramAPI, chatID int64) *Bot {
	return &Bot{
		api:        api,
		cfg:        &config.Config{TelegramChatID: chatID},
		lastStatus: model.BotIdle,
		seenTrades: make(map[string]bool),
		stopCh:     make(chan struct{}),
	}
}

func TestStopShutsDownUpdateReceiver(t *testing.T) {
	assertion := assert.New(t)

	api := newFakeTelegramAPI()
	b := newTestBot(api, 0)
	b.Start()
	b.Stop()

	select {
	case <-api.stopped:
	case <-time.After(time.Second):
		t.Fatal("expected Stop to halt the update receiver")
	}
	assertion.Empty(api.sent)
}

func TestNotifyStatusAlertsOnChangeOnly(t *testing.T) {
	assertion := assert.New(t)

	api := newFakeTelegramAPI()
	b := newTestBot(api, 42)

	b.NotifyStatus(model.BotIdle)
	assertion.Empty(api.sent)

	b.NotifyStatus(model.BotRunning)
	b.NotifyStatus(model.BotRunning)
	assertion.Len(api.sent, 1)
	assertion.Contains(api.sent[0], "RUNNING")
}

func TestNotifyTradesDeduplicates(t *testing.T) {
	assertion := assert.New(t)

	api := newFakeTelegramAPI()
	b := newTestBot(api, 42)

	entries := []model.TradeLogEntry{
		{Time: "10:00:00", Action: "BUY"},
		{Time: "10:05:00", Action: "SELL"},
	}
	b.NotifyTrades(entries)
	assertion.Len(api.sent, 2)

	// The same rolling log arrives on every poll.
	b.NotifyTrades(entries)
	assertion.Len(api.sent, 2)
}
