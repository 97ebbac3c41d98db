// Package bot provides an optional Telegram front end: push alerts for bot
// status changes and newly observed trades, plus a small command set that
// drives the same watchlist and control machine the terminal uses.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/web3guy0/algodash/internal/botctl"
	"github.com/web3guy0/algodash/internal/config"
	"github.com/web3guy0/algodash/internal/database"
	"github.com/web3guy0/algodash/internal/model"
	"github.com/web3guy0/algodash/internal/store"
	"github.com/web3guy0/algodash/internal/watch"
)

// telegramAPI is the slice of tgbotapi.BotAPI the bot uses.
type telegramAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot handles Telegram interactions for the dashboard
type Bot struct {
	api     telegramAPI
	cfg     *config.Config
	st      *store.Store
	machine *botctl.Machine
	watch   *watch.Manager
	db      *database.Database // nil when the archive is disabled

	stateMu    sync.Mutex
	lastStatus model.BotStatus
	seenTrades map[string]bool

	stopCh chan struct{}
}

// New creates the Telegram bot and connects to the API.
func New(cfg *config.Config, st *store.Store, machine *botctl.Machine, wm *watch.Manager, db *database.Database) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	log.Info().Str("username", api.Self.UserName).Msg("🤖 Telegram bot connected")

	return &Bot{
		api:        api,
		cfg:        cfg,
		st:         st,
		machine:    machine,
		watch:      wm,
		db:         db,
		lastStatus: model.BotIdle,
		seenTrades: make(map[string]bool),
		stopCh:     make(chan struct{}),
	}, nil
}

// Start begins the command listener.
func (b *Bot) Start() {
	go b.listenForCommands()

	if b.cfg.TelegramChatID != 0 {
		b.sendText(b.cfg.TelegramChatID, "📈 algodash online. /help for commands")
	}
}

// Stop halts the long-poll receiver and the command listener.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	close(b.stopCh)
}

// NotifyStatus alerts the configured chat when the server-reported status
// changes. Wire it to the poller's status callback.
func (b *Bot) NotifyStatus(status model.BotStatus) {
	b.stateMu.Lock()
	changed := status != b.lastStatus
	b.lastStatus = status
	b.stateMu.Unlock()

	if !changed || b.cfg.TelegramChatID == 0 {
		return
	}
	if status == model.BotRunning {
		b.sendText(b.cfg.TelegramChatID, "🟢 Trading bot is RUNNING")
	} else {
		b.sendText(b.cfg.TelegramChatID, "⚫ Trading bot is IDLE")
	}
}

// NotifyTrades alerts the configured chat about trades it hasn't reported
// yet. Wire it to the poller's trade-log callback.
func (b *Bot) NotifyTrades(entries []model.TradeLogEntry) {
	if b.cfg.TelegramChatID == 0 {
		return
	}
	for _, e := range entries {
		key := e.Time + "|" + e.Action + "|" + e.Price.String()

		b.stateMu.Lock()
		seen := b.seenTrades[key]
		if !seen {
			b.seenTrades[key] = true
		}
		b.stateMu.Unlock()
		if seen {
			continue
		}

		icon := "🔴"
		if e.Action == "BUY" {
			icon = "🟢"
		}
		b.sendText(b.cfg.TelegramChatID, fmt.Sprintf("%s %s at $%s (%s)\n💰 %s / %s BTC",
			icon, e.Action, e.Price.StringFixed(2), e.Time,
			e.Wallet.FormatUSD(), e.Wallet.FormatBTC()))
	}
}

func (b *Bot) listenForCommands() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message != nil {
				go b.handleMessage(update.Message)
			}
		case <-b.stopCh:
			return
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Only respond to the authorized chat
	if b.cfg.TelegramChatID != 0 && chatID != b.cfg.TelegramChatID {
		b.sendText(chatID, "⛔ Unauthorized")
		return
	}

	if !msg.IsCommand() {
		return
	}

	switch msg.Command() {
	case "status", "s":
		b.cmdStatus(chatID)
	case "balance", "b":
		b.cmdBalance(chatID)
	case "start":
		b.machine.Start(context.Background())
		b.cmdStatus(chatID)
	case "stop":
		b.machine.Stop(context.Background())
		b.cmdStatus(chatID)
	case "watch", "w":
		b.cmdWatch(chatID, msg.CommandArguments())
	case "history":
		b.cmdHistory(chatID)
	case "help", "h":
		b.cmdHelp(chatID)
	default:
		b.sendText(chatID, "Unknown command. /help")
	}
}

func (b *Bot) cmdStatus(chatID int64) {
	vm := b.st.Snapshot()
	status, origin := b.machine.Status()

	icon := "⚫"
	if status == model.BotRunning {
		icon = "🟢"
	}
	note := ""
	if origin == botctl.Optimistic {
		note = " (awaiting confirmation)"
	}
	b.sendText(chatID, fmt.Sprintf("%s Bot: %s%s\n📊 Trades: %d\n👁 Watching: %s [%s]",
		icon, strings.ToUpper(string(status)), note,
		vm.TradeCount, vm.SelectedSymbol, vm.Range.Label))
}

func (b *Bot) cmdBalance(chatID int64) {
	vm := b.st.Snapshot()
	b.sendText(chatID, fmt.Sprintf("💵 %s\n₿ %s", vm.Balance.FormatUSD(), vm.Balance.FormatBTC()))
}

func (b *Bot) cmdWatch(chatID int64, args string) {
	sym := strings.TrimSpace(args)
	if sym == "" {
		b.sendText(chatID, "Watchlist: "+strings.Join(b.watch.Symbols(), ", "))
		return
	}
	normalized, added := b.watch.Add(sym)
	if normalized == "" {
		b.sendText(chatID, "Usage: /watch SYMBOL")
		return
	}
	if !added {
		b.sendText(chatID, normalized+" is already on the watchlist")
		return
	}
	b.sendText(chatID, "➕ Now watching "+normalized)
}

func (b *Bot) cmdHistory(chatID int64) {
	if b.db == nil {
		b.sendText(chatID, "Trade archive is disabled")
		return
	}
	records, err := b.db.RecentTrades(10)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read trade archive")
		b.sendText(chatID, "Failed to read trade archive")
		return
	}
	if len(records) == 0 {
		b.sendText(chatID, "No archived trades yet")
		return
	}
	var sb strings.Builder
	sb.WriteString("📋 Archived trades:\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%s %s at $%s\n", r.TradeTime, r.Action, r.Price.StringFixed(2)))
	}
	b.sendText(chatID, sb.String())
}

func (b *Bot) cmdHelp(chatID int64) {
	b.sendText(chatID, `📈 algodash commands:
/status - bot status and selection
/balance - wallet balance
/start - start the trading bot
/stop - stop the trading bot
/watch SYMBOL - add a symbol (no arg: list)
/history - archived trades
/help - this message`)
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Warn().Err(err).Msg("failed to send Telegram message")
	}
}
