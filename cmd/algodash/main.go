// Algodash - live terminal dashboard for a remote trading bot.
//
// The dashboard polls the bot's HTTP API on two independent cadences:
// market data (price history + indicators) refreshes whenever the selected
// symbol or time range changes, and bot telemetry (status, balance, trade
// log) refreshes every few seconds for the life of the process. A failing
// endpoint only freezes its own panel; everything else keeps updating.
//
// Operator controls: an interactive prompt on stdin and, optionally, a
// Telegram bot driving the same watchlist and start/stop machine.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/web3guy0/algodash/internal/api"
	"github.com/web3guy0/algodash/internal/bot"
	"github.com/web3guy0/algodash/internal/botctl"
	"github.com/web3guy0/algodash/internal/config"
	"github.com/web3guy0/algodash/internal/dashboard"
	"github.com/web3guy0/algodash/internal/database"
	"github.com/web3guy0/algodash/internal/model"
	"github.com/web3guy0/algodash/internal/poller"
	"github.com/web3guy0/algodash/internal/store"
	"github.com/web3guy0/algodash/internal/watch"
)

const version = "1.0.0"

func main() {
	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Load environment
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().
		Str("version", version).
		Str("api", cfg.APIBaseURL).
		Dur("telemetry_interval", cfg.TelemetryInterval).
		Msg("📈 Algodash starting...")

	// ====== CORE COMPONENTS ======

	st := store.New()
	gateway := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	machine := botctl.New(gateway, st)
	watchlist := watch.NewManager(cfg.Watchlist, st)
	poll := poller.New(gateway, st, machine, watchlist.Changes(), cfg.TelemetryInterval)

	// Trade archive (optional)
	var db *database.Database
	if cfg.ArchiveEnabled() {
		db, err = database.New(cfg.DatabasePath)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ Failed to open trade archive - continuing without it")
			db = nil
		}
	}
	// Telegram bot (optional)
	var telegramBot *bot.Bot
	if cfg.TelegramToken != "" {
		telegramBot, err = bot.New(cfg, st, machine, watchlist, db)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ Failed to initialize Telegram bot - continuing without it")
			telegramBot = nil
		}
	}

	var tradeObservers []func([]model.TradeLogEntry)
	if db != nil {
		tradeObservers = append(tradeObservers, func(entries []model.TradeLogEntry) {
			if err := db.ArchiveTrades(entries); err != nil {
				log.Debug().Err(err).Msg("failed to archive trades")
			}
		})
	}
	if telegramBot != nil {
		tradeObservers = append(tradeObservers, telegramBot.NotifyTrades)
		poll.SetStatusCallback(telegramBot.NotifyStatus)
	}
	if len(tradeObservers) > 0 {
		poll.SetTradeLogCallback(func(entries []model.TradeLogEntry) {
			for _, fn := range tradeObservers {
				fn(entries)
			}
		})
	}
	if telegramBot != nil {
		telegramBot.Start()
	}

	poll.Start()

	var term *dashboard.Terminal
	if !cfg.NoUI {
		term = dashboard.New(st)
		term.Start()
	}

	log.Info().Msg("✅ All systems online")

	// ====== OPERATOR INPUT ======

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go readCommands(watchlist, machine, done)

	select {
	case <-quit:
		log.Info().Msg("🛑 Received shutdown signal")
	case <-done:
		log.Info().Msg("🛑 Quit requested")
	}

	// Graceful shutdown: stop input sources first, then the loops, then
	// the renderer.
	if telegramBot != nil {
		telegramBot.Stop()
	}
	poll.Stop()
	if term != nil {
		term.Stop()
	}
	if db != nil {
		if stats, err := db.Stats(); err == nil {
			log.Info().Interface("archive", stats).Msg("trade archive session summary")
		}
	}

	log.Info().Msg("👋 Goodbye!")
}

// readCommands runs the stdin prompt. Closing stdin or typing quit ends
// the session.
func readCommands(watchlist *watch.Manager, machine *botctl.Machine, done chan<- struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "add":
			if len(args) != 1 {
				fmt.Fprintln(os.Stderr, "usage: add SYMBOL")
				continue
			}
			if sym, added := watchlist.Add(args[0]); !added && sym != "" {
				fmt.Fprintf(os.Stderr, "%s is already on the watchlist\n", sym)
			}
		case "select", "sel":
			if len(args) != 1 {
				fmt.Fprintln(os.Stderr, "usage: select SYMBOL")
				continue
			}
			if !watchlist.Select(args[0]) {
				fmt.Fprintf(os.Stderr, "unknown symbol %q (add it first)\n", watch.Normalize(args[0]))
			}
		case "range":
			if len(args) != 1 {
				fmt.Fprintln(os.Stderr, "usage: range 1D|7D|1M")
				continue
			}
			tr, ok := model.RangeByLabel(strings.ToUpper(args[0]))
			if !ok {
				fmt.Fprintln(os.Stderr, "unknown range (1D, 7D, 1M)")
				continue
			}
			watchlist.SetRange(tr)
		case "start":
			if !machine.CanStart() {
				fmt.Fprintln(os.Stderr, "bot is already running")
				continue
			}
			machine.Start(context.Background())
		case "stop":
			if !machine.CanStop() {
				fmt.Fprintln(os.Stderr, "bot is already idle")
				continue
			}
			machine.Stop(context.Background())
		case "quit", "exit", "q":
			return
		case "help", "?":
			fmt.Fprintln(os.Stderr, "commands: add SYMBOL | select SYMBOL | range 1D|7D|1M | start | stop | quit")
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q (try help)\n", cmd)
		}
	}
}
