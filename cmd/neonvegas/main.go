package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fadedpez/neonvegas/internal/bot"
	"github.com/fadedpez/neonvegas/internal/config"
	"github.com/fadedpez/neonvegas/internal/discord"
	"github.com/fadedpez/neonvegas/internal/games"
	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/pkg/outcome"
	"github.com/fadedpez/neonvegas/pkg/repositories/ledger"
	"github.com/fadedpez/neonvegas/pkg/scheduler"
	"github.com/fadedpez/neonvegas/pkg/services/commentary"
	"github.com/fadedpez/neonvegas/pkg/services/referral"
	"github.com/fadedpez/neonvegas/pkg/services/ticker"
	"github.com/fadedpez/neonvegas/pkg/services/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeRepo, err := openLedger(cfg, logger)
	if err != nil {
		log.Fatalf("Error opening ledger: %v", err)
	}
	defer closeRepo()

	wallets := wallet.NewRegistry(repo, wallet.Delays{
		Deposit:  cfg.Delays.Deposit,
		Withdraw: cfg.Delays.Withdraw,
		KYC:      cfg.Delays.KYC,
	}, logger)
	referrals := referral.NewService(wallets, logger)
	wallets.SetDepositHook(referrals.OnDeposit)
	if _, err := wallets.Ensure(ctx, wallet.DefaultUser); err != nil {
		log.Fatalf("Error seeding guest wallet: %v", err)
	}

	src := outcome.NewSource(time.Now().UnixNano())

	var gen commentary.Generator
	if cfg.CommentaryEnabled() {
		g, err := commentary.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("[MAIN] Commentary disabled: %v", err)
		} else {
			gen = g
		}
	}
	dealer := commentary.NewService(gen, src, logger)

	feed := ticker.NewFeed(src)
	sched := scheduler.NewScheduler(logger)
	sched.AddDeferredTask("winners_ticker", cfg.TickerInterval, feed.Tick)

	casino, err := games.NewCasino(&games.Deps{
		Wallets:         wallets,
		Commentary:      dealer,
		Source:          src,
		Delays:          cfg.Delays,
		StrategyTimeout: cfg.StrategyTimeout,
		Logger:          logger,
	})
	if err != nil {
		log.Fatalf("Error registering games: %v", err)
	}

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}

	b := bot.New(cfg, session, bot.Services{
		Wallets:   wallets,
		Referrals: referrals,
		Feed:      feed,
		Games:     casino,
		Logger:    logger,
	})
	if err := b.Start(); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}
	sched.Start(ctx)

	logger.Info("[MAIN] NeonVegas is open. Press Ctrl+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("[MAIN] Shutting down...")
	cancel()
	sched.Stop()
	b.Shutdown()
}

// openLedger picks the ledger store named in cfg
func openLedger(cfg *config.Config, logger *logging.Logger) (ledger.Repository, func(), error) {
	if cfg.LedgerStore != config.StoreSQLite {
		logger.Info("[MAIN] Using in-memory ledger (data will be lost on restart)")
		return ledger.NewMemoryRepository(), func() {}, nil
	}

	repo, err := ledger.NewSQLiteRepository(cfg.SQLiteDSN, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("[MAIN] Using SQLite ledger at %s", cfg.SQLiteDSN)
	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Error("[MAIN] Error closing ledger: %v", err)
		}
	}, nil
}
