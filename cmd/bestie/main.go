package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/bestie/config"
	"github.com/alejandrodnm/bestie/internal/adapters/kalshi"
	"github.com/alejandrodnm/bestie/internal/adapters/notify"
	"github.com/alejandrodnm/bestie/internal/adapters/storage"
	"github.com/alejandrodnm/bestie/internal/application/follower"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	bootstrap := flag.Bool("bootstrap", false, "seed position snapshots and exit without trading")
	once := flag.Bool("once", false, "run one live cycle after bootstrap and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full decision table (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("bestie starting",
		"config", *configPath,
		"interval", cfg.Interval(),
		"bootstrap", *bootstrap,
		"once", *once,
	)

	if cfg.Auth.KeyID == "" || cfg.Auth.PrivateKeyPath == "" {
		slog.Error("missing credentials: set KALSHI_ACCESS_KEY_ID and KALSHI_PRIVATE_KEY_PATH")
		os.Exit(1)
	}
	signer, err := kalshi.NewSignerFromFile(cfg.Auth.KeyID, cfg.Auth.PrivateKeyPath)
	if err != nil {
		slog.Error("failed to load private key", "err", err, "path", cfg.Auth.PrivateKeyPath)
		os.Exit(1)
	}
	client := kalshi.NewClient(cfg.API.BaseURL, signer)

	store, err := storage.New(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table)

	scorer := follower.NewScorer(client, follower.ScorerConfig{
		Metrics:          cfg.Scoring.Metrics,
		Windows:          cfg.Scoring.Windows,
		Categories:       cfg.Scoring.Categories,
		LeaderboardLimit: cfg.Scoring.LeaderboardLimit,
		ShrinkageK:       cfg.Scoring.ShrinkageK,
		MinTrades:        cfg.Scoring.MinTrades,
		TopN:             cfg.Scoring.TopN,
	})

	engine := follower.New(follower.Config{
		Interval:          cfg.Interval(),
		ScoreRefresh:      cfg.ScoreRefresh(),
		Users:             cfg.Follower.Users,
		MaxBetContracts:   cfg.Follower.MaxBetContracts,
		MaxOrdersPerCycle: cfg.Follower.MaxOrdersPerCycle,
		MinConsensusScore: cfg.Follower.MinConsensusScore,
		MaxPriceCents:     cfg.Follower.MaxPriceCents,
		MinBalanceCents:   cfg.Follower.MinBalanceCents,
	}, client, client, store, notifier, scorer)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *bootstrap:
		err = engine.Bootstrap(ctx)
	case *once:
		if err = engine.Bootstrap(ctx); err == nil {
			_, err = engine.RunOnce(ctx)
		}
	default:
		err = engine.Run(ctx)
	}
	if err != nil {
		slog.Error("bestie exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("bestie stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
