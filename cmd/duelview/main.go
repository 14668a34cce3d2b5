package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/duelview/duelview/internal/cards"
	"github.com/duelview/duelview/internal/config"
	"github.com/duelview/duelview/internal/deck"
	"github.com/duelview/duelview/internal/duel/client"
	"github.com/duelview/duelview/internal/gateway"
	"github.com/duelview/duelview/internal/ocg"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting duelview",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	store, err := cards.Open(cfg.Cards.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to open card database", zap.Error(err))
	}
	defer store.Close()

	if err := store.LoadStringsFile(cfg.Cards.StringsPath); err != nil {
		logger.Warn("string tables unavailable, dialogs degrade to numeric text", zap.Error(err))
	}

	deck1, err := deck.ParseYDKE(cfg.Game.Player1Deck)
	if err != nil {
		logger.Fatal("failed to parse player 1 deck", zap.Error(err))
	}
	deck2, err := deck.ParseYDKE(cfg.Game.Player2Deck)
	if err != nil {
		logger.Fatal("failed to parse player 2 deck", zap.Error(err))
	}

	var seed [4]uint64
	for i := 0; i < len(seed) && i < len(cfg.Game.Seed); i++ {
		seed[i] = cfg.Game.Seed[i]
	}

	// The demo binary runs against the scripted engine; a real simulator
	// plugs in behind the same interface.
	engine := demoEngine()
	duelClient := client.New(engine, store, logger)

	if err := duelClient.Setup(client.SetupOptions{
		Players: [2]client.PlayerSetup{
			{Deck: deck1, RevealExtra: true},
			{Deck: deck2},
		},
		Seed:       seed,
		StartingLP: cfg.Game.StartingLP,
	}); err != nil {
		logger.Fatal("failed to set up duel", zap.Error(err))
	}

	gw := gateway.New(duelClient, cfg.Gateway, logger)

	go func() {
		if serveErr := gw.ListenAndServe(); serveErr != nil {
			logger.Error("gateway error", zap.Error(serveErr))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("duelview stopped")
}

// demoEngine scripts a short opening: duel start, opening hands, first turn.
func demoEngine() ocg.Engine {
	drawFive := func(player uint8) ocg.Message {
		drawn := make([]ocg.DrawnCard, 5)
		for i := range drawn {
			drawn[i] = ocg.DrawnCard{Position: ocg.PositionFaceDownAttack}
		}
		return ocg.MsgDraw{Player: player, Drawn: drawn}
	}

	return ocg.NewScriptedEngine(
		ocg.ScriptedStep{
			Messages: []ocg.Message{ocg.MsgStart{}, drawFive(0), drawFive(1)},
			Result:   ocg.ProcessContinue,
		},
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				ocg.MsgNewTurn{Player: 0},
				ocg.MsgNewPhase{Phase: ocg.PhaseDraw},
				ocg.MsgDraw{Player: 0, Drawn: []ocg.DrawnCard{{Position: ocg.PositionFaceDownAttack}}},
				ocg.MsgNewPhase{Phase: ocg.PhaseMain1},
			},
			Result: ocg.ProcessContinue,
		},
		ocg.ScriptedStep{
			Messages: []ocg.Message{ocg.MsgSelectIdleCmd{Player: 0, ToEnd: true}},
			Result:   ocg.ProcessWaiting,
		},
	)
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
