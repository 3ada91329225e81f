// Command sophia is a terminal chat client for the Sophia chat backend.
//
// Usage:
//
//	sophia [flags]
//
// Flags:
//
//	-backend string     Backend: http, simulated (env SOPHIA_BACKEND, default http)
//	-url string         Backend base URL (env SOPHIA_URL, default http://localhost:8000)
//	-timeout duration   Per-request timeout (default 30s)
//	-rate float         Max requests per second to the backend (0 = unlimited)
//	-delay duration     Reply delay of the simulated backend (default 600ms)
//	-retain-history     Keep each conversation's messages when switching
//	-ordered            Show overlapping replies in send order
//	-log string         JSON log file (default ~/.sophia/sophia.log, empty disables)
//	-transcript string  Save the session transcript here on exit
//	-replay string      Print a saved transcript and exit
//
// A .env file in the working directory is loaded before the environment is
// read.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fwojciec/sophia"
	bt "github.com/fwojciec/sophia/bubbletea"
	sophiajson "github.com/fwojciec/sophia/json"
	"github.com/joho/godotenv"
)

const replayWidth = 80

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sophia: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var flags config
	flag.StringVar(&flags.backend, "backend", "", "Backend: http, simulated (env SOPHIA_BACKEND)")
	flag.StringVar(&flags.url, "url", "", "Backend base URL (env SOPHIA_URL)")
	flag.DurationVar(&flags.timeout, "timeout", 30*time.Second, "Per-request timeout")
	flag.Float64Var(&flags.rate, "rate", 0, "Max requests per second to the backend (0 = unlimited)")
	flag.DurationVar(&flags.delay, "delay", 600*time.Millisecond, "Reply delay of the simulated backend")
	flag.BoolVar(&flags.retain, "retain-history", false, "Keep each conversation's messages when switching")
	flag.BoolVar(&flags.ordered, "ordered", false, "Show overlapping replies in send order")
	flag.StringVar(&flags.logPath, "log", defaultLogPath(), "JSON log file (empty disables logging)")
	flag.StringVar(&flags.transcript, "transcript", "", "Save the session transcript here on exit")
	flag.StringVar(&flags.replay, "replay", "", "Print a saved transcript and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	// Env vars are read here and passed as values.
	cfg, err := resolveConfig(flags, os.Getenv("SOPHIA_BACKEND"), os.Getenv("SOPHIA_URL"))
	if err != nil {
		return err
	}

	theme := sophia.DefaultTheme()

	if cfg.replay != "" {
		tr, err := sophiajson.Load(cfg.replay)
		if err != nil {
			return fmt.Errorf("load transcript: %w", err)
		}
		return printTranscript(os.Stdout, tr, replayWidth, theme)
	}

	logger, logFile, err := openLog(cfg.logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctrl := sophia.NewController(newClient(cfg), controllerOptions(cfg, logger)...)
	logger.Info("starting", "backend", cfg.backend, "url", cfg.url, "retain_history", cfg.retain, "ordered", cfg.ordered)

	if err := bt.Run(ctx, bt.New(ctx, ctrl, theme)); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	if cfg.transcript != "" && ctrl.State() == sophia.StateLoggedIn {
		if err := sophiajson.Save(cfg.transcript, ctrl.Transcript()); err != nil {
			return fmt.Errorf("save transcript: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Transcript saved to %s\n", cfg.transcript)
	}
	return nil
}
