package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/sophia"
	sophiahttp "github.com/fwojciec/sophia/http"
	"github.com/fwojciec/sophia/simulated"
	"golang.org/x/time/rate"
)

const (
	backendHTTP      = "http"
	backendSimulated = "simulated"

	defaultURL = "http://localhost:8000"
)

// config is the validated configuration of a run.
type config struct {
	backend    string
	url        string
	timeout    time.Duration
	rate       float64
	delay      time.Duration
	retain     bool
	ordered    bool
	logPath    string
	transcript string
	replay     string
}

// resolveConfig merges flag values with environment values and validates
// the result. Flags win over the environment. Environment values are passed
// in as parameters; env is only read in main().
func resolveConfig(flags config, envBackend, envURL string) (config, error) {
	cfg := flags
	cfg.backend = firstNonEmpty(flags.backend, envBackend, backendHTTP)
	cfg.url = firstNonEmpty(flags.url, envURL, defaultURL)
	switch cfg.backend {
	case backendHTTP:
		u, err := url.Parse(cfg.url)
		if err != nil {
			return config{}, fmt.Errorf("invalid backend url %q: %w", cfg.url, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return config{}, fmt.Errorf("invalid backend url %q: must be an absolute http(s) URL", cfg.url)
		}
	case backendSimulated:
	default:
		return config{}, fmt.Errorf("unknown backend %q: must be %q or %q", cfg.backend, backendHTTP, backendSimulated)
	}
	if cfg.timeout < 0 {
		return config{}, fmt.Errorf("timeout must not be negative: %s", cfg.timeout)
	}
	if cfg.rate < 0 {
		return config{}, fmt.Errorf("rate must not be negative: %g", cfg.rate)
	}
	if cfg.delay < 0 {
		return config{}, fmt.Errorf("delay must not be negative: %s", cfg.delay)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// newClient constructs the configured ChatClient.
func newClient(cfg config) sophia.ChatClient {
	if cfg.backend == backendSimulated {
		return simulated.New(simulated.WithDelay(cfg.delay))
	}
	opts := []sophiahttp.Option{sophiahttp.WithTimeout(cfg.timeout)}
	if cfg.rate > 0 {
		opts = append(opts, sophiahttp.WithRateLimit(rate.Limit(cfg.rate), 1))
	}
	return sophiahttp.New(cfg.url, opts...)
}

// controllerOptions maps cfg onto Controller options.
func controllerOptions(cfg config, logger *slog.Logger) []sophia.Option {
	opts := []sophia.Option{sophia.WithLogger(logger)}
	if cfg.retain {
		opts = append(opts, sophia.WithHistoryPolicy(sophia.HistoryRetain))
	}
	if cfg.ordered {
		opts = append(opts, sophia.WithOrderedReplies())
	}
	return opts
}

// openLog returns a JSON logger writing to path, appending to any existing
// file. An empty path discards all records.
func openLog(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), f, nil
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".sophia", "sophia.log")
}
