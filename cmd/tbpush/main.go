package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tbpush/tbpush/internal/config"
	"github.com/tbpush/tbpush/internal/engine"
	"github.com/tbpush/tbpush/internal/metrics"
	"github.com/tbpush/tbpush/internal/payload"
	"github.com/tbpush/tbpush/internal/publisher"
	"github.com/tbpush/tbpush/internal/telemetry"
)

const version = "1.0.0"

// Exit codes: 0 clean run, 1 run completed with failed rounds, 2 startup
// failure before any publish attempt. Scripts rely on 1 vs 2 to tell "ran
// badly" from "never ran".
const (
	exitOK      = 0
	exitRounds  = 1
	exitStartup = 2
)

func main() { os.Exit(run()) }

func run() int {
	var (
		interval    int
		count       int
		file        string
		configPath  string
		envelope    bool
		watch       bool
		metricsFile string
		showVersion bool
	)
	flag.IntVar(&interval, "interval", 5, "seconds to wait between rounds")
	flag.IntVar(&interval, "i", 5, "shorthand for -interval")
	flag.IntVar(&count, "count", 1, "number of rounds to send, 0 = unbounded")
	flag.IntVar(&count, "c", 1, "shorthand for -count")
	flag.StringVar(&file, "file", "data.json", "path to the JSON payload file")
	flag.StringVar(&file, "f", "data.json", "shorthand for -file")
	flag.StringVar(&configPath, "config", "tbpush.yaml", "path to the optional config file")
	flag.BoolVar(&envelope, "envelope", false, "wrap the payload in the ThingsBoard ts/values envelope")
	flag.BoolVar(&watch, "watch", false, "hot-reload the payload file when it changes")
	flag.StringVar(&metricsFile, "metrics-file", "", "write the final summary in Prometheus text format to this path")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&showVersion, "V", false, "shorthand for -version")
	flag.Parse()

	if showVersion {
		fmt.Println("tbpush " + version)
		return exitOK
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if interval < 0 {
		slog.Error("interval must be >= 0", "interval", interval)
		return exitStartup
	}
	if count < 0 {
		slog.Error("count must be >= 0", "count", count)
		return exitStartup
	}

	ep, err := config.Resolve(configPath)
	if err != nil {
		slog.Error("failed to resolve endpoint config", "err", err)
		return exitStartup
	}
	slog.Info("endpoint resolved",
		"server", ep.Server,
		"device_token", tokenPrefix(ep.DeviceToken),
	)

	doc, err := payload.Load(file)
	if err != nil {
		slog.Error("failed to load payload", "err", err)
		return exitStartup
	}
	slog.Info("payload loaded", "file", file, "bytes", len(doc.Bytes()))
	if key := doc.RandomKey(); key != "" {
		slog.Info("random field enabled", "key", key)
	}

	if envelope {
		// Fail before the first round, not during it.
		if _, err := telemetry.Envelope(doc, time.Now()); err != nil {
			slog.Error("payload not usable in envelope mode", "err", err)
			return exitStartup
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var current atomic.Pointer[payload.Document]
	current.Store(doc)
	if watch {
		go func() {
			if err := payload.Watch(ctx, file, func(d *payload.Document) {
				current.Store(d)
			}); err != nil {
				slog.Error("payload watcher stopped", "err", err)
			}
		}()
	}

	pub := publisher.New(ep)
	sender := engine.SenderFunc(func(ctx context.Context) publisher.Result {
		d := current.Load()
		body := d.Bytes()
		if envelope {
			b, err := telemetry.Envelope(d, time.Now())
			if err != nil {
				// Only reachable when a watch reload swapped in a non-object
				// document; round-local like any other bad round.
				return publisher.Result{Detail: err.Error()}
			}
			body = b
		}
		return pub.Publish(ctx, body)
	})

	eng, err := engine.New(engine.Options{
		Plan:   engine.Plan{Interval: time.Duration(interval) * time.Second, Rounds: count},
		Sender: sender,
	})
	if err != nil {
		slog.Error("invalid run plan", "err", err)
		return exitStartup
	}

	slog.Info("starting send loop",
		"interval_seconds", interval,
		"rounds", count,
		"unbounded", count == 0,
	)
	sum := eng.Run(ctx)

	if metricsFile != "" {
		if err := writeMetrics(metricsFile, sum); err != nil {
			slog.Error("failed to write metrics file", "path", metricsFile, "err", err)
		}
	}

	if sum.Failed > 0 {
		return exitRounds
	}
	return exitOK
}

// writeMetrics dumps the summary to path in Prometheus text format.
func writeMetrics(path string, sum engine.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := metrics.WriteSummary(f, sum, time.Now()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// tokenPrefix returns the first few characters of the device token so logs
// identify the device without leaking the credential.
func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return token[:len(token)/2] + "..."
	}
	return token[:8] + "..."
}
