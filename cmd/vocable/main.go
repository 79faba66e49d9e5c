// Vocable assistant core — entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/matiasleandrokruk/vocable/internal/api"
	"github.com/matiasleandrokruk/vocable/internal/domain/chat"
	"github.com/matiasleandrokruk/vocable/internal/domain/history"
	"github.com/matiasleandrokruk/vocable/internal/domain/predict"
	"github.com/matiasleandrokruk/vocable/internal/infra/aiconfig"
	"github.com/matiasleandrokruk/vocable/internal/infra/config"
	"github.com/matiasleandrokruk/vocable/internal/infra/eventbus"
	"github.com/matiasleandrokruk/vocable/internal/infra/lexicon"
	"github.com/matiasleandrokruk/vocable/internal/infra/metrics"
	"github.com/matiasleandrokruk/vocable/internal/infra/provider"
	"github.com/matiasleandrokruk/vocable/internal/infra/sqlite"
	"github.com/matiasleandrokruk/vocable/internal/server"
	"github.com/matiasleandrokruk/vocable/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("vocable", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	if fs.Arg(0) == "serve" {
		if err := serve(); err != nil {
			fmt.Fprintf(out, "vocable: %v\n", err) //nolint:errcheck
			return 1
		}
		return 0
	}

	// Default: print version
	fmt.Fprintln(out, version.String()) //nolint:errcheck
	return 0
}

// serve wires the whole assistant core and blocks until SIGINT/SIGTERM.
func serve() error {
	// Optional .env for local runs; real deployments set the environment.
	godotenv.Load() //nolint:errcheck

	cfg := config.Load()

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if err := sqlite.MigrateUp(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store := aiconfig.NewStore(db)
	if err := store.Load(context.Background()); err != nil {
		return fmt.Errorf("load routing config: %w", err)
	}

	// Missing or corrupt lexicon data is the one fatal startup condition:
	// without it the never-empty suggestion guarantee cannot hold.
	lex, err := lexicon.Load(cfg.DefaultLocale, cfg.LexiconDir, log)
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.LexiconDir != "" {
		watcher, werr := lexicon.NewWatcher(lex, cfg.LexiconDir, log)
		if werr != nil {
			log.Warn("lexicon watcher unavailable", zap.Error(werr))
		} else if serr := watcher.Start(gctx); serr != nil {
			log.Warn("lexicon watcher failed to start", zap.Error(serr))
		} else {
			defer watcher.Stop()
		}
	}

	bus := eventbus.New()
	metrics.RegisterDroppedEventsGauge(bus.Dropped)

	idx := history.NewIndex(log)
	consumer := history.NewConsumer(idx, bus, log)
	g.Go(func() error {
		consumer.Start(gctx)
		return nil
	})

	decay := cron.New()
	if _, cerr := decay.AddFunc(cfg.DecaySchedule, func() {
		idx.Decay(history.DefaultDecayFactor)
	}); cerr != nil {
		return fmt.Errorf("schedule history decay: %w", cerr)
	}
	decay.Start()
	defer func() { <-decay.Stop().Done() }()

	router := provider.NewRouter(store, cfg.CompletionTimeout, log)
	engine := predict.NewEngine(lex, idx, router, cfg.PredictAITimeout, log)
	chatSvc := chat.NewService(router, log)

	handler := api.NewRouter(api.Deps{
		Engine:       engine,
		Chat:         chatSvc,
		Settings:     store,
		Bus:          bus,
		AdminKeyHash: cfg.AdminKeyHash,
	})

	srvCfg := server.DefaultConfig()
	srvCfg.Addr = cfg.HTTPAddr
	srv := server.NewServer(handler, srvCfg, log)

	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	log.Info("vocable ready",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("default_locale", cfg.DefaultLocale),
		zap.Int64("routing_config_version", store.Version()),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newLogger builds the production zap logger at the configured level.
// Unknown level strings keep the production default (info).
func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}

func printHelp(out io.Writer) {
	helpText := `Vocable - assistive communication core

Usage:
  vocable [options] [command]

Options:
  --version    Show version information
  --help       Show this help message

Commands:
  serve        Start the assistant core server

Examples:
  vocable --version
  vocable serve`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
