package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"learnmap/local-app/internal/cli"
	"learnmap/local-app/internal/config"
	"learnmap/local-app/internal/data"
	"learnmap/local-app/internal/event"
	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/model"
	"learnmap/local-app/internal/storage"
	"learnmap/local-app/internal/ui"
)

// options are the global flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	ephemeral  bool
}

// app holds the initialized components. close tears them down in reverse order.
type app struct {
	cfg     *model.Config
	logger  *log.Logger
	storage *storage.Storage
	store   *data.Store
	ui      *ui.UI
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	// Set up channel to receive interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(opts options) (*model.Config, error) {
	config.SetPath(opts.configPath)
	if err := config.ConfigLoad(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := *config.ConfigGet()

	if opts.logLevel != "" {
		if _, err := log.ParseLevel(opts.logLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = opts.logLevel
	}
	if opts.ephemeral {
		cfg.Storage.Driver = "memory"
	}
	return &cfg, nil
}

// bootstrap initializes the logger, storage, event manager, UI and roadmap store.
func bootstrap(ctx context.Context, opts options) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := log.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info(ctx, "Application started", log.Fields{
		"driver":    cfg.Storage.Driver,
		"key":       cfg.Storage.Key,
		"log_level": cfg.Log.Level,
	})

	store, err := storage.NewStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize storage", log.Fields{"error": err})
		logger.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info(ctx, "Storage initialized", nil)

	events := event.NewEventManager(logger)
	events.SubscribeAll(func(e event.Event) {
		logger.Debug(ctx, "Roadmap changed", log.Fields{
			"event":      e.Type.String(),
			"subject":    e.Subject,
			"milestones": len(e.Snapshot.Milestones),
		})
	})

	u := ui.NewUI(os.Stdout, ui.ColorEnabled(cfg.UI.Color, os.Stdout), ui.LayoutFor(ui.TerminalWidth(os.Stdout)))

	roadmaps, err := data.NewStore(ctx, data.Deps{
		Storage:  store,
		Events:   events,
		Notifier: u,
		Logger:   logger,
		Strict:   cfg.Import.Strict,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize roadmap store", log.Fields{"error": err})
		store.Close()
		logger.Close()
		return nil, fmt.Errorf("failed to initialize roadmap store: %w", err)
	}
	logger.Info(ctx, "Roadmap store initialized", nil)

	return &app{cfg: cfg, logger: logger, storage: store, store: roadmaps, ui: u}, nil
}

func (a *app) close() {
	ctx := context.Background()
	if err := a.store.Close(ctx); err != nil {
		a.logger.Error(ctx, "Failed to close roadmap store", log.Fields{"error": err})
	}
	if err := a.storage.Close(); err != nil {
		a.logger.Error(ctx, "Failed to close storage", log.Fields{"error": err})
	}
	a.logger.Info(ctx, "Application shutting down", nil)
	if err := a.logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close logger: %v\n", err)
	}
}

// runShell starts the interactive shell and blocks until it exits.
func runShell(opts options) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	rl, err := cli.NewReadline(a.cfg.UI.HistoryFile)
	if err != nil {
		a.logger.Error(ctx, "Failed to initialize line editor", log.Fields{"error": err})
		return fmt.Errorf("failed to initialize line editor: %w", err)
	}
	closeEditor := sync.OnceFunc(func() { rl.Close() })
	defer closeEditor()

	// Closing the line editor unblocks a pending Readline on shutdown
	go func() {
		<-ctx.Done()
		closeEditor()
	}()

	shell := cli.NewCLI(a.store, a.ui, rl, a.cfg, a.logger)
	a.ui.Info("Type 'help' for a list of commands.")
	if err := shell.Loop(ctx); err != nil {
		a.logger.Error(ctx, "CLI error", log.Fields{"error": err})
		return fmt.Errorf("CLI error: %w", err)
	}

	if ctx.Err() != nil {
		a.logger.Info(context.Background(), "Received interrupt signal. Shutting down...", nil)
	}
	a.ui.Println("Goodbye!")
	return nil
}

// runOnce bootstraps the application for a single non-interactive command.
func runOnce(opts options, fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	if err := fn(ctx, a); err != nil {
		a.logger.Error(ctx, "Command failed", log.Fields{"error": err})
		return err
	}
	return nil
}
