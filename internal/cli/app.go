package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Joseda-hg/taskminder/internal/config"
	"github.com/Joseda-hg/taskminder/internal/db"
	"github.com/Joseda-hg/taskminder/internal/logging"
	"github.com/Joseda-hg/taskminder/internal/persist"
	"github.com/Joseda-hg/taskminder/internal/storage"
	"github.com/Joseda-hg/taskminder/internal/storage/bolt"
	"github.com/Joseda-hg/taskminder/internal/store"
	"github.com/charmbracelet/log"
)

type globalFlags struct {
	configPath string
	storePath  string
	backend    string
	port       int
	logLevel   string
	web        bool
	webOnly    bool
}

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg      config.Config
	logger   *log.Logger
	kv       storage.KV
	adapter  *persist.Adapter
	store    *store.Store
	closeLog func() error
}

// openApp resolves configuration (defaults, file, environment, flags), opens
// the configured backend and loads the task collection. interactive routes
// logs to a file so they stay off the terminal UI.
func openApp(ctx context.Context, flags *globalFlags, stderr io.Writer, interactive bool) (*app, error) {
	cfgPath := flags.configPath
	if cfgPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		cfgPath = path
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		if err := config.Save(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	applyFlags(&cfg, flags)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logFile := cfg.LogFile
	if logFile == "" && interactive {
		path, err := config.DefaultLogPath()
		if err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
		logFile = path
	}
	if logFile != "" {
		if err := config.EnsureDir(logFile); err != nil {
			return nil, err
		}
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   logFile,
		Writer: stderr,
	})
	if err != nil {
		return nil, err
	}

	if cfg.StorePath == "" {
		path, err := config.DefaultStorePath(cfg.Backend)
		if err != nil {
			_ = closeLog()
			return nil, fmt.Errorf("resolve store path: %w", err)
		}
		cfg.StorePath = path
	}
	kv, err := openKV(cfg.Backend, cfg.StorePath)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	fallback, err := persist.ParseFallback(cfg.Fallback)
	if err != nil {
		_ = kv.Close()
		_ = closeLog()
		return nil, err
	}
	adapter := persist.NewAdapter(kv,
		persist.WithKey(cfg.StorageKey),
		persist.WithFallback(fallback),
		persist.WithLogger(logger),
	)
	tasks := adapter.Load(ctx)
	logger.Debug("opened task store", "backend", cfg.Backend, "path", cfg.StorePath, "tasks", len(tasks))

	return &app{
		cfg:      cfg,
		logger:   logger,
		kv:       kv,
		adapter:  adapter,
		store:    store.New(tasks, store.WithSaver(adapter), store.WithLogger(logger)),
		closeLog: closeLog,
	}, nil
}

func applyFlags(cfg *config.Config, flags *globalFlags) {
	if flags.storePath != "" {
		cfg.StorePath = flags.storePath
	}
	if flags.backend != "" {
		cfg.Backend = strings.ToLower(flags.backend)
	}
	if flags.port != 0 {
		cfg.WebPort = flags.port
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.web || flags.webOnly {
		cfg.WebEnabled = true
	}
}

func openKV(backend, path string) (storage.KV, error) {
	if err := config.EnsureDir(path); err != nil {
		return nil, err
	}
	switch backend {
	case config.BackendBolt:
		return bolt.Open(path)
	default:
		sqlDB, err := db.Open(path)
		if err != nil {
			return nil, err
		}
		return db.NewStore(sqlDB), nil
	}
}

func (a *app) Close() error {
	err := a.kv.Close()
	if closeErr := a.closeLog(); err == nil {
		err = closeErr
	}
	return err
}
