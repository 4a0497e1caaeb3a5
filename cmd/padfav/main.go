package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/padfav/padfav/internal/config"
	"github.com/padfav/padfav/internal/i18n"
	"github.com/padfav/padfav/internal/kv"
	"github.com/padfav/padfav/internal/logging"
	"github.com/padfav/padfav/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return true
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

func main() {
	// Handle --help/--version before opening storage (no backend needed).
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	env, err := buildEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer env.store.Close()

	app := newCLIApp(env)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// buildEnv loads the config and opens the storage the commands run against.
func buildEnv() (*cliEnv, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, ".padfav")

	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// base_dir moves the data, never the config file itself.
	dataDir := baseDir
	if cfg.BaseDir != "" {
		dataDir = cfg.BaseDir
	}

	log := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	backend, err := kv.Open(cfg.Backend, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage backend: %w", err)
	}

	st, err := store.New(store.Options{
		Backend:          backend,
		Key:              cfg.StorageKey,
		Logger:           log,
		TTL:              time.Duration(cfg.CacheTTLMinutes) * time.Minute,
		ExportsDir:       kv.ExportsDir(dataDir),
		AllowedPaths:     cfg.AllowedPaths,
		AllowUnsafePaths: cfg.AllowUnsafePaths,
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	catalog, err := i18n.New(cfg.Language)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &cliEnv{
		store:   st,
		catalog: catalog,
		cfg:     cfg,
		log:     log,
		dataDir: dataDir,
	}, nil
}
