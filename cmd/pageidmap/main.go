// cmd/pageidmap/main.go
//
// pageidmap - Confluence page id to URL mapper, CLI entry point.
//
// Run life-cycle
// --------------
//
//  1. Load env vars (system-wide file, then .env fallback).
//
//  2. Parse flags; --generate-config and --version exit early.
//
//  3. Merge defaults, config file, PAGEIDMAP_* env, and flags into one
//     validated Config.  Configuration errors exit 2 before any input is
//     touched.
//
//  4. Start the logger (stderr console, optional rotating JSON file) and
//     tag it with a run id.
//
//  5. Run the pipeline under a context cancelled by SIGINT/SIGTERM.
//
// Exit codes: 0 ok, 1 input or runtime failure, 2 configuration error,
// 3 no mappings generated, 130 interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/yanizio/pageidmap/internal/app"
	"github.com/yanizio/pageidmap/internal/config"
	"github.com/yanizio/pageidmap/internal/format"
	"github.com/yanizio/pageidmap/internal/logger"
	"github.com/yanizio/pageidmap/internal/source"
)

// Set with -ldflags at build time.
var version = "dev"

const serverEnvPath = "/usr/local/etc/pageidmap/pageidmap.env"

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfig      = 2
	exitNoMappings  = 3
	exitInterrupted = 130
)

// loadEnv prefers the system-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

func main() {
	loadEnv()
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fl, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfig
	}

	switch {
	case fl.version:
		fmt.Println("pageidmap", version)
		return exitOK
	case fl.generateConfig:
		out, err := config.GenerateDefault()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitFailure
		}
		fmt.Print(out)
		return exitOK
	}

	var dbErr error
	cfg, err := config.Load(fl.configPath, func(c *config.Config) {
		dbErr = fl.apply(c)
	})
	if err == nil {
		err = dbErr
	}
	if err != nil {
		if !fl.silent {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return exitConfig
	}

	log, err := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: cfg.Processing.Verbose,
		Silent:  cfg.Processing.Silent,
	})
	if err != nil {
		if !cfg.Processing.Silent {
			fmt.Fprintf(os.Stderr, "Error: start logger: %v\n", err)
		}
		return exitFailure
	}
	log = log.With("run", uuid.NewString())
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := (&app.App{Cfg: cfg, Log: log}).Run(ctx)
	switch {
	case runErr == nil:
		return exitOK
	case errors.Is(runErr, format.ErrNoMappings):
		return exitNoMappings
	case errors.Is(runErr, context.Canceled) || ctx.Err() != nil:
		log.Warnw("Operation cancelled by user")
		return exitInterrupted
	case isConfigError(runErr):
		log.Errorw("configuration error", "err", runErr)
		return exitConfig
	default:
		log.Errorw("Fatal error", "err", runErr)
		return exitFailure
	}
}

func isConfigError(err error) bool {
	for _, target := range []error{
		config.ErrInvalid,
		config.ErrNoSource,
		format.ErrTargetDomainRequired,
		format.ErrUnknownFormat,
		source.ErrNoSpaces,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
