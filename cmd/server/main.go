// Package main is the entry point for the midi2hex API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jacksmedia/midi2hex/pkg/api"
	"github.com/jacksmedia/midi2hex/pkg/config"
	"github.com/jacksmedia/midi2hex/pkg/logger"
	"go.uber.org/zap"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	cfg := config.Load()

	port := flag.String("port", cfg.Port, "Server port")
	flag.Parse()
	cfg.Port = *port

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	flush, err := api.InitSentry(cfg, releaseVersion)
	if err != nil {
		log.Warn("Sentry disabled", zap.Error(err))
	} else if cfg.SentryDSN == "" {
		log.Info("Sentry not configured (SENTRY_DSN not set)")
	}
	defer flush()

	log.Info("Starting midi2hex API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("engine", cfg.Engine),
		zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
	)

	if err := api.StartServer(cfg, log); err != nil {
		log.Error("Server error", zap.Error(err))
		flush()
		os.Exit(1)
	}
}
