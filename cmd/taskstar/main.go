// Command taskstar runs the taskstar scheduling server.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/taskstar/taskstar/internal/config"
	"github.com/taskstar/taskstar/internal/logger"
	"github.com/taskstar/taskstar/internal/server"
	"github.com/taskstar/taskstar/internal/store"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "taskstar: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	manager, err := store.NewManager(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer manager.Close()

	log.Info("starting taskstar server",
		zap.String("bind", cfg.Bind),
		zap.String("data_dir", cfg.DataDir),
	)

	return server.New(cfg.Bind, manager, log).ListenAndServe(ctx)
}
