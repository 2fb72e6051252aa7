package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskstar/taskstar/internal/client"
	"github.com/taskstar/taskstar/internal/config"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/identity"
	"github.com/taskstar/taskstar/internal/scheduler"
	"github.com/taskstar/taskstar/internal/taskfile"
)

// getClient creates a client from the resolved config and identity
func getClient() (*client.Client, *config.ResolvedConfig, error) {
	cfg, err := config.ResolveConfig()
	if err != nil {
		return nil, nil, err
	}

	c := client.NewClient(cfg.ServerHost, cfg.ServerPort, cfg.Project, identity.Generate())
	return c, cfg, nil
}

// mapErrorToExitCode maps an error to the appropriate exit code
func mapErrorToExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, client.ErrServerNotRunning) {
		return ExitServerNotRunning
	}
	if errors.Is(err, config.ErrNoProjectConfig) {
		return ExitProjectNotConfigured
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeTaskNotFound, domain.ErrCodeScheduleNotFound, domain.ErrCodeDependencyNotFound:
			return ExitNotFound
		case domain.ErrCodeProjectNotFound:
			return ExitProjectNotConfigured
		case domain.ErrCodeDuplicateName:
			return ExitConflict
		case domain.ErrCodeCycleDetected, domain.ErrCodeValidationFailed, domain.ErrCodeUnknownDependency:
			return ExitInvalid
		default:
			return ExitGeneralError
		}
	}

	// Offline planning reports scheduler and task file errors directly
	var unknownDep *scheduler.UnknownDependencyError
	switch {
	case errors.Is(err, scheduler.ErrScheduleImpossible),
		errors.Is(err, scheduler.ErrInvalidTask),
		errors.Is(err, scheduler.ErrNoTasks),
		errors.Is(err, scheduler.ErrInvalidWorkers),
		errors.Is(err, scheduler.ErrInvalidBudget),
		errors.Is(err, scheduler.ErrUnknownAlgorithm),
		errors.As(err, &unknownDep),
		errors.Is(err, taskfile.ErrUnknownFormat):
		return ExitInvalid
	}

	return ExitGeneralError
}

// handleError handles an error by printing it and exiting with the appropriate code
func handleError(err error) {
	if err == nil {
		return
	}

	printError(os.Stderr, err, jsonOutput)
	os.Exit(mapErrorToExitCode(err))
}

// taskstarDir returns ~/.taskstar, creating it if needed.
func taskstarDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, config.GlobalConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create taskstar directory: %w", err)
	}
	return dir, nil
}

// pidFilePath returns the path to the server PID file
func pidFilePath() (string, error) {
	dir, err := taskstarDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taskstar.pid"), nil
}
