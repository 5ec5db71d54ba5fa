// Package bootstrap prepares process-wide infrastructure before the bot starts.
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	coreconfig "github.com/m3rciful/subbot/core/config"
	"github.com/m3rciful/subbot/core/logger"
)

type Options struct {
	Config *coreconfig.Config
	// LoggerInit defaults to logger.InitLogger.
	LoggerInit func(*coreconfig.Config) error
}

type Result struct {
	StartedAt time.Time
}

// Run sets up logging. All bot state is in memory, so there are no stores to
// open here.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("bootstrap: nil config")
	}
	initLogger := opts.LoggerInit
	if initLogger == nil {
		initLogger = logger.InitLogger
	}
	if err := initLogger(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: init logger: %w", err)
	}
	return &Result{StartedAt: time.Now()}, nil
}
