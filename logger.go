// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/DataDog/cflow/internal/log"
	"github.com/DataDog/cflow/internal/version"
)

var logFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "one of none, error, warn, info, debug, or trace",
		EnvVars: []string{"CFLOW_LOG_LEVEL"},
		Value:   log.LevelWarn.String(),
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "write JSON logs to this file instead of the standard error; $PID expands to the process ID",
		EnvVars: []string{"CFLOW_LOG_FILE"},
	},
}

// newLogger builds the logger configured by the log flags. The returned file,
// if not nil, must be closed once logging is done.
func newLogger(c *cli.Context) (zerolog.Logger, *os.File, error) {
	level, found := log.LevelNamed(c.String("log-level"))
	if !found {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level name %q", c.String("log-level"))
	}

	var (
		out            io.Writer = c.App.ErrWriter
		file           *os.File
		omitPidContext bool
	)
	if logFile := c.String("log-file"); logFile != "" {
		filename := os.Expand(logFile, func(name string) string {
			switch name {
			case "PID":
				omitPidContext = true
				return strconv.Itoa(os.Getpid())
			default:
				return "$" + name
			}
		})

		// Try to create the parent directory, but ignore errors, if any.
		_ = os.MkdirAll(filepath.Dir(filename), 0o755)

		var err error
		file, err = os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("unable to open log file %q: %w", logFile, err)
		}
		out = file
	}

	logger := log.New(out, level, file == nil)
	ctx := logger.With().Str("cflow", version.Tag())
	if !omitPidContext {
		ctx = ctx.Int("pid", os.Getpid())
	}
	return ctx.Logger(), file, nil
}
