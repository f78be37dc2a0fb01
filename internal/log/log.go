// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package log builds the loggers used by the cflow command.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New returns a logger writing to w at the given level. If console is true,
// messages are rendered for humans rather than as JSON. The zerolog global
// level is lowered to level if needed.
func New(w io.Writer, level Level, console bool) zerolog.Logger {
	if level == LevelNone {
		return zerolog.Nop()
	}
	if zl := level.Zerolog(); zl < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(zl)
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !IsTerminal(w)}
	}
	return zerolog.New(w).Level(level.Zerolog()).With().Timestamp().Logger()
}

// IsTerminal returns true if w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
