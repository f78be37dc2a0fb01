// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package log

import (
	"strings"

	"github.com/rs/zerolog"
)

type Level int

const (
	LevelNone  Level = iota // No logging at all
	LevelError              // Log only ERROR messages
	LevelWarn               // Log ERROR and WARN messages
	LevelInfo               // Log ERROR, WARN, and INFO messages
	LevelDebug              // Log ERROR, WARN, INFO, and DEBUG messages
	LevelTrace              // Log ERROR, WARN, INFO, DEBUG, and TRACE messages
)

func LevelNamed(name string) (Level, bool) {
	switch strings.ToUpper(name) {
	case "NONE", "OFF":
		return LevelNone, true
	case "ERROR":
		return LevelError, true
	case "WARN":
		return LevelWarn, true
	case "INFO":
		return LevelInfo, true
	case "DEBUG":
		return LevelDebug, true
	case "TRACE":
		return LevelTrace, true
	default:
		return LevelNone, false
	}
}

// Zerolog returns the zerolog level equivalent to l.
func (l Level) Zerolog() zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.Disabled
	}
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "none"
	}
}
