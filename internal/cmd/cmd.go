// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package cmd contains the commands of the cflow command line tool.
package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/DataDog/cflow/internal/log"
)

// startSpan opens the span tracing a command. It is a no-op unless a tracer
// was started.
func startSpan(clictx *cli.Context, name string) (ddtrace.Span, context.Context) {
	return tracer.StartSpanFromContext(clictx.Context, name,
		tracer.ResourceName(strings.Join(clictx.Args().Slice(), " ")),
	)
}

type styles struct {
	ok   lipgloss.Style
	fail lipgloss.Style
	warn lipgloss.Style
	name lipgloss.Style
}

// stylesFor returns the output styles for w. Output is left undecorated
// unless w is a terminal.
func stylesFor(w io.Writer) styles {
	s := styles{
		ok:   lipgloss.NewStyle(),
		fail: lipgloss.NewStyle(),
		warn: lipgloss.NewStyle(),
		name: lipgloss.NewStyle(),
	}
	if log.IsTerminal(w) {
		s.ok = s.ok.Foreground(lipgloss.ANSIColor(2)).Bold(true)
		s.fail = s.fail.Foreground(lipgloss.ANSIColor(1)).Bold(true)
		s.warn = s.warn.Foreground(lipgloss.ANSIColor(3)).Bold(true)
		s.name = s.name.Foreground(lipgloss.ANSIColor(4))
	}
	return s
}
