// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/DataDog/cflow/internal/config"
	"github.com/DataDog/cflow/pointcut"
	"github.com/DataDog/cflow/pointcut/callstack"
	"github.com/DataDog/cflow/pointcut/cflow"
	"github.com/DataDog/cflow/pointcut/cflow/cflowmetrics"
)

var Match = &cli.Command{
	Name:      "match",
	Usage:     "Evaluate pointcuts against the goroutines of a traceback.",
	UsageText: "cflow match --config FILE [--goroutine ID] [--metrics] DUMP",
	Description: "DUMP is a goroutine dump, as printed by a panic, runtime/debug.Stack, or a SIGQUIT. " +
		"Use - to read it from the standard input.",
	Args: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "the pointcut configuration file",
			EnvVars:  []string{"CFLOW_CONFIG"},
			Required: true,
		},
		&cli.IntFlag{
			Name:    "goroutine",
			Aliases: []string{"g"},
			Usage:   "only evaluate the goroutine with this ID",
		},
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "print the evaluation counters of control-flow pointcuts in the Prometheus text format",
		},
	},
	Action: func(clictx *cli.Context) (err error) {
		span, ctx := startSpan(clictx, "match")
		defer func() { span.Finish(tracer.WithError(err)) }()

		if clictx.NArg() != 1 {
			return cli.Exit("match: exactly one traceback file is required", 2)
		}

		file, err := config.Load(ctx, clictx.String("config"), true)
		if err != nil {
			return err
		}

		goroutines, err := readTraceback(ctx, clictx, clictx.Args().First())
		if err != nil {
			return err
		}
		if id := clictx.Int("goroutine"); id != 0 {
			goroutines = filterGoroutine(goroutines, id)
			if len(goroutines) == 0 {
				return fmt.Errorf("match: goroutine %d not found", id)
			}
		}

		var collector *cflowmetrics.Collector
		if clictx.Bool("metrics") {
			collector = cflowmetrics.NewCollector("")
			for _, decl := range file.Pointcuts {
				if pc, ok := decl.Pointcut.(*cflow.Pointcut); ok {
					if err := collector.Register(decl.Name, pc); err != nil {
						return err
					}
				}
			}
		}

		out := clictx.App.Writer
		style := stylesFor(out)

		var matches int
		for _, g := range goroutines {
			_, _ = fmt.Fprintf(out, "goroutine %d [%s]:\n", g.ID, g.State)
			for _, decl := range file.Pointcuts {
				if !evaluate(decl.Pointcut, g.Frames) {
					_, _ = fmt.Fprintf(out, "  %s %s\n", style.fail.Render("✗"), decl.Name)
					continue
				}
				matches++
				_, _ = fmt.Fprintf(out, "  %s %s\n", style.ok.Render("✓"), style.name.Render(decl.Name))
			}
		}
		_, _ = fmt.Fprintf(out, "%d goroutines, %d matches\n", len(goroutines), matches)

		if collector != nil {
			return writeMetrics(out, collector)
		}
		return nil
	},
}

func readTraceback(ctx context.Context, clictx *cli.Context, path string) ([]callstack.Goroutine, error) {
	var r io.Reader
	if path == "-" {
		r = clictx.App.Reader
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}

	goroutines, err := callstack.ParseTraceback(r)
	if err != nil {
		if len(goroutines) == 0 {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", path).Msg("some goroutines could not be parsed")
	}
	if len(goroutines) == 0 {
		return nil, fmt.Errorf("%s: %w", path, errNoGoroutine)
	}
	return goroutines, nil
}

var errNoGoroutine = errors.New("no goroutine found")

func filterGoroutine(goroutines []callstack.Goroutine, id int) []callstack.Goroutine {
	for _, g := range goroutines {
		if g.ID == id {
			return []callstack.Goroutine{g}
		}
	}
	return nil
}

type stackMatcher interface {
	MatchesStack(callstack.Source) bool
}

// evaluate checks pc against a captured stack. Pointcuts that cannot inspect
// an explicit stack are applied to the innermost frame as the join point.
func evaluate(pc pointcut.Pointcut, frames callstack.Frames) bool {
	method, target := joinPoint(frames)
	if m, ok := pc.(stackMatcher); ok {
		return pointcut.CanApply(pc, method, target) && m.MatchesStack(frames)
	}
	if len(frames) == 0 {
		return false
	}
	return pointcut.Applies(pc, method, target)
}

func joinPoint(frames callstack.Frames) (pointcut.Method, pointcut.TypeName) {
	if len(frames) == 0 {
		return pointcut.Method{}, pointcut.TypeName{}
	}
	top := frames[0]
	target := pointcut.TypeName{ImportPath: top.Package, Name: top.Receiver}
	if top.Receiver == "" {
		target = pointcut.TypeName{Name: top.Package}
	}
	return pointcut.Method{Receiver: target, Name: top.Function}, target
}

func writeMetrics(w io.Writer, collector prometheus.Collector) error {
	registry := prometheus.NewPedanticRegistry()
	if err := registry.Register(collector); err != nil {
		return err
	}
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}
