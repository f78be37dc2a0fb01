// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v2"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/DataDog/cflow/internal/cmd"
	"github.com/DataDog/cflow/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var (
		logFile *os.File
		tracing bool
	)

	return &cli.App{
		Name:        "cflow",
		Usage:       "Inspect, evaluate and generate control-flow pointcuts",
		Version:     version.Tag(),
		HideVersion: true,
		Flags: append(slices.Clone(logFlags),
			&cli.BoolFlag{
				Name:    "trace",
				Usage:   "send traces of cflow commands to the Datadog agent",
				EnvVars: []string{"CFLOW_TRACE"},
				Hidden:  true,
			},
		),
		Before: func(c *cli.Context) error {
			logger, file, err := newLogger(c)
			if err != nil {
				return err
			}
			logFile = file
			c.Context = logger.WithContext(c.Context)

			if c.Bool("trace") {
				tracer.Start(tracer.WithService("cflow"), tracer.WithServiceVersion(version.Tag()))
				tracing = true
			}
			return nil
		},
		After: func(*cli.Context) error {
			if tracing {
				tracer.Stop()
			}
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmd.Lint,
			cmd.Match,
			cmd.Generate,
			cmd.Version,
		},
	}
}
