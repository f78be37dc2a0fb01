// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/DataDog/cflow/internal/config"
)

var Lint = &cli.Command{
	Name:      "lint",
	Usage:     "Validate pointcut configuration files and report equivalent declarations.",
	UsageText: "cflow lint FILE...",
	Args:      true,
	Action: func(clictx *cli.Context) (err error) {
		span, ctx := startSpan(clictx, "lint")
		defer func() { span.Finish(tracer.WithError(err)) }()

		if clictx.NArg() == 0 {
			return cli.Exit("lint: at least one configuration file is required", 2)
		}

		out := clictx.App.Writer
		style := stylesFor(out)
		log := zerolog.Ctx(ctx)

		var failed int
		for _, path := range clictx.Args().Slice() {
			file, err := config.Load(ctx, path, true)
			if err != nil {
				failed++
				log.Debug().Err(err).Str("file", path).Msg("invalid configuration file")
				_, _ = fmt.Fprintf(out, "%s %v\n", style.fail.Render("error:"), err)
				continue
			}

			_, _ = fmt.Fprintf(out, "%s: %d pointcuts\n", path, len(file.Pointcuts))
			for _, decl := range file.Pointcuts {
				_, _ = fmt.Fprintf(out, "  - %s: %s\n", style.name.Render(decl.Name), decl.Pointcut)
				if decl.Description != "" {
					_, _ = fmt.Fprintf(out, "      %s\n", decl.Description)
				}
			}

			dups, err := file.Duplicates()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, dup := range dups {
				_, _ = fmt.Fprintf(out, "  %s %q and %q declare the same pointcut\n", style.warn.Render("warning:"), dup.First.Name, dup.Second.Name)
			}
		}

		if failed > 0 {
			return cli.Exit(fmt.Sprintf("lint: %d invalid configuration file(s)", failed), 1)
		}
		return nil
	},
}
