// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/DataDog/cflow/internal/config"
)

var Generate = &cli.Command{
	Name:      "generate",
	Usage:     "Generate Go declarations for the pointcuts of a configuration file.",
	UsageText: "cflow generate --package NAME [--output FILE] FILE",
	Args:      true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "package",
			Aliases:  []string{"p"},
			Usage:    "the name of the generated package",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the generated code to this file instead of the standard output",
		},
	},
	Action: func(clictx *cli.Context) (err error) {
		span, ctx := startSpan(clictx, "generate")
		defer func() { span.Finish(tracer.WithError(err)) }()

		if clictx.NArg() != 1 {
			return cli.Exit("generate: exactly one configuration file is required", 2)
		}

		file, err := config.Load(ctx, clictx.Args().First(), true)
		if err != nil {
			return err
		}

		output := clictx.String("output")
		if output == "" {
			return file.Generate(clictx.String("package"), clictx.App.Writer)
		}

		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, f.Close()) }()

		if err := file.Generate(clictx.String("package"), f); err != nil {
			return fmt.Errorf("generating %s: %w", output, err)
		}
		zerolog.Ctx(ctx).Info().Str("file", output).Int("count", len(file.Pointcuts)).Msg("generated pointcut declarations")
		return nil
	},
}
