// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/DataDog/cflow/pointcut"
	"github.com/DataDog/cflow/pointcut/cflow"
)

type unmarshalerFn func(context.Context, *yaml.Node) (pointcut.Pointcut, error)

var unmarshalers = make(map[string]unmarshalerFn)

// FromYAML decodes a pointcut from a singleton mapping whose key designates
// the kind of pointcut, and whose value holds its parameters.
func FromYAML(ctx context.Context, node *yaml.Node) (pointcut.Pointcut, error) {
	key, value, err := singleton(node)
	if err != nil {
		return nil, err
	}

	unmarshaler, found := unmarshalers[key]
	if !found {
		return nil, fmt.Errorf("line %d: unknown pointcut kind %q", node.Line, key)
	}

	return unmarshaler(ctx, value)
}

func singleton(node *yaml.Node) (key string, value *yaml.Node, err error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, fmt.Errorf("line %d: %w", node.Line, errNotSingleton)
	}
	if err := node.Content[0].Decode(&key); err != nil {
		return "", nil, err
	}
	return key, node.Content[1], nil
}

var errNotSingleton = errors.New("not a singleton mapping")

func init() {
	unmarshalers["control-flow"] = func(ctx context.Context, node *yaml.Node) (pointcut.Pointcut, error) {
		var params struct {
			Type   string  `yaml:"type"`
			Method *string `yaml:"method"`
		}
		if err := node.Decode(&params); err != nil {
			return nil, err
		}

		tn, err := pointcut.NewTypeName(params.Type)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}

		opts := []cflow.Option{cflow.WithLogger(*zerolog.Ctx(ctx))}
		if params.Method != nil {
			opts = append(opts, cflow.WithMethod(*params.Method))
		}
		return cflow.New(tn, opts...)
	}

	unmarshalers["always"] = func(_ context.Context, node *yaml.Node) (pointcut.Pointcut, error) {
		if node.Kind != yaml.MappingNode || len(node.Content) != 0 {
			return nil, fmt.Errorf("line %d: always takes no parameters", node.Line)
		}
		return pointcut.True, nil
	}
}
