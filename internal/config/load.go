// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type document struct {
	Extends   []string    `yaml:"extends"`
	Pointcuts []yaml.Node `yaml:"pointcuts"`
}

type declarationYML struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Pointcut    yaml.Node `yaml:"pointcut"`
}

// Load reads the configuration file at path, and the files it extends. When
// validate is true, every document is checked against the JSON schema before
// being interpreted.
func Load(ctx context.Context, path string, validate bool) (*File, error) {
	l := loader{validate: validate}
	file := &File{Path: path}
	if err := l.loadFile(ctx, file, path); err != nil {
		return nil, err
	}
	if err := checkUniqueNames(file.Pointcuts); err != nil {
		return nil, err
	}
	return file, nil
}

// Parse reads a single configuration document. It does not support extends.
func Parse(ctx context.Context, r io.Reader, validate bool) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	l := loader{validate: validate}
	doc, err := l.parse(data)
	if err != nil {
		return nil, err
	}
	if len(doc.Extends) > 0 {
		return nil, errors.New("extends is only supported when loading from a file")
	}

	file := &File{}
	if file.Pointcuts, err = declarations(ctx, "", doc.Pointcuts); err != nil {
		return nil, err
	}
	if err := checkUniqueNames(file.Pointcuts); err != nil {
		return nil, err
	}
	return file, nil
}

type loader struct {
	dedup    map[string]struct{}
	validate bool
}

// markLoaded returns true if the filename was already loaded; and marks it as
// loaded and returns false otherwise.
func (l *loader) markLoaded(filename string) bool {
	if _, found := l.dedup[filename]; found {
		return true
	}
	if l.dedup == nil {
		l.dedup = make(map[string]struct{})
	}
	l.dedup[filename] = struct{}{}
	return false
}

func (l *loader) loadFile(ctx context.Context, into *File, filename string) error {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	if l.markLoaded(abs) {
		// Already loaded, ignoring...
		return nil
	}

	log := zerolog.Ctx(ctx)
	log.Debug().Str("file", filename).Msg("loading pointcut declarations")

	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	doc, err := l.parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	dir := filepath.Dir(filename)
	for _, ext := range doc.Extends {
		if !filepath.IsAbs(ext) {
			ext = filepath.Join(dir, ext)
		}
		if err := l.loadFile(ctx, into, ext); err != nil {
			return fmt.Errorf("%s: extends: %w", filename, err)
		}
	}

	decls, err := declarations(ctx, filename, doc.Pointcuts)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	into.Pointcuts = append(into.Pointcuts, decls...)
	log.Debug().Str("file", filename).Int("count", len(decls)).Msg("loaded pointcut declarations")
	return nil
}

func (l *loader) parse(data []byte) (*document, error) {
	if l.validate {
		if err := Validate(bytes.NewReader(data)); err != nil {
			return nil, err
		}
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func declarations(ctx context.Context, source string, nodes []yaml.Node) ([]Declaration, error) {
	decls := make([]Declaration, 0, len(nodes))
	for idx := range nodes {
		node := &nodes[idx]

		var raw declarationYML
		if err := node.Decode(&raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		if raw.Name == "" {
			return nil, fmt.Errorf("line %d: pointcut declaration has no name", node.Line)
		}
		if raw.Pointcut.Kind == 0 {
			return nil, fmt.Errorf("line %d: %q has no pointcut", node.Line, raw.Name)
		}

		pc, err := FromYAML(ctx, &raw.Pointcut)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw.Name, err)
		}
		decls = append(decls, Declaration{
			Name:        raw.Name,
			Description: raw.Description,
			Pointcut:    pc,
			Source:      source,
			Line:        node.Line,
		})
	}
	return decls, nil
}

func checkUniqueNames(decls []Declaration) error {
	byName := make(map[string]Declaration, len(decls))
	for _, decl := range decls {
		if prev, found := byName[decl.Name]; found {
			return fmt.Errorf("duplicate pointcut name %q (line %d, previously declared on line %d)", decl.Name, decl.Line, prev.Line)
		}
		byName[decl.Name] = decl
	}
	return nil
}
