// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config

import (
	_ "embed" // For go:embed
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed "schema.json"
	schemaBytes []byte
	schema      *jsonschema.Schema
	schemaOnce  sync.Once
)

// Validate checks that the YAML document read from reader conforms to the
// embedded JSON schema.
func Validate(reader io.Reader) error {
	var obj map[string]any
	if err := yaml.NewDecoder(reader).Decode(&obj); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}
	return ValidateObject(obj)
}

// ValidateObject checks the provided object for conformance to the embedded
// JSON schema.
func ValidateObject(obj map[string]any) error {
	return getSchema().Validate(obj)
}

func getSchema() *jsonschema.Schema {
	schemaOnce.Do(compileSchema)
	return schema
}

func compileSchema() {
	var rawSchema map[string]any
	if err := json.Unmarshal(schemaBytes, &rawSchema); err != nil {
		panic(fmt.Errorf("parsing JSON schema: %w", err))
	}
	schemaURL, _ := rawSchema["$id"].(string)

	compiler := jsonschema.NewCompiler()
	compiler.UseRegexpEngine(regexpEngine)
	if err := compiler.AddResource(schemaURL, rawSchema); err != nil {
		panic(fmt.Errorf("preparing JSON schema compiler: %w", err))
	}

	var err error
	schema, err = compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Errorf("compiling JSON schema: %w", err))
	}
}

type re2 regexp2.Regexp

func (re *re2) MatchString(s string) bool {
	matched, err := (*regexp2.Regexp)(re).MatchString(s)
	return err == nil && matched
}

func (re *re2) String() string {
	return (*regexp2.Regexp)(re).String()
}

func regexpEngine(s string) (jsonschema.Regexp, error) {
	re, err := regexp2.Compile(s, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	return (*re2)(re), nil
}
