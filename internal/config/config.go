// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package config loads pointcut declarations from YAML documents.
package config

import (
	"github.com/DataDog/cflow/internal/fingerprint"
	"github.com/DataDog/cflow/pointcut"
)

// Declaration is a named pointcut.
type Declaration struct {
	Name        string
	Description string
	Pointcut    pointcut.Pointcut

	// Source is the file the declaration was read from, and Line its position
	// within that file.
	Source string
	Line   int
}

// File is the result of loading a configuration file, including the
// declarations of the files it extends.
type File struct {
	Path      string
	Pointcuts []Declaration
}

// Lookup returns the declaration with the given name.
func (f *File) Lookup(name string) (Declaration, bool) {
	for _, decl := range f.Pointcuts {
		if decl.Name == name {
			return decl, true
		}
	}
	return Declaration{}, false
}

// Duplicate names two declarations with equivalent pointcuts.
type Duplicate struct {
	First, Second Declaration
}

// Duplicates returns the pairs of declarations that declare the same pointcut
// under different names, in declaration order.
func (f *File) Duplicates() ([]Duplicate, error) {
	seen := make(map[string]Declaration, len(f.Pointcuts))

	var dups []Duplicate
	for _, decl := range f.Pointcuts {
		hashable, ok := decl.Pointcut.(fingerprint.Hashable)
		if !ok {
			continue
		}
		fp, err := fingerprint.Fingerprint(hashable)
		if err != nil {
			return nil, err
		}
		if first, found := seen[fp]; found {
			dups = append(dups, Duplicate{First: first, Second: decl})
			continue
		}
		seen[fp] = decl
	}
	return dups, nil
}
