// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package config

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
)

type codeGenerator interface {
	AsCode() jen.Code
}

// Generate writes a Go source file declaring one package-level variable per
// pointcut declaration, in package pkgName.
func (f *File) Generate(pkgName string, w io.Writer) error {
	file := jen.NewFile(pkgName)
	file.HeaderComment("Code generated by cflow generate. DO NOT EDIT.")
	if f.Path != "" {
		file.HeaderComment("Source: " + f.Path)
	}

	emitted := make(map[string]string, len(f.Pointcuts))
	for _, decl := range f.Pointcuts {
		gen, ok := decl.Pointcut.(codeGenerator)
		if !ok {
			return fmt.Errorf("%q: %T cannot be rendered as Go code", decl.Name, decl.Pointcut)
		}

		ident := Identifier(decl.Name)
		if prev, found := emitted[ident]; found {
			return fmt.Errorf("%q and %q both generate the identifier %s", prev, decl.Name, ident)
		}
		emitted[ident] = decl.Name

		if decl.Description != "" {
			file.Comment(fmt.Sprintf("%s: %s", ident, decl.Description))
		}
		file.Var().Id(ident).Op("=").Add(gen.AsCode())
	}

	return file.Render(w)
}

// Identifier turns a declaration name like "checkout-flow" into an exported
// Go identifier like "CheckoutFlow".
func Identifier(name string) string {
	var buf strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if buf.Len() == 0 && unicode.IsDigit(r) {
			buf.WriteString("Pointcut")
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		buf.WriteRune(r)
	}
	if buf.Len() == 0 {
		return "Pointcut"
	}
	return buf.String()
}
