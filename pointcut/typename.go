// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package pointcut

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dave/dst"

	"github.com/DataDog/cflow/internal/fingerprint"
)

// TypeName identifies a Go type by its import path and name. It is the type
// identity pointcuts are expressed against.
type TypeName struct {
	// ImportPath is the import path of the package declaring the type, or an
	// empty string for predeclared types (like "error" or "any").
	ImportPath string
	// Name is the leaf (un-qualified) name of the type, without any type
	// arguments.
	Name string
	// Pointer determines whether the type is referred to through a pointer.
	Pointer bool
}

// Only identifiers, qualified identifiers, and pointers to those are supported.
var typeNameRe = regexp.MustCompile(`\A(\*)?\s*(?:([A-Za-z0-9_.-]+(?:/[A-Za-z0-9_.-]+)*)\.)?([A-Za-z_][A-Za-z0-9_]*)\z`)

// NewTypeName parses a type name of the form `[*][import/path.]Name`.
func NewTypeName(n string) (tn TypeName, err error) {
	matches := typeNameRe.FindStringSubmatch(n)
	if matches == nil {
		err = fmt.Errorf("invalid TypeName syntax: %q", n)
		return tn, err
	}

	tn.Pointer = matches[1] == "*"
	tn.ImportPath = matches[2]
	tn.Name = matches[3]
	return tn, nil
}

// MustTypeName is the same as NewTypeName, except it panics in case of an error.
func MustTypeName(n string) (tn TypeName) {
	var err error
	if tn, err = NewTypeName(n); err != nil {
		panic(err)
	}
	return tn
}

// TypeOf returns the TypeName of T. Unnamed types (slices, maps, function
// signatures, ...) produce the zero TypeName.
func TypeOf[T any]() TypeName {
	tn, _ := TypeNameOf(reflect.TypeFor[T]())
	return tn
}

// TypeNameOf returns the TypeName of t. A pointer to a named type yields the
// named type with Pointer set.
func TypeNameOf(t reflect.Type) (TypeName, error) {
	if t == nil {
		return TypeName{}, errors.New("nil reflect.Type")
	}

	var tn TypeName
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		tn.Pointer = true
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		return TypeName{}, fmt.Errorf("%s is not a named type", t)
	}
	// Instantiated generic types are named like "Box[int]".
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}

	tn.ImportPath = t.PkgPath()
	tn.Name = name
	return tn, nil
}

// IsZero reports whether n does not designate any type.
func (n TypeName) IsZero() bool {
	return n.Name == ""
}

// QualifiedName returns the fully qualified name of the type, ignoring the
// pointer indicator: "import/path.Name", or just "Name" for predeclared types.
func (n TypeName) QualifiedName() string {
	if n.ImportPath == "" {
		return n.Name
	}
	return n.ImportPath + "." + n.Name
}

func (n TypeName) String() string {
	if n.Pointer {
		return "*" + n.QualifiedName()
	}
	return n.QualifiedName()
}

// Matches determines whether the provided AST expression refers to the same
// type as this TypeName.
func (n TypeName) Matches(node dst.Expr) bool {
	switch node := node.(type) {
	case *dst.Ident:
		return !n.Pointer && n.ImportPath == node.Path && n.Name == node.Name

	case *dst.SelectorExpr:
		ident, ok := node.X.(*dst.Ident)
		if !ok || ident.Path != "" {
			return false
		}
		return !n.Pointer && n.ImportPath == ident.Name && n.Name == node.Sel.Name

	case *dst.StarExpr:
		return n.Pointer && TypeName{ImportPath: n.ImportPath, Name: n.Name}.Matches(node.X)

	case *dst.IndexExpr:
		return !n.Pointer && n.Matches(node.X)

	case *dst.IndexListExpr:
		return !n.Pointer && n.Matches(node.X)

	case *dst.InterfaceType:
		// Only the empty interface, as "any"
		if node.Methods != nil && len(node.Methods.List) != 0 {
			return false
		}
		return n.ImportPath == "" && n.Name == "any"

	default:
		return false
	}
}

func (n TypeName) Hash(h *fingerprint.Hasher) error {
	return h.Named(
		"type-name",
		fingerprint.String(n.Name),
		fingerprint.String(n.ImportPath),
		fingerprint.Bool(n.Pointer),
	)
}
