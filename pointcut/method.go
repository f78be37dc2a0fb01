// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package pointcut

import (
	"github.com/dave/dst"
)

// Method describes the function or method at a join point.
type Method struct {
	// Receiver is the type declaring the method. For package-level functions,
	// only its ImportPath is set.
	Receiver TypeName
	// Name is the function or method name.
	Name string
}

// IsFunction reports whether m is a package-level function rather than a method.
func (m Method) IsFunction() bool {
	return m.Receiver.IsZero()
}

// String renders m the way the Go runtime names the corresponding symbol,
// e.g. "net/http.(*Server).Serve" or "net/http.ListenAndServe".
func (m Method) String() string {
	switch {
	case m.IsFunction() && m.Receiver.ImportPath == "":
		return m.Name
	case m.IsFunction():
		return m.Receiver.ImportPath + "." + m.Name
	}

	recv := m.Receiver.Name
	if m.Receiver.Pointer {
		recv = "(*" + recv + ")"
	}
	if m.Receiver.ImportPath == "" {
		return recv + "." + m.Name
	}
	return m.Receiver.ImportPath + "." + recv + "." + m.Name
}

// MethodOf builds the join point descriptor of a function declaration found in
// the package at importPath. It returns false if decl is nil or its receiver
// cannot be resolved to a named type.
func MethodOf(importPath string, decl *dst.FuncDecl) (Method, bool) {
	if decl == nil || decl.Name == nil {
		return Method{}, false
	}

	m := Method{Receiver: TypeName{ImportPath: importPath}, Name: decl.Name.Name}
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return m, true
	}
	if len(decl.Recv.List) != 1 {
		return Method{}, false
	}

	expr := decl.Recv.List[0].Type
	if star, ok := expr.(*dst.StarExpr); ok {
		m.Receiver.Pointer = true
		expr = star.X
	}
	switch generic := expr.(type) {
	case *dst.IndexExpr:
		expr = generic.X
	case *dst.IndexListExpr:
		expr = generic.X
	}

	ident, ok := expr.(*dst.Ident)
	if !ok {
		return Method{}, false
	}
	m.Receiver.Name = ident.Name
	return m, true
}
