// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package callstack abstracts the execution context stack that control-flow
// pointcuts inspect. A [Source] produces the frames of the current call chain;
// [Runtime] obtains them from the Go runtime, while [Frames] and
// [ParseTraceback] allow a host to provide them from elsewhere.
package callstack

import (
	"net/url"
	"strings"
)

// Frame is one call in a stack, identified by the type declaring the function
// (if it is a method) and the function's name.
type Frame struct {
	// Package is the import path of the package containing the function.
	Package string
	// Receiver is the name of the type the function is a method of, or an
	// empty string for package-level functions. It never carries a pointer
	// indicator nor type arguments.
	Receiver string
	// Function is the name of the function. Closures keep the path from their
	// enclosing function, e.g. "Serve.func1".
	Function string
}

// DeclaringType returns the fully qualified name of the type declaring the
// frame's function, or the package import path for package-level functions.
func (f Frame) DeclaringType() string {
	if f.Receiver == "" {
		return f.Package
	}
	return f.Package + "." + f.Receiver
}

func (f Frame) String() string {
	return f.DeclaringType() + "." + f.Function
}

// ParseFunction decodes a Go function symbol name, as reported by
// [runtime.Frame] or printed in tracebacks, into a Frame. It returns false if
// the symbol is not qualified by a package.
func ParseFunction(symbol string) (Frame, bool) {
	// Type arguments may contain slashes and dots of their own.
	head := symbol
	if idx := strings.IndexByte(head, '['); idx >= 0 {
		head = head[:idx]
	}
	pkgEnd := strings.LastIndexByte(head, '/') + 1
	dot := strings.IndexByte(head[pkgEnd:], '.')
	if dot <= 0 {
		return Frame{}, false
	}

	frame := Frame{Package: unescape(symbol[:pkgEnd+dot])}
	rest := strings.TrimSuffix(stripTypeArgs(symbol[pkgEnd+dot+1:]), "-fm")
	if rest == "" {
		return Frame{}, false
	}

	if strings.HasPrefix(rest, "(*") {
		end := strings.IndexByte(rest, ')')
		if end < 0 || end+1 >= len(rest) || rest[end+1] != '.' {
			return Frame{}, false
		}
		frame.Receiver = rest[2:end]
		frame.Function = rest[end+2:]
		return frame, frame.Receiver != "" && frame.Function != ""
	}

	first, remainder, found := strings.Cut(rest, ".")
	if !found || isSynthetic(remainder) {
		frame.Function = rest
		return frame, true
	}
	frame.Receiver = first
	frame.Function = remainder
	return frame, remainder != ""
}

// isSynthetic reports whether the symbol suffix following a function name
// designates a compiler-generated function (closure, go/defer wrapper, or
// numbered init) rather than a method name.
func isSynthetic(suffix string) bool {
	segment, _, _ := strings.Cut(suffix, ".")
	if segment == "" {
		// "glob..func1"
		return true
	}
	for _, prefix := range [...]string{"func", "gowrap", "deferwrap"} {
		if rest, ok := strings.CutPrefix(segment, prefix); ok && isDigits(rest) {
			return true
		}
	}
	return isDigits(segment)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripTypeArgs removes bracketed type argument lists, which may nest.
func stripTypeArgs(s string) string {
	if !strings.Contains(s, "[") {
		return s
	}

	var buf strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// The linker escapes dots (and a few other characters) in the last element of
// an import path, e.g. "gopkg.in/yaml%2ev3".
func unescape(path string) string {
	if !strings.Contains(path, "%") {
		return path
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		return unescaped
	}
	return path
}
