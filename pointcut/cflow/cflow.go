// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package cflow provides a control-flow ("cflow") pointcut: one that matches an
// invocation only when it happens, directly or transitively, from within a
// designated type, and optionally a designated method of that type.
//
// Because the decision depends on the call stack, it can only be made at
// runtime: every evaluation walks the stack of the calling goroutine. This is
// typically an order of magnitude slower than evaluating a static pointcut,
// so prefer static pointcuts where they can express the same selection.
package cflow

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync/atomic"

	"github.com/dave/jennifer/jen"
	"github.com/rs/zerolog"

	"github.com/DataDog/cflow/internal/fingerprint"
	"github.com/DataDog/cflow/pointcut"
	"github.com/DataDog/cflow/pointcut/callstack"
)

// ErrNoTarget is returned when a Pointcut is created without a target type.
var ErrNoTarget = errors.New("cflow: a target type is required")

// Pointcut matches invocations occurring within the control flow of a target
// type (and method). It is safe for concurrent use.
type Pointcut struct {
	target    pointcut.TypeName
	method    string
	hasMethod bool

	typeFilter pointcut.TypeFilter
	stack      callstack.Source
	log        zerolog.Logger

	evaluations atomic.Int64
}

var _ pointcut.Pointcut = (*Pointcut)(nil)

// New returns a Pointcut matching all control flows below target. Use
// [WithMethod] to restrict it to the control flow below a single method.
func New(target pointcut.TypeName, opts ...Option) (*Pointcut, error) {
	if target.IsZero() {
		return nil, ErrNoTarget
	}

	p := &Pointcut{
		target:     target,
		typeFilter: pointcut.TrueTypeFilter,
		stack:      callstack.Current,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt.apply(p)
	}
	return p, nil
}

// MustNew is the same as New, except it panics in case of an error.
func MustNew(target pointcut.TypeName, opts ...Option) *Pointcut {
	p, err := New(target, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// ForType returns a Pointcut targeting the type T.
func ForType[T any](opts ...Option) (*Pointcut, error) {
	return New(pointcut.TypeOf[T](), opts...)
}

// Target returns the type whose control flow is matched.
func (p *Pointcut) Target() pointcut.TypeName {
	return p.target
}

// MethodName returns the name of the method whose control flow is matched, if
// one was set.
func (p *Pointcut) MethodName() (string, bool) {
	return p.method, p.hasMethod
}

func (p *Pointcut) TypeFilter() pointcut.TypeFilter {
	return p
}

func (p *Pointcut) MethodMatcher() pointcut.MethodMatcher {
	return p
}

// MatchesType accepts every type unless a filter was set with [WithTypeFilter].
func (p *Pointcut) MatchesType(target pointcut.TypeName) bool {
	return p.typeFilter.MatchesType(target)
}

// MatchesMethod always returns true: control-flow membership is only known at
// runtime.
func (*Pointcut) MatchesMethod(pointcut.Method, pointcut.TypeName) bool {
	return true
}

func (*Pointcut) IsRuntime() bool {
	return true
}

// MatchesInvocation reports whether the calling goroutine is currently within
// the control flow of the target. The method, target and arguments of the
// invocation are not consulted.
func (p *Pointcut) MatchesInvocation(pointcut.Method, pointcut.TypeName, ...any) bool {
	return p.MatchesStack(p.stack)
}

// MatchesStack evaluates the pointcut against the frames produced by src. It
// counts as an evaluation, just like MatchesInvocation.
func (p *Pointcut) MatchesStack(src callstack.Source) bool {
	p.evaluations.Add(1)

	matched, frame := p.scan(src)
	if e := p.log.Trace(); e.Enabled() {
		e = e.Stringer("pointcut", p).Bool("matched", matched)
		if frame != nil {
			e = e.Str("frame", frame.String())
		}
		e.Msg("evaluated control flow")
	}
	return matched
}

func (p *Pointcut) scan(src callstack.Source) (matched bool, at *callstack.Frame) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn().Interface("panic", r).Stringer("pointcut", p).Msg("unable to capture call stack")
			matched, at = false, nil
		}
	}()

	if src == nil {
		return false, nil
	}

	want := p.target.QualifiedName()
	frames := src.Frames()
	for idx := range frames {
		frame := &frames[idx]
		if frame.DeclaringType() != want {
			continue
		}
		if !p.hasMethod || frame.Function == p.method {
			return true, frame
		}
	}
	return false, nil
}

// Evaluations returns the number of dynamic evaluations performed so far. It
// is meant for diagnostics and testing.
func (p *Pointcut) Evaluations() int64 {
	return p.evaluations.Load()
}

// Equal reports whether p and other match the same control flows: they target
// the same type and either both have no method name, or the same one. Whether
// the target is referred to through a pointer does not matter, as methods of
// T and *T are both declared by T.
func (p *Pointcut) Equal(other *Pointcut) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil {
		return false
	}
	return p.target.QualifiedName() == other.target.QualifiedName() &&
		p.hasMethod == other.hasMethod &&
		p.method == other.method
}

// HashCode returns a hash consistent with Equal.
func (p *Pointcut) HashCode() uint32 {
	code := stringHash(p.target.QualifiedName())
	if p.hasMethod {
		code = 37*code + stringHash(p.method)
	}
	return code
}

func stringHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

func (p *Pointcut) String() string {
	method := "<none>"
	if p.hasMethod {
		method = p.method
	}
	return fmt.Sprintf("cflow.Pointcut: type = %s; method = %s", p.target.QualifiedName(), method)
}

func (p *Pointcut) Hash(h *fingerprint.Hasher) error {
	declaring := p.target
	declaring.Pointer = false
	return h.Named(
		"control-flow",
		declaring,
		fingerprint.Optional{Value: p.method, Set: p.hasMethod},
	)
}

// AsCode renders the Go expression constructing an equal Pointcut.
func (p *Pointcut) AsCode() jen.Code {
	args := []jen.Code{typeNameCode(p.target)}
	if p.hasMethod {
		args = append(args, jen.Qual(pkgPath, "WithMethod").Call(jen.Lit(p.method)))
	}
	return jen.Qual(pkgPath, "MustNew").Call(args...)
}

// typeNameCode prefers the parseable string form, and falls back to a
// composite literal for names outside of that syntax.
func typeNameCode(tn pointcut.TypeName) jen.Code {
	if parsed, err := pointcut.NewTypeName(tn.String()); err == nil && parsed == tn {
		return jen.Qual(pointcutPkgPath, "MustTypeName").Call(jen.Lit(tn.String()))
	}

	fields := jen.Dict{jen.Id("Name"): jen.Lit(tn.Name)}
	if tn.ImportPath != "" {
		fields[jen.Id("ImportPath")] = jen.Lit(tn.ImportPath)
	}
	if tn.Pointer {
		fields[jen.Id("Pointer")] = jen.True()
	}
	return jen.Qual(pointcutPkgPath, "TypeName").Values(fields)
}

const (
	pkgPath         = "github.com/DataDog/cflow/pointcut/cflow"
	pointcutPkgPath = "github.com/DataDog/cflow/pointcut"
)
