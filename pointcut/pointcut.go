// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package pointcut defines the capabilities an AOP runtime consumes to decide,
// at each advised invocation, whether a piece of advice applies: a
// [TypeFilter] pruning by target type, and a [MethodMatcher] combining a
// static check with an optional per-invocation (runtime) check.
package pointcut

import (
	"github.com/dave/jennifer/jen"

	"github.com/DataDog/cflow/internal/fingerprint"
)

// TypeFilter restricts a pointcut to a set of target types.
type TypeFilter interface {
	// MatchesType reports whether the pointcut may apply to the given target
	// type.
	MatchesType(target TypeName) bool
}

// MethodMatcher decides whether a pointcut applies to a method.
//
// A matcher whose IsRuntime method returns false is fully described by
// MatchesMethod, and callers may cache its result. Otherwise, MatchesMethod is
// a pre-filter and MatchesInvocation must be consulted at every invocation for
// which MatchesMethod returned true.
type MethodMatcher interface {
	// MatchesMethod performs the static check.
	MatchesMethod(method Method, target TypeName) bool
	// IsRuntime reports whether MatchesInvocation must be called.
	IsRuntime() bool
	// MatchesInvocation performs the dynamic check for one invocation.
	MatchesInvocation(method Method, target TypeName, args ...any) bool
}

// Pointcut is the pairing of a TypeFilter with a MethodMatcher.
type Pointcut interface {
	TypeFilter() TypeFilter
	MethodMatcher() MethodMatcher
}

// CanApply performs the static part of the evaluation of pc.
func CanApply(pc Pointcut, method Method, target TypeName) bool {
	if !pc.TypeFilter().MatchesType(target) {
		return false
	}
	return pc.MethodMatcher().MatchesMethod(method, target)
}

// Applies evaluates pc for a single invocation of method on target: the type
// filter first, then the static method check, and finally the runtime check
// if the matcher requires one.
func Applies(pc Pointcut, method Method, target TypeName, args ...any) bool {
	if !CanApply(pc, method, target) {
		return false
	}
	mm := pc.MethodMatcher()
	return !mm.IsRuntime() || mm.MatchesInvocation(method, target, args...)
}

type truePointcut struct{}

var (
	// True matches every join point.
	True Pointcut = truePointcut{}
	// TrueTypeFilter matches every type.
	TrueTypeFilter TypeFilter = truePointcut{}
	// TrueMethodMatcher statically matches every method.
	TrueMethodMatcher MethodMatcher = truePointcut{}
)

func (truePointcut) TypeFilter() TypeFilter { return TrueTypeFilter }
func (truePointcut) MethodMatcher() MethodMatcher { return TrueMethodMatcher }
func (truePointcut) MatchesType(TypeName) bool { return true }
func (truePointcut) MatchesMethod(Method, TypeName) bool { return true }
func (truePointcut) IsRuntime() bool { return false }
func (truePointcut) MatchesInvocation(Method, TypeName, ...any) bool { return true }

func (truePointcut) String() string {
	return "pointcut.True"
}

func (truePointcut) Hash(h *fingerprint.Hasher) error {
	return h.Named("always")
}

func (truePointcut) AsCode() jen.Code {
	return jen.Qual(pkgPath, "True")
}

const pkgPath = "github.com/DataDog/cflow/pointcut"
