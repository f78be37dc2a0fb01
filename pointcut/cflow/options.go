// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cflow

import (
	"github.com/rs/zerolog"

	"github.com/DataDog/cflow/pointcut"
	"github.com/DataDog/cflow/pointcut/callstack"
)

// Option configures a Pointcut.
type Option interface {
	apply(*Pointcut)
}

type optionFunc func(*Pointcut)

func (fn optionFunc) apply(p *Pointcut) {
	fn(p)
}

// WithMethod restricts the pointcut to the control flow below the named method
// of the target type. The name is compared exactly; closures defined within
// the method do not count as the method itself.
func WithMethod(name string) Option {
	return optionFunc(func(p *Pointcut) {
		p.method = name
		p.hasMethod = true
	})
}

// WithStack sets the source of call stacks inspected by MatchesInvocation. It
// defaults to [callstack.Current].
func WithStack(src callstack.Source) Option {
	return optionFunc(func(p *Pointcut) {
		p.stack = src
	})
}

// WithLogger sets the logger evaluations are reported to, at trace level.
func WithLogger(log zerolog.Logger) Option {
	return optionFunc(func(p *Pointcut) {
		p.log = log
	})
}

// WithTypeFilter statically restricts the target types the pointcut applies
// to. A nil filter accepts every type.
func WithTypeFilter(filter pointcut.TypeFilter) Option {
	return optionFunc(func(p *Pointcut) {
		if filter == nil {
			filter = pointcut.TrueTypeFilter
		}
		p.typeFilter = filter
	})
}
