// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package callstack

import (
	"errors"
	"io"

	"github.com/DataDog/gostackparse"
)

// Goroutine is the stack of one goroutine found in a traceback.
type Goroutine struct {
	ID     int
	State  string
	Frames Frames
}

// ParseTraceback decodes a goroutine dump, such as the output of a panic,
// [runtime/debug.Stack], or a SIGQUIT. Goroutines that could be decoded are
// returned even when errors are reported for others.
func ParseTraceback(r io.Reader) ([]Goroutine, error) {
	parsed, errs := gostackparse.Parse(r)

	result := make([]Goroutine, 0, len(parsed))
	for _, g := range parsed {
		frames := make(Frames, 0, len(g.Stack))
		for _, sf := range g.Stack {
			if frame, ok := ParseFunction(sf.Func); ok {
				frames = append(frames, frame)
			}
		}
		result = append(result, Goroutine{ID: g.ID, State: g.State, Frames: frames})
	}

	return result, errors.Join(errs...)
}
