// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package callstack

import (
	"runtime"
)

// Source produces a snapshot of a call stack, innermost frame first.
type Source interface {
	Frames() []Frame
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() []Frame

func (fn SourceFunc) Frames() []Frame {
	return fn()
}

// Frames is a fixed stack snapshot.
type Frames []Frame

func (f Frames) Frames() []Frame {
	return f
}

// Runtime captures the stack of the calling goroutine.
type Runtime struct {
	// Skip is the number of additional frames to omit above the caller of
	// Frames.
	Skip int
}

// Current is the default Source, capturing the calling goroutine's stack.
var Current Source = Runtime{}

const initialDepth = 64

// Frames returns every frame of the calling goroutine's stack, starting with
// the function that called Frames, inlined calls included. Frames whose symbol
// cannot be decoded are omitted.
func (r Runtime) Frames() []Frame {
	pcs := make([]uintptr, initialDepth)
	for {
		// Skip runtime.Callers and this method.
		n := runtime.Callers(2+r.Skip, pcs)
		if n < len(pcs) {
			pcs = pcs[:n]
			break
		}
		pcs = make([]uintptr, 2*len(pcs))
	}
	if len(pcs) == 0 {
		return nil
	}

	result := make([]Frame, 0, len(pcs))
	iter := runtime.CallersFrames(pcs)
	for {
		rf, more := iter.Next()
		if frame, ok := ParseFunction(rf.Function); ok {
			result = append(result, frame)
		}
		if !more {
			break
		}
	}
	return result
}
