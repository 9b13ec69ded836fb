// rlog/callstack.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rlog

import (
	"fmt"
	"runtime"
)

// CallFrame identifies one frame of a captured call stack.
type CallFrame struct {
	File     string
	Line     int
	Function string
}

// CallStack is a captured sequence of call frames, innermost first.
type CallStack []CallFrame

// Callstack captures the stack of the caller of Callstack, skipping the
// logging package's own frames.
func Callstack() CallStack {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	// Skip runtime.Callers, Callstack itself, and the Logger method that
	// called it.
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var stack CallStack
	for {
		frame, more := frames.Next()
		if frame.Function == "" {
			break
		}
		stack = append(stack, CallFrame{File: frame.File, Line: frame.Line, Function: frame.Function})
		if !more {
			break
		}
	}
	return stack
}

// Strings renders the call stack as "function (file:line)" entries,
// suitable for attaching to a structured log record.
func (s CallStack) Strings() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
	}
	return out
}
