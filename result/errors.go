// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package result

import (
	"fmt"

	"github.com/inkcalc/calc/types"
)

// EngineError is the concrete error type behind every KindError Value and every error
// returned across the package boundary (spec.md §7 "Error taxonomy"), following the
// teacher's EngineError: a stable Kind string plus a human message, with Unwrap support
// so callers can use errors.Is/errors.As against a sentinel if they need to.
type EngineError struct {
	Kind    types.ErrorKind
	Message string
	wrapped error
}

func newEngineError(kind types.ErrorKind, format string, args ...any) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes any underlying error this EngineError wraps, for errors.Is/As.
func (e *EngineError) Unwrap() error { return e.wrapped }

// Wrap attaches an underlying error for errors.Is/As without changing Kind/Message.
func (e *EngineError) Wrap(err error) *EngineError {
	e.wrapped = err
	return e
}

// LineError pairs a line number with an error kind and message (spec.md §3 "Document
// result", §6 "Evaluator output"). DocumentResult carries no separate error list; a
// failed line's error is held in that line's DocumentLine.Err.
type LineError struct {
	Line    int
	Kind    types.ErrorKind
	Message string
}
