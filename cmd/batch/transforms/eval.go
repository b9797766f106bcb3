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

package transforms

import (
	"context"
	"fmt"
	"reflect"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/register"

	"github.com/inkcalc/calc"
	"github.com/inkcalc/calc/result"
)

const counterPrefix = "batch_calc"

var (
	readErrorCount = beam.NewCounter(counterPrefix, "document_read_errors")
	lineCount      = beam.NewCounter(counterPrefix, "evaluated_lines")
	lineErrorCount = beam.NewCounter(counterPrefix, "evaluated_line_errors")
)

func init() {
	register.DoFn4x1[context.Context, Document, func(DocumentResult), func(DocumentError), error](&EvalFn{})
	beam.RegisterType(reflect.TypeOf((*DocumentResult)(nil)))
	beam.RegisterType(reflect.TypeOf((*DocumentError)(nil)))
}

// DocumentError reports a document that could not be read or evaluated, attributed to
// its source path.
type DocumentError struct {
	Path    string
	Message string
}

// LineResult is one line of a DocumentResult rendered for NDJSON output.
type LineResult struct {
	Kind         string
	Text         string
	AssignedName string `json:",omitempty"`
	Error        string `json:",omitempty"`
}

// DocumentResult is one evaluated document, ready for NDJSON serialization.
type DocumentResult struct {
	Path  string
	RunID string
	Lines []LineResult
}

// EvalFn evaluates a Document against one Calculator instance per worker (spec.md §5:
// each document is independent, so no state is shared across ProcessElement calls other
// than the read-only rate table each worker builds once in Setup).
type EvalFn struct {
	// Rates is the USD-based exchange-rate table every worker's Calculator is built
	// with (spec.md §6). Only exported fields are serialized to workers.
	Rates map[string]float64

	calc *calc.Calculator
}

// Setup builds this worker's Calculator once, reused across every ProcessElement call.
func (fn *EvalFn) Setup() error {
	c, err := calc.New(calc.Config{Rates: fn.Rates})
	if err != nil {
		return fmt.Errorf("batch: building calculator: %w", err)
	}
	fn.calc = c
	return nil
}

// ProcessElement evaluates one document and emits its rendered DocumentResult.
// emitError exists for parity with FileToDocument/NDJSONSink's (result, error) shape;
// calc.Calculator.Evaluate never fails at the whole-document level (each line reports its
// own error inline), so it currently goes unused but keeps this stage pluggable into the
// same error-fan-in Flatten as the other stages without a signature change later.
func (fn *EvalFn) ProcessElement(ctx context.Context, doc Document, emit func(DocumentResult), emitError func(DocumentError)) error {
	out := fn.calc.Evaluate(doc.Text)
	lines := make([]LineResult, len(out.Lines))
	for i, l := range out.Lines {
		lr := LineResult{Text: l.Raw, AssignedName: l.AssignedName, Kind: kindName(l.Kind)}
		if l.Kind == result.LineError && l.Err != nil {
			lr.Error = l.Err.Message
			lineErrorCount.Inc(ctx, 1)
		} else {
			lineCount.Inc(ctx, 1)
		}
		lines[i] = lr
	}
	emit(DocumentResult{Path: doc.Path, RunID: out.RunID, Lines: lines})
	return nil
}

func kindName(k result.LineKind) string {
	switch k {
	case result.LineNone:
		return "none"
	case result.LineValue:
		return "value"
	case result.LineError:
		return "error"
	case result.LineHeading:
		return "heading"
	default:
		return "unknown"
	}
}
