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

// LineKind discriminates what kind of content produced one DocumentResult line
// (spec.md §3 "Document result").
type LineKind int

const (
	// LineNone is a blank line: no value, no error.
	LineNone LineKind = iota
	// LineValue is a successfully evaluated expression line.
	LineValue
	// LineError is an expression line whose evaluation (parse, prune, or interpret)
	// failed.
	LineError
	// LineHeading is a `#+ text` heading line (spec.md §4.6).
	LineHeading
)

// DocumentLine is one line's outcome within a DocumentResult.
type DocumentLine struct {
	Kind LineKind

	Raw string

	// Value is set only when Kind == LineValue.
	Value Value
	// AssignedName is non-empty when this line's Value was bound to a variable.
	AssignedName string

	// Err is set only when Kind == LineError.
	Err *EngineError

	// HeadingLevel/HeadingText are set only when Kind == LineHeading.
	HeadingLevel int
	HeadingText  string
}

// DocumentResult is evaluate_document's return value (spec.md §3 "Document result",
// §6 "Evaluator output"): one entry per source line, plus a run id correlating this
// evaluation across logs (SPEC_FULL.md ambient-stack addition).
type DocumentResult struct {
	RunID string
	Lines []DocumentLine
}
