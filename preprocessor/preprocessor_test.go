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

package preprocessor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lithammer/dedent"
)

func TestProcessClassification(t *testing.T) {
	doc := dedent.Dedent(`
		# Trip budget:

		flights = 500 USD
		hotel = 120 USD/night * 4 night # four nights booked
	`)
	lines := Process(doc)

	want := []Kind{KindEmpty, KindHeading, KindEmpty, KindExpression, KindExpression}
	if len(lines) < len(want) {
		t.Fatalf("got %d lines, want at least %d", len(lines), len(want))
	}
	for i, k := range want {
		if lines[i].Kind != k {
			t.Errorf("line %d: got kind %v, want %v (raw=%q)", i, lines[i].Kind, k, lines[i].Raw)
		}
	}

	heading := lines[1]
	if heading.HeadingLevel != 1 {
		t.Errorf("heading level = %d, want 1", heading.HeadingLevel)
	}
	if heading.HeadingText != "Trip budget" {
		t.Errorf("heading text = %q, want %q (trailing colon stripped)", heading.HeadingText, "Trip budget")
	}

	hotel := lines[4]
	if got, want := hotel.Content, "hotel = 120 USD/night * 4 night"; got != want {
		t.Errorf("stripped content = %q, want %q", got, want)
	}
}

func TestStripInlineCommentRespectsQuotes(t *testing.T) {
	line := classify(`2024-01-01T00:00 "Pacific/Fiji#weird" + 1 day # a comment`)
	if line.Kind != KindExpression {
		t.Fatalf("got kind %v, want KindExpression", line.Kind)
	}
	want := `2024-01-01T00:00 "Pacific/Fiji#weird" + 1 day`
	if diff := cmp.Diff(want, line.Content); diff != "" {
		t.Errorf("Content mismatch (-want +got):\n%s", diff)
	}
}

func TestHeadingLevelIsHashRunLength(t *testing.T) {
	line := classify("### Subsection")
	if line.Kind != KindHeading {
		t.Fatalf("got kind %v, want KindHeading", line.Kind)
	}
	if line.HeadingLevel != 3 {
		t.Errorf("level = %d, want 3", line.HeadingLevel)
	}
}

func TestEmptyLineIsWhitespaceOnly(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t"} {
		if got := classify(raw).Kind; got != KindEmpty {
			t.Errorf("classify(%q) = %v, want KindEmpty", raw, got)
		}
	}
}
