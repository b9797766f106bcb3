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
	"encoding/json"
	"fmt"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
)

var ndjsonSinkErrorCount = beam.NewCounter(counterPrefix, "ndjson_sink_errors")

// NDJSONSink marshals a DocumentResult to one line of NDJSON.
func NDJSONSink(ctx context.Context, output DocumentResult, emitValue func(string), emitError func(DocumentError)) {
	jResult, err := json.Marshal(output)
	if err != nil {
		ndjsonSinkErrorCount.Inc(ctx, 1)
		emitError(DocumentError{Path: output.Path, Message: fmt.Sprintf("marshaling result: %v", err)})
		return
	}
	emitValue(fmt.Sprintf("%s\n", jResult))
}

// ErrorsNDJSONSink renders a DocumentError to one line of NDJSON for troubleshooting.
func ErrorsNDJSONSink(de DocumentError, emit func(string)) {
	jBytes, err := json.Marshal(de)
	if err != nil {
		emit(fmt.Sprintf(`{"Path":%q,"Message":"failed to marshal error: %v"}`+"\n", de.Path, err))
		return
	}
	emit(fmt.Sprintf("%s\n", jBytes))
}
