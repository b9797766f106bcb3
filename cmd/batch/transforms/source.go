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

// Package transforms provides Beam DoFns for evaluating notebook documents at scale
// (spec.md §5: batch/parallel document evaluation is an embedding-host concern, here
// materialized as one Beam pipeline element per document).
package transforms

import (
	"context"
	"fmt"

	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/fileio"
)

// Document is one source document read from disk, carrying its path for error
// attribution in the sink stage.
type Document struct {
	Path string
	Text string
}

// FileToDocument reads one matched file into a Document, or emits a DocumentError if it
// can't be read.
func FileToDocument(ctx context.Context, file fileio.ReadableFile, emitDoc func(Document), emitError func(DocumentError)) {
	data, err := file.Read(ctx)
	if err != nil {
		readErrorCount.Inc(ctx, 1)
		emitError(DocumentError{Path: file.Metadata.Path, Message: fmt.Sprintf("reading file: %v", err)})
		return
	}
	emitDoc(Document{Path: file.Metadata.Path, Text: string(data)})
}
