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

// Package testhelpers provides test helpers shared across the calculator engine's
// packages, starting with the teacher's temp-directory JSON fixture idiom.
package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteJSONs writes each string in jsons to a JSON file in a temporary test directory, which
// is returned.
func WriteJSONs(t testing.TB, jsons []string) (dir string) {
	t.Helper()
	dir = t.TempDir()
	for i, json := range jsons {
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("file_%d.json", i)), []byte(json), 0644); err != nil {
			t.Fatalf("Unable to write test json: %v", err)
		}
	}
	return dir
}

// WriteJSON writes a single JSON document to a temp file named name within a fresh temp
// directory and returns its full path, for tests that need unitdb.Load's raw-bytes
// entry point exercised against an on-disk custom catalogue rather than the embedded
// default one.
func WriteJSON(t testing.TB, name, json string) (path string) {
	t.Helper()
	dir := t.TempDir()
	path = filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(json), 0644); err != nil {
		t.Fatalf("Unable to write test json: %v", err)
	}
	return path
}
