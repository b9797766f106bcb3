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

// Beam pipeline for evaluating notebook documents at scale (spec.md §5).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/beam/sdks/v2/go/pkg/beam"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/fileio"

	// Required for accessing local files.
	_ "github.com/apache/beam/sdks/v2/go/pkg/beam/io/filesystem/local"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/io/textio"
	"github.com/apache/beam/sdks/v2/go/pkg/beam/x/beamx"

	log "github.com/golang/glog"

	"github.com/inkcalc/calc/cmd/batch/transforms"
)

type batchFlags struct {
	DocumentDir   string
	RateTableFile string
	NDJSONOutputDir string
}

var flags batchFlags

func init() {
	flag.StringVar(&flags.DocumentDir, "document_dir", "", "(Required) Directory holding one or more notebook document files.")
	flag.StringVar(&flags.RateTableFile, "rate_table_file", "", "(Optional) Path to a JSON file of {\"code\": rate} exchange rates (spec.md §6).")
	flag.StringVar(&flags.NDJSONOutputDir, "ndjson_output_dir", "", "(Required) Output directory that the NDJSON files will be written to.")
}

type pipelineConfig struct {
	DocumentDir     string
	Rates           map[string]float64
	NDJSONOutputDir string
}

func buildPipelineConfig(flags *batchFlags) (*pipelineConfig, error) {
	if flags.DocumentDir == "" {
		return nil, fmt.Errorf("document_dir must be set")
	}
	if flags.NDJSONOutputDir == "" {
		return nil, fmt.Errorf("ndjson_output_dir must be set")
	}

	cfg := &pipelineConfig{DocumentDir: flags.DocumentDir, NDJSONOutputDir: flags.NDJSONOutputDir}
	if flags.RateTableFile != "" {
		raw, err := os.ReadFile(flags.RateTableFile)
		if err != nil {
			return nil, fmt.Errorf("reading rate table file: %w", err)
		}
		if err := json.Unmarshal(raw, &cfg.Rates); err != nil {
			return nil, fmt.Errorf("parsing rate table file: %w", err)
		}
	}
	return cfg, nil
}

// buildPipeline constructs the pipeline. Results and errors are returned for tests.
func buildPipeline(s beam.Scope, cfg *pipelineConfig) (results, errors beam.PCollection) {
	matches := fileio.MatchFiles(s, filepath.Join(cfg.DocumentDir, "*"))
	files := fileio.ReadMatches(s, matches)
	docs, readErrors := beam.ParDo2(s, transforms.FileToDocument, files)

	fn := &transforms.EvalFn{Rates: cfg.Rates}
	results, evalErrors := beam.ParDo2(s, fn, docs)

	ndjsonRows, sinkErrors := beam.ParDo2(s, transforms.NDJSONSink, results)
	textio.Write(s, filepath.Join(cfg.NDJSONOutputDir, "results.ndjson"), ndjsonRows)

	errors = beam.Flatten(s, readErrors, evalErrors, sinkErrors)
	errorRows := beam.ParDo(s, transforms.ErrorsNDJSONSink, errors)
	textio.Write(s, filepath.Join(cfg.NDJSONOutputDir, "errors.ndjson"), errorRows)

	return results, errors
}

func main() {
	flag.Parse()
	beam.Init()

	cfg, err := buildPipelineConfig(&flags)
	if err != nil {
		log.Exit(err)
	}

	p, s := beam.NewPipelineWithRoot()
	_, _ = buildPipeline(s, cfg)

	if err := beamx.Run(context.Background(), p); err != nil {
		log.Exitf("failed to execute job: %v", err)
	}
}
