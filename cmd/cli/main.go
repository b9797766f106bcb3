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

// calc-cli evaluates a notebook document once and prints each line's result, reading the
// document from a file argument or stdin.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/golang/glog"

	"github.com/inkcalc/calc"
	"github.com/inkcalc/calc/internal/cliconfig"
	"github.com/inkcalc/calc/result"
)

var noConfig = flag.Bool("noconfig", false, "ignore the on-disk config file and use defaults")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Exitf("calc-cli: %v", err)
	}
}

func run() error {
	cfg := cliconfig.Config{}
	if !*noConfig {
		var err error
		cfg, err = cliconfig.LoadOrCreate()
		if err != nil {
			return err
		}
	}

	rates, err := cfg.LoadRates()
	if err != nil {
		return err
	}

	c, err := calc.New(calc.Config{Settings: cfg.Settings(), Rates: rates})
	if err != nil {
		return fmt.Errorf("building calculator: %w", err)
	}

	doc, err := readDocument(flag.Args())
	if err != nil {
		return err
	}

	out := c.Evaluate(doc)
	printDocument(out)
	return nil
}

func readDocument(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", args[0], err)
	}
	return string(data), nil
}

func printDocument(doc result.DocumentResult) {
	for _, line := range doc.Lines {
		switch line.Kind {
		case result.LineNone:
			fmt.Println()
		case result.LineHeading:
			fmt.Println(line.Raw)
		case result.LineError:
			fmt.Printf("%s  # error: %s\n", line.Raw, line.Err.Message)
		case result.LineValue:
			rendered, err := result.Format(line.Value, false)
			if err != nil {
				fmt.Printf("%s  # error: %v\n", line.Raw, err)
				continue
			}
			fmt.Printf("%s  => %s\n", line.Raw, rendered)
		}
	}
}
