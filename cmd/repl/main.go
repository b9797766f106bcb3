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

// calc-repl is an interactive notebook session: each line typed is appended to a
// running document and the whole document is re-evaluated, so earlier assignments and
// `prev`/`ans` stay in scope across lines. The per-line parse cache in orchestrator.Engine
// (spec.md §4.10) means re-evaluating the whole document on every keystroke-at-a-time
// line only re-parses the newly typed line, not the history above it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/golang/glog"

	"github.com/inkcalc/calc"
	"github.com/inkcalc/calc/internal/cliconfig"
	"github.com/inkcalc/calc/result"
)

var noConfig = flag.Bool("noconfig", false, "ignore the on-disk config file and use defaults")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Exitf("calc-repl: %v", err)
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

	var history []string
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		history = append(history, scanner.Text())
		out := c.Evaluate(strings.Join(history, "\n"))
		printLast(out)
		fmt.Print("> ")
	}
	return scanner.Err()
}

func printLast(doc result.DocumentResult) {
	if len(doc.Lines) == 0 {
		return
	}
	line := doc.Lines[len(doc.Lines)-1]
	switch line.Kind {
	case result.LineNone, result.LineHeading:
		return
	case result.LineError:
		fmt.Println("error:", line.Err.Message)
	case result.LineValue:
		rendered, err := result.Format(line.Value, false)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if line.AssignedName != "" {
			fmt.Printf("%s = %s\n", line.AssignedName, rendered)
		} else {
			fmt.Println(rendered)
		}
	}
}
