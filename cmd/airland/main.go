// Copyright 2010-2024 Google LLC
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

// The airland command reads an aircraft landing instance, formulates it in
// exact or relaxed mode, solves it with the bundled backend and prints the
// schedule. It exits with code 2 when no solution was found.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/golang/glog"

	"github.com/airsched/airland/alp"
	"github.com/airsched/airland/alpmodel"
	"github.com/airsched/airland/milp"
	"github.com/airsched/airland/report"
)

var (
	instancePath = flag.String("instance", "", "path to an OR-LIB format instance file")
	jsonPath     = flag.String("json", "", "path to a JSON instance file")
	runways      = flag.Int("runways", 1, "number of runways for OR-LIB instances (JSON files carry their own)")
	modeName     = flag.String("mode", "exact", `formulation mode, "exact" or "relaxed"`)
	timeout      = flag.Duration("timeout", 0, "solve time limit, 0 means none")
	hint         = flag.Bool("hint", false, "warm start the backend at the target landing times")
	branch       = flag.Bool("branch", false, "branch on landing times before indicator variables")
	stats        = flag.Bool("stats", false, "print performance metrics after the schedule")
	csvPath      = flag.String("csv", "", "also write the schedule as CSV to this file")
)

func main() {
	flag.Parse()

	mode, err := parseMode(*modeName)
	if err != nil {
		log.Exitf("Invalid -mode: %v", err)
	}
	ins, err := readInstance()
	if err != nil {
		log.Exitf("Failed to read instance: %v", err)
	}

	m, err := alpmodel.BuildWithOptions(ins, mode, alpmodel.BuildOptions{
		TargetHint:        *hint,
		LandingTimesFirst: *branch,
	})
	if err != nil {
		log.Exitf("Failed to build model: %v", err)
	}

	solver := alpmodel.DefaultSolver(mode, milp.Params{MaxTime: *timeout})
	sol, perf, err := report.Profile(m, solver)
	if err != nil {
		log.Exitf("Failed to solve: %v", err)
	}

	if err := report.Write(os.Stdout, ins, sol); err != nil {
		log.Exitf("Failed to write schedule: %v", err)
	}
	if *stats {
		fmt.Println()
		if err := report.WritePerf(os.Stdout, perf); err != nil {
			log.Exitf("Failed to write metrics: %v", err)
		}
	}
	if *csvPath != "" {
		if err := writeScheduleCSV(*csvPath, ins, sol); err != nil {
			log.Exitf("Failed to write CSV: %v", err)
		}
	}
	if !sol.HasSolution() {
		os.Exit(2)
	}
}

func parseMode(name string) (alpmodel.Mode, error) {
	switch strings.ToLower(name) {
	case "exact":
		return alpmodel.ModeExact, nil
	case "relaxed":
		return alpmodel.ModeRelaxed, nil
	}
	return 0, fmt.Errorf("%q is not a valid mode, want \"exact\" or \"relaxed\"", name)
}

func readInstance() (*alp.Instance, error) {
	switch {
	case *instancePath != "" && *jsonPath != "":
		return nil, fmt.Errorf("-instance and -json are mutually exclusive")
	case *instancePath != "":
		ins, err := alp.ReadFile(*instancePath)
		if err != nil {
			return nil, err
		}
		if *runways < 1 {
			return nil, fmt.Errorf("-runways must be at least 1, got %d", *runways)
		}
		ins.Runways = *runways
		return ins, nil
	case *jsonPath != "":
		return alp.ReadJSONFile(*jsonPath)
	}
	return nil, fmt.Errorf("one of -instance or -json must be given")
}

func writeScheduleCSV(path string, ins *alp.Instance, sol *alpmodel.Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(f, ins, sol); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
