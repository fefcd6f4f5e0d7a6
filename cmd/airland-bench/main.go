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

// The airland-bench command sweeps a directory of OR-LIB instances across
// formulation modes and runway counts, one solve per combination, and
// writes one CSV row per run.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/samber/lo"

	"github.com/airsched/airland/alp"
	"github.com/airsched/airland/alpmodel"
	"github.com/airsched/airland/milp"
	"github.com/airsched/airland/report"
)

var (
	dir         = flag.String("dir", "", "directory of OR-LIB instance files (*.txt)")
	out         = flag.String("out", "benchmark_results.csv", "path of the CSV results file")
	runwaysList = flag.String("runways", "1", "comma separated runway counts to sweep")
	modesList   = flag.String("modes", "exact,relaxed", "comma separated formulation modes to sweep")
	timeout     = flag.Duration("timeout", 30*time.Second, "time limit per solve, 0 means none")
	hint        = flag.Bool("hint", false, "warm start every exact solve at the target landing times")
)

type runResult struct {
	Instance    string
	Aircraft    int
	Mode        alpmodel.Mode
	Runways     int
	Status      milp.Status
	Objective   float64
	WallMillis  int64
	Variables   int
	Constraints int
	Nodes       int64
	Pivots      int64
	MemoryMB    float64
}

func main() {
	flag.Parse()
	if *dir == "" {
		log.Exit("Flag -dir must name an instance directory")
	}

	runwayCounts := lo.Map(strings.Split(*runwaysList, ","), func(s string, _ int) int {
		n := lo.Must(strconv.Atoi(strings.TrimSpace(s)))
		if n < 1 {
			log.Exitf("Runway counts must be at least 1, got %d", n)
		}
		return n
	})
	modes := lo.Map(strings.Split(*modesList, ","), func(s string, _ int) alpmodel.Mode {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "exact":
			return alpmodel.ModeExact
		case "relaxed":
			return alpmodel.ModeRelaxed
		}
		log.Exitf("Invalid mode %q in -modes", s)
		return 0
	})

	paths := instancePaths(*dir)
	if len(paths) == 0 {
		log.Exitf("No *.txt instances under %s", *dir)
	}

	var results []runResult
	for _, path := range paths {
		base, err := alp.ReadFile(path)
		if err != nil {
			log.Exitf("Failed to read %s: %v", path, err)
		}
		for _, r := range runwayCounts {
			for _, mode := range modes {
				fmt.Printf("Benchmarking %q mode=%v runways=%d\n", filepath.Base(path), mode, r)
				results = append(results, run(path, base, mode, r))
			}
		}
	}

	if err := writeResults(*out, results); err != nil {
		log.Exitf("Failed to write %s: %v", *out, err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(results), *out)
}

func instancePaths(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Exitf("Failed to read directory %s: %v", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths
}

func run(path string, base *alp.Instance, mode alpmodel.Mode, runways int) runResult {
	ins := *base
	ins.Runways = runways

	m, err := alpmodel.BuildWithOptions(&ins, mode, alpmodel.BuildOptions{
		TargetHint: *hint && mode == alpmodel.ModeExact,
	})
	if err != nil {
		log.Exitf("Failed to build %s (mode=%v runways=%d): %v", path, mode, runways, err)
	}
	_, perf, err := report.Profile(m, alpmodel.DefaultSolver(mode, milp.Params{MaxTime: *timeout}))
	if err != nil {
		log.Exitf("Failed to solve %s (mode=%v runways=%d): %v", path, mode, runways, err)
	}

	return runResult{
		Instance:    filepath.Base(path),
		Aircraft:    ins.NumAircraft(),
		Mode:        mode,
		Runways:     runways,
		Status:      perf.Status,
		Objective:   perf.Objective,
		WallMillis:  perf.WallTime.Milliseconds(),
		Variables:   perf.Variables,
		Constraints: perf.Constraints,
		Nodes:       perf.Nodes,
		Pivots:      perf.Pivots,
		MemoryMB:    perf.MemoryDeltaMB(),
	}
}

func writeResults(path string, results []runResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"instance", "aircraft", "mode", "runways", "status", "objective",
		"wall_ms", "variables", "constraints", "nodes", "pivots", "memory_mb"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			r.Instance,
			strconv.Itoa(r.Aircraft),
			r.Mode.String(),
			strconv.Itoa(r.Runways),
			r.Status.String(),
			strconv.FormatFloat(r.Objective, 'f', 2, 64),
			strconv.FormatInt(r.WallMillis, 10),
			strconv.Itoa(r.Variables),
			strconv.Itoa(r.Constraints),
			strconv.FormatInt(r.Nodes, 10),
			strconv.FormatInt(r.Pivots, 10),
			strconv.FormatFloat(r.MemoryMB, 'f', 1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
