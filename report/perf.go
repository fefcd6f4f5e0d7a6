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

package report

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/golang/glog"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/airsched/airland/alpmodel"
	"github.com/airsched/airland/milp"
)

// Perf is the measurable cost of one build-and-solve cycle.
type Perf struct {
	Mode        alpmodel.Mode
	Status      milp.Status
	Objective   float64
	WallTime    time.Duration
	Variables   int
	Constraints int
	// Nodes counts branch and bound nodes, Pivots simplex basis changes;
	// each is zero for the backend that does not use it.
	Nodes  int64
	Pivots int64
	// RSSBefore and RSSAfter sample the resident set size around the
	// solve, in bytes. Zero when sampling failed.
	RSSBefore uint64
	RSSAfter  uint64
}

// MemoryDeltaMB is the growth of the resident set across the solve in
// megabytes. It can be negative when the runtime released memory.
func (p *Perf) MemoryDeltaMB() float64 {
	return (float64(p.RSSAfter) - float64(p.RSSBefore)) / (1 << 20)
}

// MemoryRSS returns the resident set size of this process in bytes.
func MemoryRSS() (uint64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}

// sampleRSS reads the resident set size, logging instead of failing when
// the platform does not cooperate. Metrics degrade; the solve does not.
func sampleRSS() uint64 {
	rss, err := MemoryRSS()
	if err != nil {
		log.Warningf("cannot sample process memory: %v", err)
		return 0
	}
	return rss
}

// Profile runs the backend between two memory samples and returns the
// solution together with its metrics. A nil solver picks the bundled
// backend for the model's mode.
func Profile(m *alpmodel.Model, s milp.Solver) (*alpmodel.Solution, *Perf, error) {
	before := sampleRSS()
	sol, err := m.Solve(s)
	if err != nil {
		return nil, nil, err
	}
	after := sampleRSS()
	return sol, &Perf{
		Mode:        m.Mode,
		Status:      sol.Status,
		Objective:   sol.Objective,
		WallTime:    sol.Result.WallTime,
		Variables:   m.Milp.NumVariables(),
		Constraints: m.Milp.NumConstraints(),
		Nodes:       sol.Result.Nodes,
		Pivots:      sol.Result.Pivots,
		RSSBefore:   before,
		RSSAfter:    after,
	}, nil
}

// WritePerf renders the metrics in the banner style of the schedule
// report.
func WritePerf(w io.Writer, p *Perf) error {
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "\t\tPerformance Metrics for %v\n", p.Mode)
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "\n-> Execution time: %.2f seconds\n", p.WallTime.Seconds())
	fmt.Fprintf(w, "-> Number of variables in the model: %d\n", p.Variables)
	fmt.Fprintf(w, "-> Number of constraints in the model: %d\n", p.Constraints)
	fmt.Fprintf(w, "-> Solution Status: %v\n", p.Status)
	if p.Nodes > 0 {
		fmt.Fprintf(w, "-> Number of Branches: %d\n", p.Nodes)
	}
	if p.Pivots > 0 {
		fmt.Fprintf(w, "-> Number of Pivots: %d\n", p.Pivots)
	}
	fmt.Fprintf(w, "-> Total penalty: %.1f\n", p.Objective)
	_, err := fmt.Fprintf(w, "-> Memory usage: %.2f MB\n", p.MemoryDeltaMB())
	return err
}
