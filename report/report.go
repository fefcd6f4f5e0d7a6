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

// Package report renders solved landing schedules as text tables or CSV
// and collects per-solve performance metrics. It formats values the
// solution already carries; it never talks to a backend itself.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/airsched/airland/alp"
	"github.com/airsched/airland/alpmodel"
)

// missEps separates a real deviation from float noise in relaxed
// solutions.
const missEps = 1e-6

var banner = strings.Repeat("=", 60)

// Row is one aircraft of a solved schedule.
type Row struct {
	Aircraft int
	Runway   int
	Landing  float64
	Target   int64
	EarlyDev float64
	LateDev  float64
	// Penalty is this aircraft's contribution to the objective.
	Penalty float64
}

// Missed reports whether the aircraft landed off its target time.
func (r Row) Missed() bool {
	return r.EarlyDev > missEps || r.LateDev > missEps
}

// Rows flattens the solution into per-aircraft rows sorted by landing
// time, ties broken by aircraft index. It returns nil when the solution
// carries no values.
func Rows(ins *alp.Instance, sol *alpmodel.Solution) []Row {
	if !sol.HasSolution() {
		return nil
	}
	rows := lo.Map(lo.Range(ins.NumAircraft()), func(i int, _ int) Row {
		a := ins.Aircraft[i]
		return Row{
			Aircraft: i,
			Runway:   sol.Runway[i],
			Landing:  sol.LandingTime[i],
			Target:   a.Target,
			EarlyDev: sol.EarlyDev[i],
			LateDev:  sol.LateDev[i],
			Penalty:  sol.EarlyDev[i]*a.PenaltyEarly + sol.LateDev[i]*a.PenaltyLate,
		}
	})
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Landing < rows[b].Landing })
	return rows
}

// TotalPenalty sums the per-aircraft penalty contributions.
func TotalPenalty(rows []Row) float64 {
	return lo.SumBy(rows, func(r Row) float64 { return r.Penalty })
}

// Write renders the schedule as a text report: the table sorted by landing
// time, the aircraft that missed their targets, and the total penalty.
// Solutions without values render the status line only.
func Write(w io.Writer, ins *alp.Instance, sol *alpmodel.Solution) error {
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "\t\tLanding Schedule")
	fmt.Fprintln(w, banner)
	if !sol.HasSolution() {
		_, err := fmt.Fprintf(w, "\n-> No feasible/optimal solution found. Status: %v\n", sol.Status)
		return err
	}
	fmt.Fprintf(w, "\n-> Status: %v | Objective: %s\n\n", sol.Status, ftoa(sol.Objective))

	rows := Rows(ins, sol)
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AIRCRAFT\tRUNWAY\tLANDING\tTARGET\tEARLY\tLATE\tPENALTY")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\t%s\t%.2f\n",
			r.Aircraft, r.Runway, ftoa(r.Landing), r.Target, ftoa(r.EarlyDev), ftoa(r.LateDev), r.Penalty)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	missed := lo.Filter(rows, func(r Row, _ int) bool { return r.Missed() })
	fmt.Fprintln(w, "\n-> Planes that did not land on the target time:")
	if len(missed) == 0 {
		fmt.Fprintln(w, "  -> none")
	}
	for _, r := range missed {
		fmt.Fprintf(w, "  -> Plane %d: %s | Target Time: %d | Penalty: %.2f\n",
			r.Aircraft, ftoa(r.Landing), r.Target, r.Penalty)
	}

	if ins.MultiRunway() {
		byRunway := lo.GroupBy(rows, func(r Row) int { return r.Runway })
		fmt.Fprintln(w, "\n-> Aircraft per runway:")
		for r := 0; r < ins.Runways; r++ {
			fmt.Fprintf(w, "  -> Runway %d: %d aircraft\n", r, len(byRunway[r]))
		}
	}

	_, err := fmt.Fprintf(w, "\n-> Total penalty: %.2f\n", TotalPenalty(rows))
	return err
}

var csvHeader = []string{"aircraft", "runway", "landing", "target", "early", "late", "penalty"}

// WriteCSV writes the schedule as CSV with a header row, in the same order
// as the text report. Solutions without values are an error, so a batch
// run cannot silently emit an empty schedule.
func WriteCSV(w io.Writer, ins *alp.Instance, sol *alpmodel.Solution) error {
	if !sol.HasSolution() {
		return fmt.Errorf("no schedule to export: status %v", sol.Status)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range Rows(ins, sol) {
		record := []string{
			strconv.Itoa(r.Aircraft),
			strconv.Itoa(r.Runway),
			ftoa(r.Landing),
			strconv.FormatInt(r.Target, 10),
			ftoa(r.EarlyDev),
			ftoa(r.LateDev),
			strconv.FormatFloat(r.Penalty, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ftoa trims integral solution values down to their integer form so exact
// schedules read like timetables.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
