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
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airsched/airland/alp"
	"github.com/airsched/airland/alpmodel"
	"github.com/airsched/airland/milp"
)

// solvedTwoRunwaySchedule is a hand-built solution: aircraft 1 lands on
// target on runway 0, aircraft 0 lands two late on runway 1.
func solvedTwoRunwaySchedule() (*alp.Instance, *alpmodel.Solution) {
	ins := &alp.Instance{
		Aircraft: []alp.Aircraft{
			{Earliest: 0, Target: 10, Latest: 20, PenaltyEarly: 2, PenaltyLate: 3},
			{Earliest: 0, Target: 5, Latest: 20, PenaltyEarly: 1, PenaltyLate: 4},
		},
		Sep:     [][]int64{{0, 3}, {3, 0}},
		Runways: 2,
	}
	sol := &alpmodel.Solution{
		Status:      milp.StatusOptimal,
		Objective:   6,
		LandingTime: []float64{12, 5},
		EarlyDev:    []float64{0, 0},
		LateDev:     []float64{2, 0},
		Runway:      []int{1, 0},
		Order:       [][]float64{{0, 0}, {1, 0}},
		Result:      milp.NewResult(milp.StatusOptimal, 6, nil),
	}
	return ins, sol
}

func TestRowsSortedByLandingTime(t *testing.T) {
	ins, sol := solvedTwoRunwaySchedule()
	rows := Rows(ins, sol)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Aircraft)
	assert.Equal(t, 0, rows[1].Aircraft)
	assert.False(t, rows[0].Missed())
	assert.True(t, rows[1].Missed())
	assert.InDelta(t, 6.0, rows[1].Penalty, 1e-9)
	assert.InDelta(t, 6.0, TotalPenalty(rows), 1e-9)
}

func TestRowsWithoutSolution(t *testing.T) {
	ins, _ := solvedTwoRunwaySchedule()
	sol := &alpmodel.Solution{
		Status: milp.StatusInfeasible,
		Result: milp.NewResult(milp.StatusInfeasible, 0, nil),
	}
	assert.Nil(t, Rows(ins, sol))
}

func TestWriteSchedule(t *testing.T) {
	ins, sol := solvedTwoRunwaySchedule()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ins, sol))
	out := buf.String()

	assert.Contains(t, out, "Landing Schedule")
	assert.Contains(t, out, "-> Status: OPTIMAL | Objective: 6")
	assert.Contains(t, out, "AIRCRAFT")
	assert.Contains(t, out, "-> Planes that did not land on the target time:")
	assert.Contains(t, out, "-> Plane 0: 12 | Target Time: 10 | Penalty: 6.00")
	assert.Contains(t, out, "-> Runway 0: 1 aircraft")
	assert.Contains(t, out, "-> Runway 1: 1 aircraft")
	assert.Contains(t, out, "-> Total penalty: 6.00")

	// The schedule is printed in landing order, so aircraft 1 comes first.
	var dataLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "0 ") || strings.HasPrefix(line, "1 ") {
			dataLines = append(dataLines, line)
		}
	}
	require.Len(t, dataLines, 2)
	assert.True(t, strings.HasPrefix(dataLines[0], "1"), "aircraft 1 lands first: %q", dataLines)
	assert.True(t, strings.HasPrefix(dataLines[1], "0"), "aircraft 0 lands second: %q", dataLines)
}

func TestWriteScheduleAllOnTarget(t *testing.T) {
	ins, sol := solvedTwoRunwaySchedule()
	sol.LandingTime = []float64{10, 5}
	sol.LateDev = []float64{0, 0}
	sol.Objective = 0

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ins, sol))
	assert.Contains(t, buf.String(), "  -> none")
	assert.NotContains(t, buf.String(), "| Penalty:")
}

func TestWriteScheduleWithoutSolution(t *testing.T) {
	ins, _ := solvedTwoRunwaySchedule()
	sol := &alpmodel.Solution{
		Status: milp.StatusInfeasible,
		Result: milp.NewResult(milp.StatusInfeasible, 0, nil),
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ins, sol))
	assert.Contains(t, buf.String(), "-> No feasible/optimal solution found. Status: INFEASIBLE")
	assert.NotContains(t, buf.String(), "AIRCRAFT")
}

func TestWriteCSV(t *testing.T) {
	ins, sol := solvedTwoRunwaySchedule()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ins, sol))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"aircraft", "runway", "landing", "target", "early", "late", "penalty"}, records[0])
	assert.Equal(t, []string{"1", "0", "5", "5", "0", "0", "0.00"}, records[1])
	assert.Equal(t, []string{"0", "1", "12", "10", "0", "2", "6.00"}, records[2])
}

func TestWriteCSVWithoutSolution(t *testing.T) {
	ins, _ := solvedTwoRunwaySchedule()
	sol := &alpmodel.Solution{
		Status: milp.StatusUnknown,
		Result: milp.NewResult(milp.StatusUnknown, 0, nil),
	}
	var buf bytes.Buffer
	err := WriteCSV(&buf, ins, sol)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schedule to export")
	assert.Zero(t, buf.Len())
}
