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

package alpmodel

import (
	"math"

	log "github.com/golang/glog"

	"github.com/airsched/airland/milp"
)

// Solution is the plain-value read-back of one solve. It holds no solver
// handles, so it stays valid after the backend is gone.
type Solution struct {
	Status    milp.Status
	Objective float64

	// LandingTime, EarlyDev and LateDev are indexed by aircraft. All
	// per-aircraft slices are nil unless Status carries a solution.
	LandingTime []float64
	EarlyDev    []float64
	LateDev     []float64
	// Runway[i] is the runway carrying aircraft i, always 0 on
	// single-runway instances. Relaxed solutions may spread an aircraft
	// over several runways; the one with the largest share is reported.
	Runway []int
	// Order[i][j] is the value of the order indicator, possibly
	// fractional in relaxed solutions. The diagonal is 0.
	Order [][]float64

	// Result is the raw backend answer, kept for search statistics.
	Result *milp.Result
}

// HasSolution reports whether the value slices are populated.
func (s *Solution) HasSolution() bool {
	return s.Result.HasSolution()
}

func newSolution(m *Model, res *milp.Result) *Solution {
	sol := &Solution{Status: res.Status, Objective: res.Objective, Result: res}
	if !res.HasSolution() {
		return sol
	}
	n := m.Instance.NumAircraft()
	sol.LandingTime = make([]float64, n)
	sol.EarlyDev = make([]float64, n)
	sol.LateDev = make([]float64, n)
	sol.Runway = make([]int, n)
	sol.Order = make([][]float64, n)
	for i := 0; i < n; i++ {
		sol.LandingTime[i] = res.Value(m.Vars.LandingTime[i])
		sol.EarlyDev[i] = res.Value(m.Vars.EarlyDev[i])
		sol.LateDev[i] = res.Value(m.Vars.LateDev[i])
		sol.Order[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i != j {
				sol.Order[i][j] = res.Value(m.Vars.Order[i][j])
			}
		}
		if m.Instance.MultiRunway() {
			sol.Runway[i] = largestRunwayShare(m, res, i)
		}
	}
	return sol
}

// largestRunwayShare picks the runway with the largest assignment value.
// Exact solutions carry a single 1; anything smaller means the assignment
// is fractional and the pick is a rounding.
func largestRunwayShare(m *Model, res *milp.Result, i int) int {
	best, bestVal := 0, math.Inf(-1)
	for r, y := range m.Vars.RunwayOf[i] {
		if val := res.Value(y); val > bestVal {
			best, bestVal = r, val
		}
	}
	if bestVal < 0.99 {
		log.V(1).Infof("aircraft %d runway assignment is fractional, largest share %.3f on runway %d", i, bestVal, best)
	}
	return best
}
