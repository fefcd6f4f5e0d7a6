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

package milp

import (
	"fmt"
	"math"
	"time"

	log "github.com/golang/glog"
)

// SimplexSolver is the bundled relaxed backend: a dense two-phase simplex
// over the linear relaxation of the model. Integrality is dropped, so integer
// and binary variables range freely within their bounds. Models with
// enforcement literals are rejected; a conditional constraint has no linear
// meaning until the model layer rewrites it into big-M form.
type SimplexSolver struct {
	Params Params
}

const (
	simplexEps     = 1e-9
	simplexFeasTol = 1e-7
)

// Solve runs the two phases and returns an error only for models carrying
// enforcement literals, which this backend cannot express.
func (s *SimplexSolver) Solve(m *Model) (*Result, error) {
	for ci := range m.Constraints {
		if len(m.Constraints[ci].Enforced) > 0 {
			return nil, fmt.Errorf("simplex cannot enforce conditional constraints, constraint %d has enforcement literals", ci)
		}
	}
	start := time.Now()
	for _, v := range m.Vars {
		if v.Hi < v.Lo {
			return &Result{Status: StatusInfeasible, WallTime: time.Since(start)}, nil
		}
	}
	t := newTableau(m, s.Params)
	res := t.solve()
	res.WallTime = time.Since(start)
	return res, nil
}

const (
	relLE int8 = -1
	relEQ int8 = 0
	relGE int8 = 1
)

type rawRow struct {
	coeffs []float64 // structural columns only
	rel    int8
	rhs    float64
}

type simplexOutcome uint8

const (
	outcomeOptimal simplexOutcome = iota
	outcomeUnbounded
	outcomeLimit
)

type tableau struct {
	m        *Model
	nStruct  int
	firstArt int
	width    int // columns including the rhs
	rows     [][]float64
	zrow     []float64
	basis    []int

	pivots      int64
	maxPivots   int64
	deadline    time.Time
	hasDeadline bool
}

// newTableau shifts every variable to y = x - lo >= 0, emits one upper bound
// row per variable and one or two rows per constraint, and augments with
// slack, surplus, and artificial columns so that the all-basic start point is
// feasible for phase 1.
func newTableau(m *Model, p Params) *tableau {
	nStruct := len(m.Vars)
	var raw []rawRow

	for k, v := range m.Vars {
		coeffs := make([]float64, nStruct)
		coeffs[k] = 1
		raw = append(raw, rawRow{coeffs: coeffs, rel: relLE, rhs: v.Hi - v.Lo})
	}
	for ci := range m.Constraints {
		ct := &m.Constraints[ci]
		coeffs := make([]float64, nStruct)
		base := 0.0
		for _, t := range ct.Terms {
			coeffs[t.Var] += t.Coeff
			base += t.Coeff * m.Vars[t.Var].Lo
		}
		switch {
		case ct.Lo == ct.Hi:
			raw = append(raw, rawRow{coeffs: coeffs, rel: relEQ, rhs: ct.Lo - base})
		default:
			if !math.IsInf(ct.Hi, 1) {
				raw = append(raw, rawRow{coeffs: cloneRow(coeffs), rel: relLE, rhs: ct.Hi - base})
			}
			if !math.IsInf(ct.Lo, -1) {
				raw = append(raw, rawRow{coeffs: coeffs, rel: relGE, rhs: ct.Lo - base})
			}
		}
	}

	var nSlack, nArt int
	for i := range raw {
		if raw[i].rhs < 0 {
			for j := range raw[i].coeffs {
				raw[i].coeffs[j] = -raw[i].coeffs[j]
			}
			raw[i].rhs = -raw[i].rhs
			raw[i].rel = -raw[i].rel
		}
		switch raw[i].rel {
		case relLE:
			nSlack++
		case relGE:
			nSlack++
			nArt++
		case relEQ:
			nArt++
		}
	}

	t := &tableau{
		m:        m,
		nStruct:  nStruct,
		firstArt: nStruct + nSlack,
		width:    nStruct + nSlack + nArt + 1,
	}
	if p.MaxTime > 0 {
		t.hasDeadline = true
		t.deadline = time.Now().Add(p.MaxTime)
	}
	t.maxPivots = p.MaxPivots
	if t.maxPivots <= 0 {
		t.maxPivots = 1000 + 50*int64(len(raw)+t.width)
	}

	slackCol := nStruct
	artCol := t.firstArt
	for _, rr := range raw {
		row := make([]float64, t.width)
		copy(row, rr.coeffs)
		row[t.width-1] = rr.rhs
		b := -1
		switch rr.rel {
		case relLE:
			row[slackCol] = 1
			b = slackCol
			slackCol++
		case relGE:
			row[slackCol] = -1
			slackCol++
			row[artCol] = 1
			b = artCol
			artCol++
		case relEQ:
			row[artCol] = 1
			b = artCol
			artCol++
		}
		t.rows = append(t.rows, row)
		t.basis = append(t.basis, b)
	}
	return t
}

func cloneRow(row []float64) []float64 {
	return append([]float64(nil), row...)
}

func (t *tableau) solve() *Result {
	if t.firstArt < t.width-1 {
		t.priceOut(t.phase1Costs())
		switch t.optimize() {
		case outcomeLimit:
			return &Result{Status: StatusUnknown, Pivots: t.pivots}
		case outcomeUnbounded:
			log.Warningf("simplex: phase 1 reported unbounded, aborting")
			return &Result{Status: StatusUnknown, Pivots: t.pivots}
		}
		if z := -t.zrow[t.width-1]; z > simplexFeasTol {
			return &Result{Status: StatusInfeasible, Pivots: t.pivots}
		}
		t.pivotOutArtificials()
	}
	t.priceOut(t.phase2Costs())
	outcome := t.optimize()
	if outcome == outcomeUnbounded {
		log.Warningf("simplex: unbounded despite bounded variables, aborting")
		return &Result{Status: StatusUnknown, Pivots: t.pivots}
	}
	res := t.extract()
	if outcome == outcomeLimit {
		res.Status = StatusFeasible
	}
	return res
}

func (t *tableau) phase1Costs() []float64 {
	costs := make([]float64, t.width)
	for j := t.firstArt; j < t.width-1; j++ {
		costs[j] = 1
	}
	return costs
}

func (t *tableau) phase2Costs() []float64 {
	costs := make([]float64, t.width)
	if t.m.Objective == nil {
		return costs
	}
	sign := 1.0
	if t.m.Objective.Maximize {
		sign = -1
	}
	for _, term := range t.m.Objective.Terms {
		costs[term.Var] += sign * term.Coeff
	}
	return costs
}

// priceOut installs the reduced cost row for the given column costs: the raw
// costs minus the contribution of the current basis. The rhs cell holds the
// negated objective value.
func (t *tableau) priceOut(costs []float64) {
	t.zrow = costs
	for i, row := range t.rows {
		c := t.zrow[t.basis[i]]
		if c == 0 {
			continue
		}
		for j := range t.zrow {
			t.zrow[j] -= c * row[j]
		}
		t.zrow[t.basis[i]] = 0
	}
}

// optimize pivots until no reduced cost is negative. Artificial columns never
// enter the basis. Bland's rule keeps the iteration free of cycles.
func (t *tableau) optimize() simplexOutcome {
	for {
		if t.pivots >= t.maxPivots {
			return outcomeLimit
		}
		if t.hasDeadline && t.pivots&127 == 0 && time.Now().After(t.deadline) {
			return outcomeLimit
		}
		e := -1
		for j := 0; j < t.firstArt; j++ {
			if t.zrow[j] < -simplexEps {
				e = j
				break
			}
		}
		if e < 0 {
			return outcomeOptimal
		}
		r := t.leavingRow(e)
		if r < 0 {
			return outcomeUnbounded
		}
		t.pivot(r, e)
	}
}

func (t *tableau) leavingRow(e int) int {
	r := -1
	var best float64
	for i, row := range t.rows {
		a := row[e]
		if a <= simplexEps {
			continue
		}
		ratio := row[t.width-1] / a
		switch {
		case r < 0 || ratio < best-simplexEps:
			r, best = i, ratio
		case math.Abs(ratio-best) <= simplexEps && t.basis[i] < t.basis[r]:
			r = i
		}
	}
	return r
}

func (t *tableau) pivot(r, e int) {
	t.pivots++
	prow := t.rows[r]
	inv := 1 / prow[e]
	for j := range prow {
		prow[j] *= inv
	}
	prow[e] = 1
	for i, row := range t.rows {
		if i == r || row[e] == 0 {
			continue
		}
		f := row[e]
		for j := range row {
			row[j] -= f * prow[j]
		}
		row[e] = 0
	}
	if f := t.zrow[e]; f != 0 {
		for j := range t.zrow {
			t.zrow[j] -= f * prow[j]
		}
		t.zrow[e] = 0
	}
	t.basis[r] = e
}

// pivotOutArtificials replaces basic artificials left at zero level after
// phase 1 with any structural or slack column of their row. Rows with no such
// column are redundant and keep their artificial, which stays at zero because
// artificials never re-enter.
func (t *tableau) pivotOutArtificials() {
	for i := range t.rows {
		if t.basis[i] < t.firstArt {
			continue
		}
		for j := 0; j < t.firstArt; j++ {
			if math.Abs(t.rows[i][j]) > simplexEps {
				t.pivot(i, j)
				break
			}
		}
	}
}

func (t *tableau) extract() *Result {
	y := make([]float64, t.nStruct)
	for i, b := range t.basis {
		if b < t.nStruct {
			y[b] = t.rows[i][t.width-1]
		}
	}
	values := make([]float64, t.nStruct)
	for k, v := range t.m.Vars {
		x := v.Lo + y[k]
		values[k] = math.Min(math.Max(x, v.Lo), v.Hi)
	}
	var obj float64
	if t.m.Objective != nil {
		obj = t.m.Objective.Offset
		for _, term := range t.m.Objective.Terms {
			obj += term.Coeff * values[term.Var]
		}
	}
	return &Result{Status: StatusOptimal, Objective: obj, Pivots: t.pivots, values: values}
}
