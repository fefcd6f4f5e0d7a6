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

// BranchBoundSolver is the bundled exact backend: a depth-first branch and
// bound with bounds propagation over the linear constraints. It understands
// enforcement literals and requires every variable to be integer or binary.
// The search is complete and deterministic, and is meant for models of modest
// size; larger deployments plug an external engine into the Solver interface.
type BranchBoundSolver struct {
	Params Params
}

const (
	// The clock is read every 4096 nodes to keep the hot loop cheap.
	bbDeadlineMask = 4095
	bbEps          = 1e-6
	bbObjEps       = 1e-9
)

// Solve runs the search and never returns an error for solvable input; the
// only error is a model with continuous variables, which this backend cannot
// branch on.
func (s *BranchBoundSolver) Solve(m *Model) (*Result, error) {
	for i, v := range m.Vars {
		if v.Kind == Continuous {
			return nil, fmt.Errorf("branch and bound requires integer variables, variable %d is continuous", i)
		}
	}
	e := newBBEngine(m, s.Params)
	return e.run(), nil
}

type bbEngine struct {
	m         *Model
	obj       []Term // minimization form
	objOffset float64
	maximize  bool
	order     []VarIndex

	start       time.Time
	deadline    time.Time
	hasDeadline bool
	maxTime     time.Duration
	maxNodes    int64

	nodes   int64
	stopped bool

	best    []int64
	bestObj float64
}

func newBBEngine(m *Model, p Params) *bbEngine {
	e := &bbEngine{m: m, maxNodes: p.MaxNodes, maxTime: p.MaxTime}
	if p.MaxTime > 0 {
		e.hasDeadline = true
	}
	if m.Objective != nil {
		e.maximize = m.Objective.Maximize
		e.objOffset = m.Objective.Offset
		for _, t := range m.Objective.Terms {
			e.obj = append(e.obj, t)
		}
		if e.maximize {
			e.objOffset = -e.objOffset
			for i := range e.obj {
				e.obj[i].Coeff = -e.obj[i].Coeff
			}
		}
	}
	seen := make([]bool, len(m.Vars))
	for _, ind := range m.BranchOrder {
		if int(ind) < len(seen) && !seen[ind] {
			e.order = append(e.order, ind)
			seen[ind] = true
		}
	}
	for i := range m.Vars {
		if !seen[i] {
			e.order = append(e.order, VarIndex(i))
		}
	}
	return e
}

func (e *bbEngine) run() *Result {
	e.start = time.Now()
	if e.hasDeadline {
		e.deadline = e.start.Add(e.maxTime)
	}
	n := len(e.m.Vars)
	lo := make([]int64, n)
	hi := make([]int64, n)
	for i, v := range e.m.Vars {
		lo[i] = int64(math.Ceil(v.Lo - bbEps))
		hi[i] = int64(math.Floor(v.Hi + bbEps))
	}
	e.search(lo, hi)

	res := &Result{WallTime: time.Since(e.start), Nodes: e.nodes}
	switch {
	case e.best != nil && !e.stopped:
		res.Status = StatusOptimal
	case e.best != nil:
		res.Status = StatusFeasible
	case e.stopped:
		res.Status = StatusUnknown
	default:
		res.Status = StatusInfeasible
	}
	if e.best != nil {
		values := make([]float64, n)
		for i, v := range e.best {
			values[i] = float64(v)
		}
		res.values = values
		obj := e.bestObj
		if e.maximize {
			obj = -obj
		}
		res.Objective = obj
	}
	return res
}

func (e *bbEngine) search(lo, hi []int64) {
	if e.stopped {
		return
	}
	e.nodes++
	if e.maxNodes > 0 && e.nodes > e.maxNodes {
		e.stopped = true
		return
	}
	if e.hasDeadline && e.nodes&bbDeadlineMask == 0 && time.Now().After(e.deadline) {
		e.stopped = true
		return
	}
	if !e.propagate(lo, hi) {
		return
	}
	if e.best != nil && e.lowerBound(lo, hi) >= e.bestObj-bbObjEps {
		return
	}

	branch := VarIndex(-1)
	for _, ind := range e.order {
		if lo[ind] < hi[ind] {
			branch = ind
			break
		}
	}
	if branch < 0 {
		e.accept(lo)
		return
	}

	// The hinted value, when inside the current domain, is tried as its own
	// child before the two remainders; otherwise the domain is bisected.
	if h, ok := e.m.Hints[branch]; ok {
		hv := int64(math.Round(h))
		if lo[branch] <= hv && hv <= hi[branch] {
			e.descend(lo, hi, branch, hv, hv)
			e.descend(lo, hi, branch, lo[branch], hv-1)
			e.descend(lo, hi, branch, hv+1, hi[branch])
			return
		}
	}
	mid := lo[branch] + (hi[branch]-lo[branch])/2
	e.descend(lo, hi, branch, lo[branch], mid)
	e.descend(lo, hi, branch, mid+1, hi[branch])
}

func (e *bbEngine) descend(lo, hi []int64, ind VarIndex, newLo, newHi int64) {
	if newLo > newHi || e.stopped {
		return
	}
	clo := append([]int64(nil), lo...)
	chi := append([]int64(nil), hi...)
	clo[ind], chi[ind] = newLo, newHi
	e.search(clo, chi)
}

type gateState uint8

const (
	gateTrue gateState = iota
	gateFalse
	gateOpen
)

// gates resolves the enforcement literals of `ct` under the current bounds.
// openLit is meaningful only when the state is gateOpen with openCount 1.
func gates(ct *ConstraintData, lo, hi []int64) (state gateState, openLit VarIndex, openCount int) {
	state = gateTrue
	for _, ind := range ct.Enforced {
		pos := ind.positiveIndex()
		if lo[pos] != hi[pos] {
			state = gateOpen
			openLit = ind
			openCount++
			continue
		}
		val := lo[pos]
		if ind < 0 {
			val = 1 - val
		}
		if val == 0 {
			return gateFalse, 0, 0
		}
	}
	return state, openLit, openCount
}

func (e *bbEngine) propagate(lo, hi []int64) bool {
	for changed := true; changed; {
		changed = false
		for ci := range e.m.Constraints {
			ct := &e.m.Constraints[ci]
			state, openLit, openCount := gates(ct, lo, hi)
			switch state {
			case gateFalse:
				continue
			case gateTrue:
				ok, ch := tighten(ct, lo, hi)
				if !ok {
					return false
				}
				changed = changed || ch
			case gateOpen:
				// A certainly violated constraint with a single open
				// literal forces that literal false.
				if openCount == 1 && certainlyViolated(ct, lo, hi) {
					ok, ch := fixLitFalse(openLit, lo, hi)
					if !ok {
						return false
					}
					changed = changed || ch
				}
			}
		}
	}
	return true
}

func sumBounds(terms []Term, lo, hi []int64) (minSum, maxSum float64) {
	for _, t := range terms {
		if t.Coeff > 0 {
			minSum += t.Coeff * float64(lo[t.Var])
			maxSum += t.Coeff * float64(hi[t.Var])
		} else {
			minSum += t.Coeff * float64(hi[t.Var])
			maxSum += t.Coeff * float64(lo[t.Var])
		}
	}
	return minSum, maxSum
}

func certainlyViolated(ct *ConstraintData, lo, hi []int64) bool {
	minSum, maxSum := sumBounds(ct.Terms, lo, hi)
	return maxSum < ct.Lo-bbEps || minSum > ct.Hi+bbEps
}

// tighten performs bounds consistency on one enforced constraint. It reports
// whether the constraint remains satisfiable and whether any bound moved.
func tighten(ct *ConstraintData, lo, hi []int64) (ok, changed bool) {
	minSum, maxSum := sumBounds(ct.Terms, lo, hi)
	if maxSum < ct.Lo-bbEps || minSum > ct.Hi+bbEps {
		return false, changed
	}
	for _, t := range ct.Terms {
		c := t.Coeff
		ownMin := c * float64(lo[t.Var])
		ownMax := c * float64(hi[t.Var])
		if c < 0 {
			ownMin, ownMax = ownMax, ownMin
		}
		othersMin := minSum - ownMin
		othersMax := maxSum - ownMax

		newLo, newHi := lo[t.Var], hi[t.Var]
		if !math.IsInf(ct.Hi, 1) {
			q := (ct.Hi - othersMin) / c
			if c > 0 {
				newHi = min(newHi, int64(math.Floor(q+bbEps)))
			} else {
				newLo = max(newLo, int64(math.Ceil(q-bbEps)))
			}
		}
		if !math.IsInf(ct.Lo, -1) {
			q := (ct.Lo - othersMax) / c
			if c > 0 {
				newLo = max(newLo, int64(math.Ceil(q-bbEps)))
			} else {
				newHi = min(newHi, int64(math.Floor(q+bbEps)))
			}
		}
		if newLo > newHi {
			return false, changed
		}
		if newLo != lo[t.Var] || newHi != hi[t.Var] {
			lo[t.Var], hi[t.Var] = newLo, newHi
			changed = true
			minSum, maxSum = sumBounds(ct.Terms, lo, hi)
		}
	}
	return true, changed
}

// fixLitFalse forces the literal to false. It reports whether the bounds
// remain non-empty and whether anything moved.
func fixLitFalse(ind VarIndex, lo, hi []int64) (ok, changed bool) {
	pos := ind.positiveIndex()
	want := int64(0)
	if ind < 0 {
		want = 1
	}
	if want < lo[pos] || want > hi[pos] {
		return false, false
	}
	if lo[pos] == want && hi[pos] == want {
		return true, false
	}
	lo[pos], hi[pos] = want, want
	return true, true
}

func (e *bbEngine) lowerBound(lo, hi []int64) float64 {
	lb := e.objOffset
	for _, t := range e.obj {
		if t.Coeff > 0 {
			lb += t.Coeff * float64(lo[t.Var])
		} else {
			lb += t.Coeff * float64(hi[t.Var])
		}
	}
	return lb
}

// accept rechecks every constraint at a fully fixed leaf and records the
// assignment when it beats the incumbent.
func (e *bbEngine) accept(assign []int64) {
	for ci := range e.m.Constraints {
		ct := &e.m.Constraints[ci]
		state, _, _ := gates(ct, assign, assign)
		if state != gateTrue {
			continue
		}
		var sum float64
		for _, t := range ct.Terms {
			sum += t.Coeff * float64(assign[t.Var])
		}
		if sum < ct.Lo-bbEps || sum > ct.Hi+bbEps {
			return
		}
	}
	obj := e.objOffset
	for _, t := range e.obj {
		obj += t.Coeff * float64(assign[t.Var])
	}
	if e.best == nil || obj < e.bestObj-bbObjEps {
		e.best = append(make([]int64, 0, len(assign)), assign...)
		e.bestObj = obj
		log.V(2).Infof("branch and bound: incumbent %v after %d nodes", obj, e.nodes)
	}
}
