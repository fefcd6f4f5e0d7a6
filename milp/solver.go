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

import "time"

// Status describes the outcome of one Solve call.
type Status uint8

const (
	// StatusUnknown means the backend ran out of time or budget before
	// finding any solution or proving that none exists.
	StatusUnknown Status = iota
	// StatusOptimal means the returned solution was proven optimal.
	StatusOptimal
	// StatusFeasible means a solution was found but not proven optimal,
	// typically because a limit was reached first.
	StatusFeasible
	// StatusInfeasible means the model was proven to have no solution.
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	}
	return "UNKNOWN"
}

// Params configures a bundled solver. The zero value runs without limits.
type Params struct {
	// MaxTime bounds the wall time of one Solve call. Zero means no limit.
	// Exceeding it never turns into StatusInfeasible; the result is
	// StatusFeasible when an incumbent exists and StatusUnknown otherwise.
	MaxTime time.Duration
	// MaxNodes bounds the number of nodes a tree search backend explores.
	// Zero means no limit.
	MaxNodes int64
	// MaxPivots bounds the number of simplex pivots. Zero picks a default
	// proportional to the model size.
	MaxPivots int64
}

// Result holds the outcome of one Solve call.
type Result struct {
	Status    Status
	Objective float64
	// WallTime is the time the backend spent inside Solve.
	WallTime time.Duration
	// Nodes counts search tree nodes for tree backends; Pivots counts
	// basis changes for simplex backends.
	Nodes  int64
	Pivots int64

	values []float64
}

// NewResult assembles a Result from an external backend's answer. The values
// slice is indexed by positive variable index and may be nil when the status
// carries no solution.
func NewResult(status Status, objective float64, values []float64) *Result {
	return &Result{Status: status, Objective: objective, values: values}
}

// HasSolution reports whether the result carries a usable assignment.
func (r *Result) HasSolution() bool {
	return r.Status == StatusOptimal || r.Status == StatusFeasible
}

// Value returns the value of the linear argument under the solution, or 0
// when the result has no solution.
func (r *Result) Value(la LinearArgument) float64 {
	if !r.HasSolution() {
		return 0
	}
	return la.evaluate(r.values)
}

// BoolValue returns the truth value of the literal under the solution, or
// false when the result has no solution.
func (r *Result) BoolValue(v Var) bool {
	if !r.HasSolution() {
		return false
	}
	return v.evaluate(r.values) > 0.5
}

// Solver is the capability a backend provides to solve built models. The
// bundled implementations are BranchBoundSolver and SimplexSolver; external
// solvers wrap their own engines behind the same interface.
type Solver interface {
	Solve(m *Model) (*Result, error)
}
