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
	log "github.com/golang/glog"

	"github.com/airsched/airland/alp"
	"github.com/airsched/airland/milp"
)

// DefaultSolver returns the bundled backend matching the mode: branch and
// bound for ModeExact, simplex for ModeRelaxed.
func DefaultSolver(mode Mode, params milp.Params) milp.Solver {
	if mode == ModeRelaxed {
		return &milp.SimplexSolver{Params: params}
	}
	return &milp.BranchBoundSolver{Params: params}
}

// Solve runs the backend once and extracts the solution. A nil solver
// picks the bundled backend for the model's mode with no limits. Hitting a
// limit surfaces as StatusFeasible when an incumbent exists and
// StatusUnknown when none does, never as StatusInfeasible.
func (m *Model) Solve(s milp.Solver) (*Solution, error) {
	if s == nil {
		s = DefaultSolver(m.Mode, milp.Params{})
	}
	res, err := s.Solve(m.Milp)
	if err != nil {
		return nil, err
	}
	log.V(1).Infof("%v solve: %v, objective %v, %v", m.Mode, res.Status, res.Objective, res.WallTime)
	return newSolution(m, res), nil
}

// Solve formulates the instance and solves it with the bundled backend in
// one call.
func Solve(ins *alp.Instance, mode Mode, params milp.Params) (*Solution, error) {
	m, err := Build(ins, mode)
	if err != nil {
		return nil, err
	}
	return m.Solve(DefaultSolver(mode, params))
}
