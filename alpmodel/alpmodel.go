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

// Package alpmodel formulates aircraft landing instances as linear models
// over the milp capability layer.
//
// One builder serves both realizations. In exact mode the order and runway
// indicators are 0/1 decisions and conditioned separations are enforced
// through reified constraints; in relaxed mode the indicators range
// continuously over [0,1] and the conditioning is folded into big-M
// inequalities. The two realizations agree whenever the indicators take
// integral values, so the relaxed optimum is a lower bound on the exact
// one.
package alpmodel

import (
	"fmt"

	log "github.com/golang/glog"

	"github.com/airsched/airland/alp"
	"github.com/airsched/airland/milp"
)

// Mode selects the realization of the order and runway indicators.
type Mode uint8

const (
	// ModeExact builds 0/1 indicator variables and reified separations.
	ModeExact Mode = iota
	// ModeRelaxed builds continuous indicators in [0,1] and big-M
	// separations, producing the linear relaxation of the exact model.
	ModeRelaxed
)

func (m Mode) String() string {
	if m == ModeRelaxed {
		return "RELAXED"
	}
	return "EXACT"
}

// Vars is the typed registry of the decision variables of one model. The
// pairwise matrices are indexed [i][j]; slots that need no variable (the
// diagonal, and the runway matrices on single-runway instances) hold the
// zero milp.Var, told apart with IsValid.
type Vars struct {
	// LandingTime[i] is the landing time of aircraft i, bounded by its
	// window.
	LandingTime []milp.Var
	// EarlyDev[i] and LateDev[i] are the non-negative deviations of the
	// landing time from the target, each bounded by its window side.
	EarlyDev []milp.Var
	LateDev  []milp.Var
	// Order[i][j] is 1 when i lands before j.
	Order [][]milp.Var
	// RunwayOf[i][r] is 1 when aircraft i lands on runway r.
	RunwayOf [][]milp.Var
	// SameRunway[i][j] is 1 when i and j land on the same runway.
	SameRunway [][]milp.Var
}

// Model is one built formulation, ready to solve. A model is built once
// from an instance and never mutated afterwards; build a fresh one to
// formulate again with different options.
type Model struct {
	Instance *alp.Instance
	Mode     Mode
	Classes  *alp.Classification
	Vars     *Vars

	// Milp is the compiled capability-layer model handed to the backend.
	Milp *milp.Model
}

// BuildOptions tweak the formulation. The zero value builds the plain
// model.
type BuildOptions struct {
	// TargetHint seeds the backend with every aircraft landing exactly at
	// its target time.
	TargetHint bool
	// LandingTimesFirst asks the backend to branch on the landing times
	// in input order before any indicator variable.
	LandingTimesFirst bool
}

// Build formulates the instance in the given mode with default options.
func Build(ins *alp.Instance, mode Mode) (*Model, error) {
	return BuildWithOptions(ins, mode, BuildOptions{})
}

// BuildWithOptions validates the instance, classifies every aircraft pair
// and emits all variables, constraints and the objective in one pass over
// the pairs.
func BuildWithOptions(ins *alp.Instance, mode Mode, opts BuildOptions) (*Model, error) {
	if mode != ModeExact && mode != ModeRelaxed {
		return nil, fmt.Errorf("unknown mode %d", mode)
	}
	if err := ins.Validate(); err != nil {
		return nil, err
	}
	classes := alp.Classify(ins)

	b := milp.NewModelBuilder()
	vars := newVars(varFactory{b: b, mode: mode}, ins)
	var emit sepEmitter = reifiedSeps{}
	if mode == ModeRelaxed {
		emit = bigMSeps{}
	}
	postDeviation(b, ins, vars)
	postSeparation(b, ins, vars, classes, emit)
	postRunways(b, ins, vars)
	postObjective(b, ins, vars)

	if opts.TargetHint {
		hint := &milp.Hint{Ints: make(map[milp.Var]int64, ins.NumAircraft())}
		for i := range ins.Aircraft {
			hint.Ints[vars.LandingTime[i]] = ins.Aircraft[i].Target
		}
		b.SetHint(hint)
	}
	if opts.LandingTimesFirst {
		b.SetBranchOrder(vars.LandingTime...)
	}

	m, err := b.Model()
	if err != nil {
		return nil, err
	}
	w, v, u := classes.Counts()
	log.V(1).Infof("built %v model: %d aircraft, %d runways, pairs W=%d V=%d U=%d, %d variables, %d constraints",
		mode, ins.NumAircraft(), ins.Runways, w, v, u, m.NumVariables(), m.NumConstraints())
	return &Model{Instance: ins, Mode: mode, Classes: classes, Vars: vars, Milp: m}, nil
}
