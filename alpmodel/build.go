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
	"github.com/airsched/airland/alp"
	"github.com/airsched/airland/milp"
)

// varFactory creates decision variables with the kind the mode calls for:
// integer and 0/1 variables in exact mode, continuous ones in relaxed
// mode.
type varFactory struct {
	b    *milp.Builder
	mode Mode
}

func (f varFactory) bounded(lo, hi int64) milp.Var {
	if f.mode == ModeExact {
		return f.b.NewIntVar(lo, hi)
	}
	return f.b.NewVar(float64(lo), float64(hi))
}

func (f varFactory) indicator() milp.Var {
	if f.mode == ModeExact {
		return f.b.NewBoolVar()
	}
	return f.b.NewVar(0, 1)
}

// newVars creates every decision variable of the formulation. The creation
// order is fixed so that two builds of the same instance produce identical
// models: landing times, order indicators, deviations, then the runway
// matrices on multi-runway instances.
func newVars(f varFactory, ins *alp.Instance) *Vars {
	n := ins.NumAircraft()
	v := &Vars{
		LandingTime: make([]milp.Var, n),
		EarlyDev:    make([]milp.Var, n),
		LateDev:     make([]milp.Var, n),
	}
	for i := range ins.Aircraft {
		a := &ins.Aircraft[i]
		v.LandingTime[i] = f.bounded(a.Earliest, a.Latest)
	}
	v.Order = pairMatrix(f, n)
	for i := range ins.Aircraft {
		a := &ins.Aircraft[i]
		v.EarlyDev[i] = f.bounded(0, max(a.Target-a.Earliest, 0))
		v.LateDev[i] = f.bounded(0, max(a.Latest-a.Target, 0))
	}
	if ins.MultiRunway() {
		v.SameRunway = pairMatrix(f, n)
		v.RunwayOf = make([][]milp.Var, n)
		for i := range v.RunwayOf {
			v.RunwayOf[i] = make([]milp.Var, ins.Runways)
			for r := range v.RunwayOf[i] {
				v.RunwayOf[i][r] = f.indicator()
			}
		}
	}
	return v
}

// pairMatrix creates one indicator per ordered pair of distinct aircraft.
// The diagonal stays the invalid zero Var.
func pairMatrix(f varFactory, n int) [][]milp.Var {
	m := make([][]milp.Var, n)
	for i := range m {
		m[i] = make([]milp.Var, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = f.indicator()
			}
		}
	}
	return m
}

// postDeviation ties the deviation variables to the landing time. Only the
// two lower bounds and the decomposition are posted; the upper range of
// each deviation is already carried by its variable bounds.
func postDeviation(b *milp.Builder, ins *alp.Instance, v *Vars) {
	for i := range ins.Aircraft {
		target := float64(ins.Aircraft[i].Target)
		t, e, l := v.LandingTime[i], v.EarlyDev[i], v.LateDev[i]
		b.AddGreaterOrEqual(e, milp.NewConstant(target).AddTerm(t, -1))
		b.AddGreaterOrEqual(l, milp.NewLinearExpr().Add(t).AddConstant(-target))
		// landingTime = target - earlyDev + lateDev pins the deviations
		// to the landing time instead of leaving them free above their
		// lower bounds.
		b.AddEquality(milp.NewLinearExpr().Add(t).Add(e).AddTerm(l, -1), milp.NewConstant(target))
	}
}

// condSep is one conditioned separation requirement: after must land at
// least gap later than before whenever the condition holds.
type condSep struct {
	before, after milp.Var
	gap           int64

	// carrier scales the gap in the big-M form. The zero Var means the
	// gap applies unconditionally.
	carrier milp.Var
	// escape voids the big-M inequality when 1; slack is the largest
	// amount by which the windows can violate the separation.
	escape milp.Var
	slack  int64
	// enforce lists the indicators that must all be 1 for the reified
	// form to apply. Empty means the inequality always holds.
	enforce []milp.Var
}

// sepEmitter realizes one conditioned separation. The two implementations
// differ only in how the condition reaches the backend.
type sepEmitter interface {
	separation(b *milp.Builder, c condSep)
}

// reifiedSeps posts the plain gap inequality guarded by enforcement
// literals. Only integral backends honor the guards.
type reifiedSeps struct{}

func (reifiedSeps) separation(b *milp.Builder, c condSep) {
	diff := milp.NewLinearExpr().Add(c.after).AddTerm(c.before, -1)
	b.AddGreaterOrEqual(diff, milp.NewConstant(float64(c.gap))).OnlyEnforceIf(c.enforce...)
}

// bigMSeps folds the condition into the inequality itself: the gap enters
// scaled by its carrier and the slack term voids the inequality when the
// escape indicator is 1.
type bigMSeps struct{}

func (bigMSeps) separation(b *milp.Builder, c condSep) {
	rhs := milp.NewLinearExpr().Add(c.before)
	if c.carrier.IsValid() {
		rhs.AddTerm(c.carrier, float64(c.gap))
	} else {
		rhs.AddConstant(float64(c.gap))
	}
	if c.escape.IsValid() {
		rhs.AddTerm(c.escape, float64(-c.slack))
	}
	b.AddGreaterOrEqual(c.after, rhs)
}

// postSeparation posts the order totality and the per-pair separation
// requirements driven by the window classes.
//
// Certainly separated pairs only fix the order indicator. Certainly
// unseparated pairs fix the order and require the gap, conditioned on
// sharing a runway when there is more than one. Uncertain pairs leave the
// order free and condition the gap on it, with the big-M slack sized to
// the windows.
func postSeparation(b *milp.Builder, ins *alp.Instance, v *Vars, classes *alp.Classification, emit sepEmitter) {
	n := ins.NumAircraft()
	one := milp.NewConstant(1)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			b.AddEquality(milp.NewLinearExpr().AddSum(v.Order[i][j], v.Order[j][i]), one)
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sep := ins.Sep[i][j]
			switch classes.Class(i, j) {
			case alp.ClassCertainSeparated:
				b.AddEquality(v.Order[i][j], one)
			case alp.ClassCertainUnseparated:
				b.AddEquality(v.Order[i][j], one)
				c := condSep{before: v.LandingTime[i], after: v.LandingTime[j], gap: sep}
				if ins.MultiRunway() {
					c.carrier = v.SameRunway[i][j]
					c.enforce = []milp.Var{v.SameRunway[i][j]}
				}
				emit.separation(b, c)
			case alp.ClassUncertain:
				c := condSep{
					before:  v.LandingTime[i],
					after:   v.LandingTime[j],
					gap:     sep,
					escape:  v.Order[j][i],
					enforce: []milp.Var{v.Order[i][j]},
				}
				if ins.MultiRunway() {
					c.carrier = v.SameRunway[i][j]
					c.slack = ins.Aircraft[i].Latest + sep - ins.Aircraft[j].Earliest
					c.enforce = append(c.enforce, v.SameRunway[i][j])
				} else {
					c.carrier = v.Order[i][j]
					c.slack = ins.Aircraft[i].Latest - ins.Aircraft[j].Earliest
				}
				emit.separation(b, c)
			}
		}
	}
}

// postRunways posts the assignment and linking constraints of multi-runway
// instances: every aircraft lands on exactly one runway, the sharing
// matrix is symmetric, and sharing is implied by any runway carrying both
// aircraft. Only the lower bound of the implication is posted; nothing
// forces sameRunway back to 0 when the runways differ.
func postRunways(b *milp.Builder, ins *alp.Instance, v *Vars) {
	if !ins.MultiRunway() {
		return
	}
	n := ins.NumAircraft()
	one := milp.NewConstant(1)
	for i := 0; i < n; i++ {
		assigned := milp.NewLinearExpr()
		for r := 0; r < ins.Runways; r++ {
			assigned.Add(v.RunwayOf[i][r])
		}
		b.AddEquality(assigned, one)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			b.AddEquality(v.SameRunway[i][j], v.SameRunway[j][i])
			for r := 0; r < ins.Runways; r++ {
				shared := milp.NewLinearExpr().
					Add(v.SameRunway[i][j]).
					AddTerm(v.RunwayOf[i][r], -1).
					AddTerm(v.RunwayOf[j][r], -1)
				b.AddGreaterOrEqual(shared, milp.NewConstant(-1))
			}
		}
	}
}

// postObjective minimizes the penalty-weighted sum of all deviations.
func postObjective(b *milp.Builder, ins *alp.Instance, v *Vars) {
	obj := milp.NewLinearExpr()
	for i := range ins.Aircraft {
		obj.AddTerm(v.EarlyDev[i], ins.Aircraft[i].PenaltyEarly)
		obj.AddTerm(v.LateDev[i], ins.Aircraft[i].PenaltyLate)
	}
	b.Minimize(obj)
}
