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

// Package milp offers a user-friendly API to build and solve mixed linear
// models.
//
// The `Builder` struct wraps the model under construction and provides helper
// methods for adding variables and linear constraints, optionally guarded by
// enforcement literals. The `Var` struct is a reference to a specific variable
// of the model. The `LinearExpr` struct provides helper methods for creating
// constraints and the objective from expressions with many variables and
// coefficients.
//
// Built models are plain data and are solved through the `Solver` interface.
// The package bundles two in-process backends, `BranchBoundSolver` for
// integer models with enforcement literals and `SimplexSolver` for linear
// relaxations; external backends can satisfy the same interface.
package milp

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

// ErrMixedModels holds the error when elements added to a model are different.
var ErrMixedModels = errors.New("elements are not part of the same model")

// Var is a reference to a variable in the model. For binary variables a
// negative index refers to the negation, see VarIndex.
//
// The zero Var is not a reference; it is the placeholder used where no
// variable exists, and only IsValid may be called on it.
type Var struct {
	ind VarIndex
	mb  *Builder
}

// Index returns the index of the variable. If the variable is a negation of
// a binary variable v, its index is `-1*v.index-1`.
func (v Var) Index() VarIndex {
	return v.ind
}

// Kind returns the kind of the variable.
func (v Var) Kind() VarKind {
	return v.mb.m.Vars[v.ind.positiveIndex()].Kind
}

// IsValid reports whether the reference points at a variable of some model.
func (v Var) IsValid() bool {
	return v.mb != nil
}

// Not returns the logical not of a binary variable. Calling Not on a variable
// of any other kind records an error on the builder.
func (v Var) Not() Var {
	if v.Kind() != Binary {
		v.mb.setErrorf("Not() called on %v variable %v", v.Kind(), v.ind)
	}
	return Var{ind: -1*v.ind - 1, mb: v.mb}
}

func (v Var) addToLinearExpr(e *LinearExpr, c float64) {
	if v.ind < 0 {
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: v.ind.positiveIndex(), coeff: -c})
		e.offset += c
	} else {
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: v.ind, coeff: c})
	}
}

func (v Var) evaluate(values []float64) float64 {
	if v.ind < 0 {
		return 1 - values[v.ind.positiveIndex()]
	}
	return values[v.ind]
}

// Constraint is a reference to a constraint in the model.
type Constraint struct {
	ind ConstrIndex
	mb  *Builder
}

// Index returns the index of the constraint.
func (c Constraint) Index() ConstrIndex {
	return c.ind
}

// OnlyEnforceIf adds a condition on the constraint. The constraint is only
// enforced iff all literals given are true. Literals must reference binary
// variables.
func (c Constraint) OnlyEnforceIf(lits ...Var) Constraint {
	for _, lit := range lits {
		if !c.mb.checkSameModelAndSetErrorf(lit.mb, "Var %v added to Constraint %v", lit.Index(), c.ind) {
			continue
		}
		if lit.Kind() != Binary {
			c.mb.setErrorf("enforcement literal %v on Constraint %v is %v, not binary", lit.ind, c.ind, lit.Kind())
			continue
		}
		ct := &c.mb.m.Constraints[c.ind]
		ct.Enforced = append(ct.Enforced, lit.ind)
	}
	return c
}

// Builder provides a wrapper for a Model under construction.
type Builder struct {
	m         Model
	constants map[float64]VarIndex
	hasTrue   bool
	trueInd   VarIndex
	hasFalse  bool
	falseInd  VarIndex
	hint      *Hint
	// The first and only the first error is reported by Model.
	err error
}

// NewModelBuilder creates and returns a new model Builder.
func NewModelBuilder() *Builder {
	return &Builder{constants: make(map[float64]VarIndex)}
}

func (mb *Builder) setErrorf(format string, a ...any) {
	if mb.err == nil {
		mb.err = fmt.Errorf(format, a...)
	}
}

// checkSameModelAndSetErrorf returns true if `mb` and `mb2` point to the same
// Builder. If false, an error with the given message is set on `mb` if
// `mb.err` is nil.
func (mb *Builder) checkSameModelAndSetErrorf(mb2 *Builder, format string, a ...any) bool {
	if mb == mb2 {
		return true
	}
	var args = make([]any, len(a)+1)
	copy(args, a)
	args[len(a)] = ErrMixedModels
	err := fmt.Errorf(format+": %w", args...)
	log.Errorf("%v; use `-log_backtrace_at` flag to get the error stack", err)
	if mb.err == nil {
		mb.err = err
	}
	return false
}

func (mb *Builder) newVar(lo, hi float64, kind VarKind) Var {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		mb.setErrorf("variable bounds must be finite, got [%v, %v]", lo, hi)
	}
	v := Var{mb: mb, ind: VarIndex(len(mb.m.Vars))}
	mb.m.Vars = append(mb.m.Vars, VarData{Lo: lo, Hi: hi, Kind: kind})
	return v
}

// NewVar creates a new continuous variable with the inclusive bounds [lo, hi].
func (mb *Builder) NewVar(lo, hi float64) Var {
	return mb.newVar(lo, hi, Continuous)
}

// NewIntVar creates a new integer variable with the inclusive bounds [lo, hi].
func (mb *Builder) NewIntVar(lo, hi int64) Var {
	return mb.newVar(float64(lo), float64(hi), Integer)
}

// NewBoolVar creates a new binary variable.
func (mb *Builder) NewBoolVar() Var {
	return mb.newVar(0, 1, Binary)
}

// NewConstant creates a fixed variable. If this is called multiple times with
// the same value, the same variable will always be returned.
func (mb *Builder) NewConstant(v float64) Var {
	if i, ok := mb.constants[v]; ok {
		return Var{mb: mb, ind: i}
	}
	constVar := mb.NewVar(v, v)
	mb.constants[v] = constVar.ind
	return constVar
}

// TrueVar creates an always true binary variable. If this is called multiple
// times, the same variable will always be returned.
func (mb *Builder) TrueVar() Var {
	if mb.hasTrue {
		return Var{mb: mb, ind: mb.trueInd}
	}
	v := mb.newVar(1, 1, Binary)
	mb.hasTrue, mb.trueInd = true, v.ind
	return v
}

// FalseVar creates an always false binary variable. If this is called multiple
// times, the same variable will always be returned.
func (mb *Builder) FalseVar() Var {
	if mb.hasFalse {
		return Var{mb: mb, ind: mb.falseInd}
	}
	v := mb.newVar(0, 0, Binary)
	mb.hasFalse, mb.falseInd = true, v.ind
	return v
}

// addLinearConstraint stores the constraint that the value of `le` is in
// [lo, hi]. The constant offset of `le` is folded into the interval. Stored
// terms are merged and sorted so identical build sequences produce identical
// models.
func (mb *Builder) addLinearConstraint(le *LinearExpr, lo, hi float64) Constraint {
	i := ConstrIndex(len(mb.m.Constraints))
	mb.m.Constraints = append(mb.m.Constraints, ConstraintData{
		Terms: canonicalTerms(le.varCoeffs),
		Lo:    lo - le.offset,
		Hi:    hi - le.offset,
	})
	return Constraint{mb: mb, ind: i}
}

// AddLinearConstraint adds the linear constraint `lo <= expr <= hi`. Either
// side may be infinite for a one-sided constraint.
func (mb *Builder) AddLinearConstraint(expr LinearArgument, lo, hi float64) Constraint {
	linExpr := NewLinearExpr().Add(expr)
	return mb.addLinearConstraint(linExpr, lo, hi)
}

// AddEquality adds the linear constraint `lhs == rhs`.
func (mb *Builder) AddEquality(lhs, rhs LinearArgument) Constraint {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return mb.addLinearConstraint(diff, 0, 0)
}

// AddGreaterOrEqual adds the linear constraint `lhs >= rhs`.
func (mb *Builder) AddGreaterOrEqual(lhs, rhs LinearArgument) Constraint {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return mb.addLinearConstraint(diff, 0, math.Inf(1))
}

// AddLessOrEqual adds the linear constraint `lhs <= rhs`.
func (mb *Builder) AddLessOrEqual(lhs, rhs LinearArgument) Constraint {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return mb.addLinearConstraint(diff, math.Inf(-1), 0)
}

// Minimize sets a linear minimization objective, replacing any previous
// objective.
func (mb *Builder) Minimize(obj LinearArgument) {
	o := NewLinearExpr().Add(obj)
	mb.m.Objective = &ObjectiveData{Terms: canonicalTerms(o.varCoeffs), Offset: o.offset}
}

// Maximize sets a linear maximization objective, replacing any previous
// objective.
func (mb *Builder) Maximize(obj LinearArgument) {
	mb.Minimize(obj)
	mb.m.Objective.Maximize = true
}

// Hint is a container for variable hints passed to search backends.
type Hint struct {
	Ints  map[Var]int64
	Bools map[Var]bool
}

// SetHint sets the hint on the model.
func (mb *Builder) SetHint(hint *Hint) {
	mb.hint = hint
}

// ClearHint clears any hints on the model.
func (mb *Builder) ClearHint() {
	mb.hint = nil
}

func (mb *Builder) flattenHint() map[VarIndex]float64 {
	if mb.hint == nil || (len(mb.hint.Ints) == 0 && len(mb.hint.Bools) == 0) {
		return nil
	}
	flat := make(map[VarIndex]float64, len(mb.hint.Ints)+len(mb.hint.Bools))
	set := func(v Var, value float64) {
		if !mb.checkSameModelAndSetErrorf(v.mb, "Var %v added to the hint", v.Index()) {
			return
		}
		if v.ind < 0 {
			value = 1 - value
		}
		flat[v.ind.positiveIndex()] = value
	}
	for v, hint := range mb.hint.Ints {
		set(v, float64(hint))
	}
	for v, hint := range mb.hint.Bools {
		var hintInt float64
		if hint {
			hintInt = 1
		}
		set(v, hintInt)
	}
	return flat
}

// SetBranchOrder tells search backends which variables to decide first,
// replacing any previous order. Variables not listed keep their creation
// order after the listed ones.
func (mb *Builder) SetBranchOrder(vars ...Var) {
	mb.m.BranchOrder = nil
	for _, v := range vars {
		if !mb.checkSameModelAndSetErrorf(v.mb, "invalid parameter var %v added to the branch order", v.Index()) {
			return
		}
		mb.m.BranchOrder = append(mb.m.BranchOrder, v.ind.positiveIndex())
	}
}

// Model returns the built model. The Model returned points at the Builder's
// internal state; modifying it and then continuing to use the Builder API can
// result in an invalid model.
//
// Model returns an error when invalid parameters have been used during model
// building (e.g. passing variables from other builders).
func (mb *Builder) Model() (*Model, error) {
	hints := mb.flattenHint()
	if mb.err != nil {
		return nil, mb.err
	}
	mb.m.Hints = hints
	return &mb.m, nil
}
