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
	"testing"
)

func TestSimplex_Maximize(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewVar(0, 20)
	y := model.NewVar(0, 20)
	model.AddLessOrEqual(NewLinearExpr().Add(x).AddTerm(y, 2), NewConstant(14))
	model.AddGreaterOrEqual(NewLinearExpr().AddTerm(x, 3).AddTerm(y, -1), NewConstant(0))
	model.AddLessOrEqual(NewLinearExpr().Add(x).AddTerm(y, -1), NewConstant(2))
	model.Maximize(NewLinearExpr().AddTerm(x, 3).AddTerm(y, 4))

	res, err := (&SimplexSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusOptimal)
	}
	if !approxEq(res.Objective, 34) {
		t.Errorf("Solve() objective = %v, want 34", res.Objective)
	}
	if !approxEq(res.Value(x), 6) || !approxEq(res.Value(y), 4) {
		t.Errorf("Value(x), Value(y) = %v, %v, want 6, 4", res.Value(x), res.Value(y))
	}
}

func TestSimplex_DropsIntegrality(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewIntVar(0, 10)
	model.AddGreaterOrEqual(NewLinearExpr().AddTerm(x, 2), NewConstant(3))
	model.Minimize(NewLinearExpr().Add(x))

	res, err := (&SimplexSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusOptimal)
	}
	if !approxEq(res.Value(x), 1.5) {
		t.Errorf("Value(x) = %v, want the fractional 1.5", res.Value(x))
	}
}

func TestSimplex_Equality(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewVar(0, 10)
	y := model.NewVar(0, 3)
	model.AddEquality(NewLinearExpr().AddSum(x, y), NewConstant(4))
	model.Minimize(NewLinearExpr().Add(x))

	res, err := (&SimplexSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusOptimal)
	}
	if !approxEq(res.Value(x), 1) {
		t.Errorf("Value(x) = %v, want 1", res.Value(x))
	}
	if sum := res.Value(x) + res.Value(y); !approxEq(sum, 4) {
		t.Errorf("x+y = %v, want 4", sum)
	}
}

func TestSimplex_Infeasible(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewVar(0, 1)
	model.AddGreaterOrEqual(x, NewConstant(3))

	res, err := (&SimplexSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusInfeasible {
		t.Errorf("Solve() status = %v, want %v", res.Status, StatusInfeasible)
	}
}

func TestSimplex_EmptyDomainIsInfeasible(t *testing.T) {
	model := NewModelBuilder()
	model.NewVar(3, 2)

	res, err := (&SimplexSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusInfeasible {
		t.Errorf("Solve() status = %v, want %v", res.Status, StatusInfeasible)
	}
}

func TestSimplex_EmptyModel(t *testing.T) {
	model := NewModelBuilder()

	res, err := (&SimplexSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusOptimal)
	}
	if !approxEq(res.Objective, 0) {
		t.Errorf("Solve() objective = %v, want 0", res.Objective)
	}
}

func TestSimplex_FixedVariable(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewVar(2, 2)
	y := model.NewVar(0, 5)
	model.AddGreaterOrEqual(y, x)
	model.Minimize(NewLinearExpr().AddSum(x, y))

	res, err := (&SimplexSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusOptimal)
	}
	if !approxEq(res.Objective, 4) {
		t.Errorf("Solve() objective = %v, want 4", res.Objective)
	}
}

func TestSimplex_NegativeLowerBounds(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewVar(-10, 10)
	model.AddGreaterOrEqual(x, NewConstant(-4))
	model.Minimize(NewLinearExpr().Add(x))

	res, err := (&SimplexSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if !approxEq(res.Value(x), -4) {
		t.Errorf("Value(x) = %v, want -4", res.Value(x))
	}
}

func TestSimplex_PivotLimitMapsToUnknown(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewVar(0, 10)
	model.AddGreaterOrEqual(x, NewConstant(3))
	model.Minimize(NewLinearExpr().Add(x))

	s := &SimplexSolver{Params: Params{MaxPivots: 1}}
	res, err := s.Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusUnknown {
		t.Errorf("Solve() status = %v, want %v", res.Status, StatusUnknown)
	}
	if res.HasSolution() {
		t.Errorf("HasSolution() = true, want false")
	}
}

func TestSimplex_PivotLimitKeepsIncumbentFeasible(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewVar(0, 10)
	y := model.NewVar(0, 10)
	model.Maximize(NewLinearExpr().AddSum(x, y))

	// One pivot moves x to its bound; the cap stops the run before y follows,
	// so the current vertex is returned without a proof of optimality.
	s := &SimplexSolver{Params: Params{MaxPivots: 1}}
	res, err := s.Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusFeasible {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusFeasible)
	}
	if !res.HasSolution() {
		t.Fatalf("HasSolution() = false, want true")
	}
	if !approxEq(res.Objective, 10) {
		t.Errorf("Solve() objective = %v, want the partial 10", res.Objective)
	}
	if !approxEq(res.Value(x), 10) || !approxEq(res.Value(y), 0) {
		t.Errorf("Value(x), Value(y) = %v, %v, want 10, 0", res.Value(x), res.Value(y))
	}
}

func TestSimplex_RejectsEnforcedConstraints(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewVar(0, 10)
	b := model.NewBoolVar()
	model.AddGreaterOrEqual(x, NewConstant(3)).OnlyEnforceIf(b)

	if _, err := (&SimplexSolver{}).Solve(mustModel(t, model)); err == nil {
		t.Errorf("Solve() returned with nil err, want error")
	}
}
