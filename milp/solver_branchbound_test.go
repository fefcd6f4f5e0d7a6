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
	"testing"
)

func approxEq(x, y float64) bool {
	return math.Abs(x-y) < 1e-6
}

func TestBranchBound_MinimizeSum(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewIntVar(0, 5)
	y := model.NewIntVar(0, 5)
	model.AddGreaterOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(3))
	model.Minimize(NewLinearExpr().AddSum(x, y))

	res, err := (&BranchBoundSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusOptimal)
	}
	if !approxEq(res.Objective, 3) {
		t.Errorf("Solve() objective = %v, want 3", res.Objective)
	}
	if sum := res.Value(x) + res.Value(y); !approxEq(sum, 3) {
		t.Errorf("x+y = %v, want 3", sum)
	}
}

func TestBranchBound_EnforcementLiterals(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewIntVar(0, 10)
	b := model.NewBoolVar()
	model.AddGreaterOrEqual(x, NewConstant(7)).OnlyEnforceIf(b)
	model.AddGreaterOrEqual(x, NewConstant(3)).OnlyEnforceIf(b.Not())
	model.Minimize(NewLinearExpr().Add(x).AddTerm(b, 2))

	res, err := (&BranchBoundSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusOptimal)
	}
	if !approxEq(res.Objective, 3) {
		t.Errorf("Solve() objective = %v, want 3", res.Objective)
	}
	if res.BoolValue(b) {
		t.Errorf("BoolValue(b) = true, want false")
	}
	if !approxEq(res.Value(x), 3) {
		t.Errorf("Value(x) = %v, want 3", res.Value(x))
	}
}

func TestBranchBound_Infeasible(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewIntVar(0, 5)
	model.AddGreaterOrEqual(x, NewConstant(3))
	model.AddLessOrEqual(x, NewConstant(2))

	res, err := (&BranchBoundSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusInfeasible {
		t.Errorf("Solve() status = %v, want %v", res.Status, StatusInfeasible)
	}
	if res.HasSolution() {
		t.Errorf("HasSolution() = true, want false")
	}
}

func TestBranchBound_Maximize(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewIntVar(0, 5)
	model.Maximize(NewLinearExpr().AddTerm(x, 2).AddConstant(1))

	res, err := (&BranchBoundSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusOptimal)
	}
	if !approxEq(res.Objective, 11) {
		t.Errorf("Solve() objective = %v, want 11", res.Objective)
	}
	if !approxEq(res.Value(x), 5) {
		t.Errorf("Value(x) = %v, want 5", res.Value(x))
	}
}

func TestBranchBound_ExactlyOneOfPair(t *testing.T) {
	model := NewModelBuilder()
	b01 := model.NewBoolVar()
	b10 := model.NewBoolVar()
	model.AddLinearConstraint(NewLinearExpr().AddSum(b01, b10), 1, 1)
	model.Minimize(NewLinearExpr().AddTerm(b01, 2).Add(b10))

	res, err := (&BranchBoundSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if !approxEq(res.Objective, 1) {
		t.Errorf("Solve() objective = %v, want 1", res.Objective)
	}
	if res.BoolValue(b01) || !res.BoolValue(b10) {
		t.Errorf("BoolValue(b01), BoolValue(b10) = %v, %v, want false, true", res.BoolValue(b01), res.BoolValue(b10))
	}
}

func TestBranchBound_HintGuidesFirstLeaf(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewIntVar(0, 10)
	model.SetHint(&Hint{Ints: map[Var]int64{x: 4}})

	res, err := (&BranchBoundSolver{}).Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want %v", res.Status, StatusOptimal)
	}
	if !approxEq(res.Value(x), 4) {
		t.Errorf("Value(x) = %v, want the hinted 4", res.Value(x))
	}
}

func TestBranchBound_NodeLimitMapsToUnknown(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewIntVar(0, 10)
	y := model.NewIntVar(0, 10)
	model.AddGreaterOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(5))
	model.Minimize(NewLinearExpr().AddSum(x, y))

	s := &BranchBoundSolver{Params: Params{MaxNodes: 1}}
	res, err := s.Solve(mustModel(t, model))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if res.Status != StatusUnknown {
		t.Errorf("Solve() status = %v, want %v", res.Status, StatusUnknown)
	}
}

func TestBranchBound_NodeLimitKeepsIncumbentFeasible(t *testing.T) {
	model := NewModelBuilder()
	x := model.NewIntVar(0, 3)
	y := model.NewIntVar(0, 3)
	model.AddGreaterOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(2))
	model.Minimize(NewLinearExpr().AddSum(x, y))
	// The hint steers the first descent to the leaf (3, 3), which the node
	// budget admits; proving optimality would need more nodes than it grants.
	model.SetHint(&Hint{Ints: map[Var]int64{x: 3, y: 3}})

	s := &BranchBoundSolver{Params: Params{MaxNodes: 3}}
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
	if !approxEq(res.Objective, 6) {
		t.Errorf("Solve() objective = %v, want the hinted incumbent 6", res.Objective)
	}
}

func TestBranchBound_RejectsContinuousVariables(t *testing.T) {
	model := NewModelBuilder()
	model.NewVar(0, 1)

	if _, err := (&BranchBoundSolver{}).Solve(mustModel(t, model)); err == nil {
		t.Errorf("Solve() returned with nil err, want error")
	}
}

func TestBranchBound_DeterministicAcrossRuns(t *testing.T) {
	build := func() *Model {
		model := NewModelBuilder()
		x := model.NewIntVar(0, 9)
		y := model.NewIntVar(0, 9)
		z := model.NewIntVar(0, 9)
		model.AddGreaterOrEqual(NewLinearExpr().AddSum(x, y, z), NewConstant(10))
		model.AddLessOrEqual(NewLinearExpr().Add(x).AddTerm(y, 2), NewConstant(12))
		model.Minimize(NewLinearExpr().AddWeightedSum([]LinearArgument{x, y, z}, []float64{3, 2, 4}))
		return mustModel(t, model)
	}

	first, err := (&BranchBoundSolver{}).Solve(build())
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	second, err := (&BranchBoundSolver{}).Solve(build())
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error: %v", err)
	}
	if first.Status != second.Status || !approxEq(first.Objective, second.Objective) {
		t.Errorf("repeated Solve() = (%v, %v) then (%v, %v), want identical results",
			first.Status, first.Objective, second.Status, second.Objective)
	}
	if first.Nodes != second.Nodes {
		t.Errorf("repeated Solve() explored %d then %d nodes, want identical search", first.Nodes, second.Nodes)
	}
}

func ExampleBranchBoundSolver() {
	model := NewModelBuilder()
	x := model.NewIntVar(0, 10)
	y := model.NewIntVar(0, 10)
	model.AddGreaterOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(6))
	model.Minimize(NewLinearExpr().AddTerm(x, 2).Add(y))

	m, err := model.Model()
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := (&BranchBoundSolver{}).Solve(m)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%v objective=%v\n", res.Status, res.Objective)
	// Output: OPTIMAL objective=6
}
