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

type (
	// VarIndex is the index of a variable in the model, if positive. If this value is
	// negative, it represents the negation of a binary variable in the position
	// (-1*VarIndex-1).
	VarIndex int32
	// ConstrIndex is the index of a constraint in the model.
	ConstrIndex int32
)

func (v VarIndex) positiveIndex() VarIndex {
	if v >= 0 {
		return v
	}
	return -1*v - 1
}

// VarKind describes how a solver must treat the values of a variable.
type VarKind uint8

const (
	// Continuous variables take any value within their bounds.
	Continuous VarKind = iota
	// Integer variables take integral values within their bounds.
	Integer
	// Binary variables take the values 0 or 1 and may be used as
	// enforcement literals.
	Binary
)

func (k VarKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	}
	return "unknown"
}

// VarData is the stored form of one decision variable. Bounds are inclusive
// and always finite.
type VarData struct {
	Lo, Hi float64
	Kind   VarKind
}

// Term is one variable/coefficient product inside a stored linear form. Term
// lists are kept sorted by variable index with duplicates merged.
type Term struct {
	Var   VarIndex
	Coeff float64
}

// ConstraintData is the stored form of one linear constraint: the term sum
// must lie in [Lo, Hi], where either side may be infinite. When Enforced is
// non-empty the constraint only applies if all listed literals are true;
// negative entries follow the VarIndex negation encoding.
type ConstraintData struct {
	Terms    []Term
	Lo, Hi   float64
	Enforced []VarIndex
}

// ObjectiveData is the stored form of the linear objective. Solvers minimize
// the term sum plus Offset; Maximize records the caller's direction so they
// negate internally.
type ObjectiveData struct {
	Terms    []Term
	Offset   float64
	Maximize bool
}

// Model is the solver independent description of a mixed linear model. It is
// produced by Builder.Model, consumed by Solver implementations, and contains
// plain data only, so it can be compared or handed to a backend living in
// another process.
type Model struct {
	Vars        []VarData
	Constraints []ConstraintData
	// Objective is nil for pure feasibility models.
	Objective *ObjectiveData
	// Hints is a partial assignment that search backends may use to guide
	// their first descent, keyed by positive variable index.
	Hints map[VarIndex]float64
	// BranchOrder lists the variables search backends should decide first,
	// by positive index. Variables not listed keep their creation order.
	BranchOrder []VarIndex
}

// NumVariables returns the number of variables in the model.
func (m *Model) NumVariables() int { return len(m.Vars) }

// NumConstraints returns the number of constraints in the model.
func (m *Model) NumConstraints() int { return len(m.Constraints) }
