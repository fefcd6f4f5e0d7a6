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

// Package alp models aircraft landing problem instances: per-aircraft
// landing windows with deviation penalties, the asymmetric separation
// matrix, and the classification of aircraft pairs by how much their
// windows predetermine the landing order.
package alp

import (
	"errors"
	"fmt"
)

// ErrInvalidInstance is wrapped by every instance validation failure.
var ErrInvalidInstance = errors.New("invalid instance")

// Aircraft holds the static attributes of one flight. All times share one
// clock unit; the penalties weight each unit of deviation from Target in
// the objective.
type Aircraft struct {
	// Appearance is the time the flight enters the radar horizon. It is
	// carried from the instance file and plays no role in the formulation.
	Appearance int64
	Earliest   int64
	Target     int64
	Latest     int64

	PenaltyEarly float64
	PenaltyLate  float64
}

// Instance is one aircraft landing problem. Fill the fields, or use one of
// the readers, and call Validate before formulating a model.
type Instance struct {
	Aircraft []Aircraft

	// Sep[i][j] is the minimum gap between the landing of i and the
	// landing of j when i lands first on the same runway. The matrix is
	// asymmetric and the diagonal is ignored.
	Sep [][]int64

	// FreezeTime is carried from the instance file and plays no role in
	// the formulation.
	FreezeTime int64

	// Runways is the number of available runways, at least 1.
	Runways int
}

// NumAircraft returns the number of aircraft in the instance.
func (ins *Instance) NumAircraft() int {
	return len(ins.Aircraft)
}

// MultiRunway reports whether the instance needs runway assignment
// variables.
func (ins *Instance) MultiRunway() bool {
	return ins.Runways > 1
}

// Validate checks window ordering, penalty signs, the separation matrix
// shape and the runway count. All failures wrap ErrInvalidInstance.
func (ins *Instance) Validate() error {
	if ins.Runways < 1 {
		return fmt.Errorf("%w: runway count is %d, want at least 1", ErrInvalidInstance, ins.Runways)
	}
	n := ins.NumAircraft()
	for i := range ins.Aircraft {
		a := &ins.Aircraft[i]
		if a.Earliest > a.Target || a.Target > a.Latest {
			return fmt.Errorf("%w: aircraft %d window is not ordered: earliest %d, target %d, latest %d",
				ErrInvalidInstance, i, a.Earliest, a.Target, a.Latest)
		}
		if a.PenaltyEarly < 0 || a.PenaltyLate < 0 {
			return fmt.Errorf("%w: aircraft %d has a negative deviation penalty", ErrInvalidInstance, i)
		}
	}
	if len(ins.Sep) != n {
		return fmt.Errorf("%w: separation matrix has %d rows, want %d", ErrInvalidInstance, len(ins.Sep), n)
	}
	for i, row := range ins.Sep {
		if len(row) != n {
			return fmt.Errorf("%w: separation row %d has %d entries, want %d", ErrInvalidInstance, i, len(row), n)
		}
		for j, s := range row {
			if i != j && s < 0 {
				return fmt.Errorf("%w: separation[%d][%d] is %d, want non-negative", ErrInvalidInstance, i, j, s)
			}
		}
	}
	return nil
}
