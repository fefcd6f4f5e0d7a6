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

package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airsched/airland/alp"
	"github.com/airsched/airland/alpmodel"
	"github.com/airsched/airland/milp"
)

func TestMemoryRSS(t *testing.T) {
	rss, err := MemoryRSS()
	require.NoError(t, err)
	assert.Positive(t, rss)
}

func TestProfileCollectsModelMetrics(t *testing.T) {
	ins := &alp.Instance{
		Aircraft: []alp.Aircraft{
			{Earliest: 0, Target: 10, Latest: 20, PenaltyEarly: 1, PenaltyLate: 1},
			{Earliest: 0, Target: 12, Latest: 20, PenaltyEarly: 1, PenaltyLate: 1},
		},
		Sep:     [][]int64{{0, 5}, {5, 0}},
		Runways: 1,
	}
	m, err := alpmodel.Build(ins, alpmodel.ModeExact)
	require.NoError(t, err)

	sol, perf, err := Profile(m, nil)
	require.NoError(t, err)
	require.NotNil(t, sol)

	assert.Equal(t, alpmodel.ModeExact, perf.Mode)
	assert.Equal(t, milp.StatusOptimal, perf.Status)
	assert.InDelta(t, 3.0, perf.Objective, 1e-6)
	assert.Equal(t, m.Milp.NumVariables(), perf.Variables)
	assert.Equal(t, m.Milp.NumConstraints(), perf.Constraints)
	assert.Positive(t, perf.Nodes)
	assert.Zero(t, perf.Pivots)
	assert.Positive(t, perf.RSSBefore)
	assert.GreaterOrEqual(t, perf.WallTime, time.Duration(0))
}

func TestWritePerf(t *testing.T) {
	p := &Perf{
		Mode:        alpmodel.ModeExact,
		Status:      milp.StatusOptimal,
		Objective:   3,
		WallTime:    1500 * time.Millisecond,
		Variables:   8,
		Constraints: 9,
		Nodes:       42,
		RSSBefore:   10 << 20,
		RSSAfter:    12 << 20,
	}
	var buf bytes.Buffer
	require.NoError(t, WritePerf(&buf, p))
	out := buf.String()

	assert.Contains(t, out, "Performance Metrics for EXACT")
	assert.Contains(t, out, "-> Execution time: 1.50 seconds")
	assert.Contains(t, out, "-> Number of variables in the model: 8")
	assert.Contains(t, out, "-> Number of constraints in the model: 9")
	assert.Contains(t, out, "-> Solution Status: OPTIMAL")
	assert.Contains(t, out, "-> Number of Branches: 42")
	assert.NotContains(t, out, "Pivots")
	assert.Contains(t, out, "-> Total penalty: 3.0")
	assert.Contains(t, out, "-> Memory usage: 2.00 MB")
}

func TestMemoryDeltaCanBeNegative(t *testing.T) {
	p := &Perf{RSSBefore: 12 << 20, RSSAfter: 10 << 20}
	assert.InDelta(t, -2.0, p.MemoryDeltaMB(), 1e-9)
}
