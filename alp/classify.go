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

package alp

import (
	log "github.com/golang/glog"
)

// PairClass describes how much the landing windows of an ordered aircraft
// pair predetermine its landing order.
type PairClass uint8

const (
	// ClassNone marks a direction whose order is settled by the mirror
	// pair; nothing needs to be posted for it.
	ClassNone PairClass = iota
	// ClassCertainSeparated (set W) holds when i certainly lands before j
	// and the gap between the windows alone covers the required
	// separation, so only the order indicator has to be fixed.
	ClassCertainSeparated
	// ClassCertainUnseparated (set V) holds when i certainly lands before
	// j but an explicit separation inequality is still required.
	ClassCertainUnseparated
	// ClassUncertain (set U) holds when the windows overlap: the order is
	// a genuine decision and the separation must be conditioned on it.
	ClassUncertain
)

func (c PairClass) String() string {
	switch c {
	case ClassCertainSeparated:
		return "W"
	case ClassCertainUnseparated:
		return "V"
	case ClassUncertain:
		return "U"
	}
	return "none"
}

// Pair is an ordered aircraft pair.
type Pair struct {
	I, J int
}

// Classification is the per-direction pair classification of one instance.
type Classification struct {
	class [][]PairClass

	// Ambiguous lists the ordered pairs whose window tests matched more
	// than one class. The stored class of such a pair is the first match
	// in W, V, U order; callers decide whether to tolerate the overlap.
	Ambiguous []Pair
}

// Classify partitions every ordered pair of distinct aircraft into W, V or
// U using only the window bounds and the separation entry of that
// direction. The tests for (i,j) and (j,i) run independently because the
// separation matrix is asymmetric; a pair matching several tests at once
// is recorded in Ambiguous rather than resolved silently.
func Classify(ins *Instance) *Classification {
	n := ins.NumAircraft()
	c := &Classification{class: make([][]PairClass, n)}
	for i := range c.class {
		c.class[i] = make([]PairClass, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			ai, aj := &ins.Aircraft[i], &ins.Aircraft[j]
			certain := ai.Latest < aj.Earliest
			w := certain && ai.Latest+ins.Sep[i][j] <= aj.Earliest
			v := certain && ai.Latest+ins.Sep[i][j] > aj.Earliest
			u := windowsOverlap(ai, aj)
			switch {
			case w:
				c.class[i][j] = ClassCertainSeparated
			case v:
				c.class[i][j] = ClassCertainUnseparated
			case u:
				c.class[i][j] = ClassUncertain
			}
			matches := 0
			if w {
				matches++
			}
			if v {
				matches++
			}
			if u {
				matches++
			}
			if matches > 1 {
				c.Ambiguous = append(c.Ambiguous, Pair{i, j})
				log.Warningf("pair (%d,%d) matches %d classes, keeping %v", i, j, matches, c.class[i][j])
			}
		}
	}
	return c
}

// windowsOverlap reports whether either landing window contains an
// endpoint of the other.
func windowsOverlap(a, b *Aircraft) bool {
	return (b.Earliest <= a.Earliest && a.Earliest <= b.Latest) ||
		(b.Earliest <= a.Latest && a.Latest <= b.Latest) ||
		(a.Earliest <= b.Earliest && b.Earliest <= a.Latest) ||
		(a.Earliest <= b.Latest && b.Latest <= a.Latest)
}

// Class returns the class of the ordered pair (i,j).
func (c *Classification) Class(i, j int) PairClass {
	return c.class[i][j]
}

// Counts returns the number of ordered pairs in each of W, V and U.
func (c *Classification) Counts() (w, v, u int) {
	for i := range c.class {
		for j := range c.class[i] {
			switch c.class[i][j] {
			case ClassCertainSeparated:
				w++
			case ClassCertainUnseparated:
				v++
			case ClassUncertain:
				u++
			}
		}
	}
	return w, v, u
}
