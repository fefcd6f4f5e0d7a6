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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	log "github.com/golang/glog"
)

// tokenReader walks a whitespace-separated token stream, ignoring line
// boundaries entirely.
type tokenReader struct {
	sc *bufio.Scanner
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) nextInt() (int64, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.ParseInt(t.sc.Text(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad integer %q", t.sc.Text())
	}
	return v, nil
}

func (t *tokenReader) nextFloat() (float64, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.ParseFloat(t.sc.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", t.sc.Text())
	}
	return v, nil
}

// Read parses an instance in the OR-LIB airland format: the aircraft count
// and the freeze time, then per aircraft its appearance, earliest, target
// and latest times, the early and late penalties, and one separation value
// per aircraft in the instance. The format is a plain token stream, so any
// record may wrap across physical lines. Runways is set to 1; callers
// formulating for several runways overwrite it.
//
// Read performs no semantic validation; call Instance.Validate, or let the
// model builder do it.
func Read(r io.Reader) (*Instance, error) {
	tr := newTokenReader(r)
	n, err := tr.nextInt()
	if err != nil {
		return nil, fmt.Errorf("reading aircraft count: %w", err)
	}
	if n < 0 {
		return nil, fmt.Errorf("aircraft count %d is negative", n)
	}
	freeze, err := tr.nextInt()
	if err != nil {
		return nil, fmt.Errorf("reading freeze time: %w", err)
	}

	ins := &Instance{
		Aircraft:   make([]Aircraft, n),
		Sep:        make([][]int64, n),
		FreezeTime: freeze,
		Runways:    1,
	}
	for i := range ins.Aircraft {
		a := &ins.Aircraft[i]
		if a.Appearance, err = tr.nextInt(); err != nil {
			return nil, fmt.Errorf("aircraft %d appearance time: %w", i, err)
		}
		if a.Earliest, err = tr.nextInt(); err != nil {
			return nil, fmt.Errorf("aircraft %d earliest time: %w", i, err)
		}
		if a.Target, err = tr.nextInt(); err != nil {
			return nil, fmt.Errorf("aircraft %d target time: %w", i, err)
		}
		if a.Latest, err = tr.nextInt(); err != nil {
			return nil, fmt.Errorf("aircraft %d latest time: %w", i, err)
		}
		if a.PenaltyEarly, err = tr.nextFloat(); err != nil {
			return nil, fmt.Errorf("aircraft %d early penalty: %w", i, err)
		}
		if a.PenaltyLate, err = tr.nextFloat(); err != nil {
			return nil, fmt.Errorf("aircraft %d late penalty: %w", i, err)
		}
		row := make([]int64, n)
		for j := range row {
			if row[j], err = tr.nextInt(); err != nil {
				return nil, fmt.Errorf("aircraft %d separation entry %d: %w", i, j, err)
			}
		}
		ins.Sep[i] = row
	}
	return ins, nil
}

// ReadFile reads an OR-LIB airland instance from a file.
func ReadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ins, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.V(1).Infof("read %d aircraft from %s", ins.NumAircraft(), path)
	return ins, nil
}
