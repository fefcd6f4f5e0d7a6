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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
)

type rawAircraft struct {
	Appearance   int64   `mapstructure:"appearance"`
	Earliest     int64   `mapstructure:"earliest"`
	Target       int64   `mapstructure:"target"`
	Latest       int64   `mapstructure:"latest"`
	PenaltyEarly float64 `mapstructure:"penaltyEarly"`
	PenaltyLate  float64 `mapstructure:"penaltyLate"`
}

type rawInstance struct {
	Runways    int           `mapstructure:"runways"`
	FreezeTime int64         `mapstructure:"freezeTime"`
	Aircraft   []rawAircraft `mapstructure:"aircraft"`
	Separation [][]int64     `mapstructure:"separation"`
}

// ReadJSON parses an instance from a JSON document with per-aircraft
// objects and a nested separation matrix. A missing "runways" field means
// a single runway. Unlike Read, the document carries the full instance, so
// the result is validated before it is returned.
func ReadJSON(r io.Reader) (*Instance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var raw rawInstance
	if err := mapstructure.Decode(doc, &raw); err != nil {
		return nil, fmt.Errorf("decoding instance: %w", err)
	}

	ins := &Instance{
		Aircraft:   make([]Aircraft, len(raw.Aircraft)),
		Sep:        raw.Separation,
		FreezeTime: raw.FreezeTime,
		Runways:    raw.Runways,
	}
	if ins.Runways == 0 {
		ins.Runways = 1
	}
	for i, a := range raw.Aircraft {
		ins.Aircraft[i] = Aircraft{
			Appearance:   a.Appearance,
			Earliest:     a.Earliest,
			Target:       a.Target,
			Latest:       a.Latest,
			PenaltyEarly: a.PenaltyEarly,
			PenaltyLate:  a.PenaltyLate,
		}
	}
	if err := ins.Validate(); err != nil {
		return nil, err
	}
	return ins, nil
}

// ReadJSONFile reads a JSON instance from a file.
func ReadJSONFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ins, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ins, nil
}
