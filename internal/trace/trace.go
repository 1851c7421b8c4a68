// Copyright (c) 2026 The BMC Authors.
//
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

// Package trace reconstructs a symbolic counterexample or simulation
// trace - one assignment of named model variables per time step - from a
// satisfied SAT model.
package trace

import (
	"fmt"
	"sort"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/satsolver"
)

// State is one time step of a trace: the value of every model variable
// that was actually reachable from the formula (so, typically, every
// frozen and state variable, and every input variable at every step but
// the last).
type State struct {
	Time   int
	Values map[string]bool
}

// Trace is a full counterexample or simulation run: k+1 states, plus the
// loop structure (if any) that makes it an infinite witness for an LTL
// property rather than just a finite prefix.
type Trace struct {
	States   []State
	Loopback config.Loopback
}

// Reconstruct walks every committed variable at every time 0..k, looks up
// its model value through inst's CNF back-map, and assembles a Trace. lb
// records the loop structure the formula was built under, purely for
// display - Reconstruct does not itself verify the loop condition holds
// in the model (the SAT solver already guarantees that, since the loop
// condition was part of the solved formula).
func Reconstruct(enc *beenc.Encoder, inst *cnf.Instance, solver satsolver.Solver, k int, lb config.Loopback) (*Trace, error) {
	enc.GrowBound(k)
	backByVar := make(map[int32]int32, len(inst.BackMap))
	for cnfVar, lit := range inst.BackMap {
		backByVar[lit.Var()] = cnfVar
	}

	states := make([]State, k+1)
	for t := 0; t <= k; t++ {
		values := make(map[string]bool)
		for _, kind := range []beenc.Kind{beenc.KindState, beenc.KindFrozen, beenc.KindInput} {
			if kind == beenc.KindInput && t == k {
				continue // inputs are undefined at the final step
			}
			for _, id := range enc.Untimed(kind) {
				name, ok := enc.UntimedToName(id)
				if !ok {
					continue
				}
				lit, err := enc.UntimedToTimed(id, t)
				if err != nil {
					return nil, fmt.Errorf("trace: shifting %s at time %d: %w", name, t, err)
				}
				if v, ok := lookupValue(backByVar, solver, lit); ok {
					values[name] = v
				}
			}
		}
		states[t] = State{Time: t, Values: values}
	}
	return &Trace{States: states, Loopback: lb}, nil
}

func lookupValue(backByVar map[int32]int32, solver satsolver.Solver, lit be.Lit) (bool, bool) {
	cnfVar, ok := backByVar[lit.Var()]
	if !ok {
		return false, false
	}
	v := solver.Value(cnfVar)
	if !lit.IsPos() {
		v = !v
	}
	return v, true
}

// String renders t as the line-per-state, sorted-name-per-line textual
// format NuSMV-style tools traditionally print traces in.
func (t *Trace) String() string {
	out := ""
	for _, s := range t.States {
		out += fmt.Sprintf("-> State %d <-\n", s.Time)
		names := make([]string, 0, len(s.Values))
		for n := range s.Values {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			out += fmt.Sprintf("  %s = %v\n", n, s.Values[n])
		}
	}
	if t.Loopback.Kind != config.LoopbackNone {
		out += fmt.Sprintf("-- loop: %s\n", t.Loopback.String())
	}
	return out
}
