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

package trace

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/invar"
	"github.com/nusmv-go/bmc/internal/satsolver"
	"github.com/nusmv-go/bmc/internal/sexp"
)

func TestReconstructRecoversNamedAssignments(t *testing.T) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	enc.CommitLayer(beenc.KindState, []string{"x"})

	x, err := enc.CurrentLit("x")
	require.NoError(t, err)
	xNext, err := enc.NextLit("x")
	require.NoError(t, err)
	f := fsm.New(mgr, enc, x.Not(), mgr.True, mgr.Iff(xNext, x.Not()), nil)

	res, err := invar.ClassicBMC(context.Background(), f, sexp.Atom("x"), 2,
		func(int32) satsolver.Solver { return newBruteCopy() })
	require.NoError(t, err)
	require.Equal(t, config.False, res.Verdict)
	require.NotNil(t, res.Solver)
	defer res.Solver.Close()

	tr, err := Reconstruct(enc, res.Instance, res.Solver, res.Bound, config.NoLoop())
	require.NoError(t, err)
	require.Len(t, tr.States, res.Bound+1)
	require.Contains(t, tr.States[0].Values, "x")

	// x starts false, so the property "x" is already violated in the
	// initial state: ClassicBMC finds its counterexample at bound 0, a
	// single-state trace - exact enough to pin down with cmp.Diff rather
	// than field-by-field require calls.
	want := &Trace{
		Loopback: config.NoLoop(),
		States: []State{
			{Time: 0, Values: map[string]bool{"x": false}},
		},
	}
	if diff := cmp.Diff(want, tr); diff != "" {
		t.Errorf("reconstructed trace mismatch (-want +got):\n%s", diff)
	}
}

// newBruteCopy mirrors internal/invar's test brute-force solver; it is
// duplicated here (rather than imported from a _test.go file in another
// package) since Go test helpers aren't exported across packages.
type bruteSolver struct {
	clauses [][]int32
	maxVar  int32
	assumed []int32
	model   map[int32]bool
}

func newBruteCopy() *bruteSolver { return &bruteSolver{model: make(map[int32]bool)} }

func (s *bruteSolver) AddClauses(inst *cnf.Instance) error {
	s.clauses = append(s.clauses, inst.Clauses...)
	if inst.MaxVar > s.maxVar {
		s.maxVar = inst.MaxVar
	}
	return nil
}

func (s *bruteSolver) Assume(lits ...int32) { s.assumed = append(s.assumed, lits...) }
func (s *bruteSolver) Untry()               { s.assumed = nil }
func (s *bruteSolver) Close() error         { return nil }

func (s *bruteSolver) Value(l int32) bool {
	v := l
	if v < 0 {
		v = -v
	}
	val := s.model[v]
	if l < 0 {
		val = !val
	}
	return val
}

func (s *bruteSolver) Solve(context.Context) (config.Verdict, error) {
	n := int(s.maxVar)
	assign := make(map[int32]bool, n)
	var try func(i int) bool
	try = func(i int) bool {
		if i > n {
			for _, clause := range s.clauses {
				ok := false
				for _, l := range clause {
					v := l
					if v < 0 {
						v = -v
					}
					val := assign[v]
					if l < 0 {
						val = !val
					}
					if val {
						ok = true
						break
					}
				}
				if !ok {
					return false
				}
			}
			for _, l := range s.assumed {
				v := l
				if v < 0 {
					v = -v
				}
				val := assign[v]
				if l < 0 {
					val = !val
				}
				if !val {
					return false
				}
			}
			return true
		}
		for _, b := range []bool{false, true} {
			assign[int32(i)] = b
			if try(i + 1) {
				return true
			}
		}
		return false
	}
	if try(1) {
		s.model = assign
		return config.True, nil
	}
	return config.False, nil
}

var _ satsolver.Solver = (*bruteSolver)(nil)
