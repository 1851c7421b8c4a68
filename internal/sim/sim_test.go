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

package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/satsolver"
	"github.com/nusmv-go/bmc/internal/sexp"
)

// bruteForceSolver exhaustively tries every assignment; shared shape with
// the one in internal/invar, duplicated since test helpers don't export.
type bruteForceSolver struct {
	clauses [][]int32
	maxVar  int32
	assumed []int32
	model   map[int32]bool
}

func newBruteForceSolver(int32) *bruteForceSolver {
	return &bruteForceSolver{model: make(map[int32]bool)}
}

func (s *bruteForceSolver) AddClauses(inst *cnf.Instance) error {
	s.clauses = append(s.clauses, inst.Clauses...)
	if inst.MaxVar > s.maxVar {
		s.maxVar = inst.MaxVar
	}
	return nil
}

func (s *bruteForceSolver) Assume(lits ...int32) { s.assumed = append(s.assumed, lits...) }
func (s *bruteForceSolver) Untry()               { s.assumed = nil }
func (s *bruteForceSolver) Close() error         { return nil }

func (s *bruteForceSolver) Value(l int32) bool {
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

func (s *bruteForceSolver) Solve(context.Context) (config.Verdict, error) {
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

var _ satsolver.Solver = (*bruteForceSolver)(nil)

// countdownFSM builds a one-bit FSM that always has exactly one enabled
// transition (a deterministic counter), so Step's result is predictable.
func countdownFSM(t *testing.T) *fsm.BEFsm {
	t.Helper()
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	enc.CommitLayer(beenc.KindState, []string{"x"})

	x, err := enc.CurrentLit("x")
	require.NoError(t, err)
	xNext, err := enc.NextLit("x")
	require.NoError(t, err)

	return fsm.New(mgr, enc, x.Not(), mgr.True, mgr.Iff(xNext, x.Not()), nil)
}

func TestPickStateFindsInitialState(t *testing.T) {
	f := countdownFSM(t)
	s := New(f, func(maxVar int32) satsolver.Solver { return newBruteForceSolver(maxVar) }, 1)

	st, err := s.PickState(context.Background(), nil, Deterministic)
	require.NoError(t, err)
	require.Equal(t, false, st["x"])
}

func TestStepFollowsTransitionRelation(t *testing.T) {
	f := countdownFSM(t)
	s := New(f, func(maxVar int32) satsolver.Solver { return newBruteForceSolver(maxVar) }, 1)

	current := State{"x": false}
	next, err := s.Step(context.Background(), current, nil, Deterministic)
	require.NoError(t, err)
	require.Equal(t, true, next["x"])
}

func TestFeasibleReportsDeadlockingConstraint(t *testing.T) {
	f := countdownFSM(t)
	s := New(f, func(maxVar int32) satsolver.Solver { return newBruteForceSolver(maxVar) }, 1)

	candidates := []*sexp.Node{sexp.Atom("x"), sexp.Not(sexp.Atom("x"))}
	results, err := s.Feasible(context.Background(), State{"x": false}, candidates)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.False(t, results[0], "x is inconsistent with the current state x=false")
	require.True(t, results[1], "¬x is consistent with the current state x=false")
}
