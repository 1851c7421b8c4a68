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

package unroll

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
)

// togglingFSM builds a one-bit counter: init x=false, trans next(x) = !x.
func togglingFSM(t *testing.T) (*fsm.BEFsm, int32) {
	t.Helper()
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	ids := enc.CommitLayer(beenc.KindState, []string{"x"})

	cur, err := enc.CurrentLit("x")
	require.NoError(t, err)
	next, err := enc.NextLit("x")
	require.NoError(t, err)

	init := cur.Not()
	trans := mgr.Iff(next, cur.Not())
	return fsm.New(mgr, enc, init, mgr.True, trans, nil), ids[0]
}

// isUnsat exhaustively checks whether f has any satisfying assignment, by
// converting to CNF and trying every assignment up to MaxVar - small
// enough for these fixtures without pulling in a real SAT backend.
func isUnsat(t *testing.T, mgr *be.Manager, f be.Lit) bool {
	t.Helper()
	if mgr.IsConst(f) {
		return !mgr.ConstValue(f)
	}
	inst := cnf.Convert(mgr, f, nil)
	n := int(inst.MaxVar)
	assign := make([]bool, n+1)
	var try func(i int) bool
	try = func(i int) bool {
		if i > n {
			for _, clause := range inst.Clauses {
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
			return true
		}
		assign[i] = false
		if try(i + 1) {
			return true
		}
		assign[i] = true
		return try(i + 1)
	}
	return !try(1)
}

func TestPrefixGrowsMonotonicallyWithK(t *testing.T) {
	f, xID := togglingFSM(t)
	u := New(f)

	prefix2, err := u.Prefix(2)
	require.NoError(t, err)
	require.NotEqual(t, f.Mgr.False, prefix2)

	x0, err := f.Enc.UntimedToTimed(xID, 0)
	require.NoError(t, err)
	x2, err := f.Enc.UntimedToTimed(xID, 2)
	require.NoError(t, err)

	// x toggles every step, so along any length-2 path x(0) == x(2); a
	// path satisfying the prefix but disagreeing on that is unsatisfiable.
	violatesInvariant := f.Mgr.And(prefix2, f.Mgr.Xor(x0, x2))
	require.True(t, isUnsat(t, f.Mgr, violatesInvariant))

	// Prefix(3) only adds constraints to Prefix(2), so it implies it.
	prefix3, err := u.Prefix(3)
	require.NoError(t, err)
	require.True(t, isUnsat(t, f.Mgr, f.Mgr.And(prefix3, prefix2.Not())))
}

func TestSimplePathConstraintExcludesRepeatedStates(t *testing.T) {
	f, _ := togglingFSM(t)
	u := New(f)
	stateVars := f.Enc.Untimed(beenc.KindState)

	prefix, err := u.Prefix(1)
	require.NoError(t, err)
	simple, err := u.SimplePathConstraint(1, stateVars)
	require.NoError(t, err)

	// The single state variable toggles every step, so a length-1 path
	// (states 0 and 1) never repeats a state: every path satisfying the
	// prefix also satisfies the simple-path constraint.
	violatesSimplePath := f.Mgr.And(prefix, simple.Not())
	require.True(t, isUnsat(t, f.Mgr, violatesSimplePath))
}

func TestLoopConditionHoldsAtSelf(t *testing.T) {
	f, _ := togglingFSM(t)
	u := New(f)
	stateVars := f.Enc.Untimed(beenc.KindState)
	f.Enc.GrowBound(3)

	loop, err := u.LoopCondition(2, 2, stateVars)
	require.NoError(t, err)
	require.True(t, isUnsat(t, f.Mgr, loop.Not()))
}
