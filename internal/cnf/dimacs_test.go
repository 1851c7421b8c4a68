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

package cnf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/unroll"
)

func TestDumpDIMACSRoundTripsClauses(t *testing.T) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	ids := enc.CommitLayer(beenc.KindState, []string{"a", "b"})

	a0, err := enc.UntimedToTimed(ids[0], 0)
	require.NoError(t, err)
	b0, err := enc.UntimedToTimed(ids[1], 0)
	require.NoError(t, err)

	f := mgr.And(a0, b0)
	// modelVarIDs is keyed by each timed literal's own variable id (what
	// Convert actually looks up), not the untimed placeholder id in ids.
	inst := Convert(mgr, f, map[int32]bool{a0.Var(): true, b0.Var(): true})

	var buf bytes.Buffer
	require.NoError(t, DumpDIMACS(&buf, inst, enc, 0))
	require.Contains(t, buf.String(), "p cnf")
	require.Len(t, inst.ModelVars, 2)

	back, err := ReadDIMACS(&buf)
	require.NoError(t, err)
	require.Equal(t, inst.MaxVar, back.MaxVar)
	require.Equal(t, len(inst.Clauses), len(back.Clauses))
	require.Equal(t, inst.FormulaLit.Lit, back.FormulaLit.Lit)
}

func TestDumpDIMACSConstantTrue(t *testing.T) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	inst := Convert(mgr, mgr.True, nil)

	var buf bytes.Buffer
	require.NoError(t, DumpDIMACS(&buf, inst, enc, 0))

	back, err := ReadDIMACS(&buf)
	require.NoError(t, err)
	require.True(t, back.FormulaLit.Constant)
	require.True(t, back.FormulaLit.ConstValue)
}

func TestDumpDIMACSConstantFalse(t *testing.T) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	inst := Convert(mgr, mgr.False, nil)

	var buf bytes.Buffer
	require.NoError(t, DumpDIMACS(&buf, inst, enc, 0))

	back, err := ReadDIMACS(&buf)
	require.NoError(t, err)
	require.True(t, back.FormulaLit.Constant)
	require.False(t, back.FormulaLit.ConstValue)
}

// TestConvertAllModelVarCountMatchesEncoderSemantics exercises S6: a
// bound-3 BMC problem over a two-bit state counter, one input, and one
// frozen variable. beenc.Encoder's own doc comments (KindState:
// "duplicated at every time step 0..k", KindInput: "duplicated at every
// time step 0..k-1", KindFrozen: "a single assignment shared by every
// time step") give (k+1)*nState + k*nInput + nFrozen distinct model
// variables, not k*nState + k*nInput + nFrozen - a state variable is
// materialized once more than an input variable because it is still
// read at the final step even though no further transition fires from
// there. The DIMACS round trip is also checked, matching S6's other half.
func TestConvertAllModelVarCountMatchesEncoderSemantics(t *testing.T) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	stateIDs := enc.CommitLayer(beenc.KindState, []string{"b0", "b1"})
	inputIDs := enc.CommitLayer(beenc.KindInput, []string{"in"})
	frozenIDs := enc.CommitLayer(beenc.KindFrozen, []string{"fz"})

	b0, err := enc.CurrentLit("b0")
	require.NoError(t, err)
	b1, err := enc.CurrentLit("b1")
	require.NoError(t, err)
	b0n, err := enc.NextLit("b0")
	require.NoError(t, err)
	b1n, err := enc.NextLit("b1")
	require.NoError(t, err)

	init := mgr.And(b0.Not(), b1.Not())
	trans := mgr.And(mgr.Iff(b0n, b0.Not()), mgr.Iff(b1n, mgr.Xor(b1, b0)))
	f := fsm.New(mgr, enc, init, mgr.True, trans, nil)
	u := unroll.New(f)

	const k = 3
	prefix, err := u.Prefix(k)
	require.NoError(t, err)

	// modelVarIDs is keyed by each TIMED literal's own BE variable id, the
	// key Convert/ConvertAll actually look up in cb.varOf - not the
	// untimed placeholder id, which never appears in the traversed DAG by
	// itself once every reference to it has been shifted to a concrete time.
	modelVarIDs := map[int32]bool{}
	roots := []be.Lit{prefix}
	for _, id := range stateIDs {
		for tm := 0; tm <= k; tm++ {
			lit, err := enc.UntimedToTimed(id, tm)
			require.NoError(t, err)
			roots = append(roots, lit)
			modelVarIDs[lit.Var()] = true
		}
	}
	for _, id := range inputIDs {
		for tm := 0; tm < k; tm++ {
			lit, err := enc.UntimedToTimed(id, tm)
			require.NoError(t, err)
			roots = append(roots, lit)
			modelVarIDs[lit.Var()] = true
		}
	}
	for _, id := range frozenIDs {
		lit, err := enc.UntimedToTimed(id, beenc.UntimedCurrent)
		require.NoError(t, err)
		roots = append(roots, lit)
		modelVarIDs[lit.Var()] = true
	}

	inst := ConvertAll(mgr, roots, modelVarIDs)

	nState, nInput, nFrozen := len(stateIDs), len(inputIDs), len(frozenIDs)
	wantModelVars := (k+1)*nState + k*nInput + nFrozen
	require.Equal(t, wantModelVars, len(inst.ModelVars))

	var buf bytes.Buffer
	require.NoError(t, DumpDIMACS(&buf, inst, enc, k))
	back, err := ReadDIMACS(&buf)
	require.NoError(t, err)
	require.Equal(t, inst.MaxVar, back.MaxVar)
	require.Equal(t, len(inst.Clauses), len(back.Clauses))
}
