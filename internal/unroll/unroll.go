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

// Package unroll builds the bounded-path formula
// I(0) ∧ ⋀_{i<k} T(i,i+1) ∧ ⋀_{i<=k} Inv(i)
// that every invariant and tableau algorithm starts from.
package unroll

import (
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/fsm"
)

// Unroller incrementally materializes a bounded path for one BEFsm. It
// caches shifted Init/Invar/Trans literals per time so that growing k from
// n to n+1 only shifts the newly-needed instances, matching spec.md §5's
// "iterative algorithms process k values in strictly increasing order"
// ordering guarantee.
type Unroller struct {
	fsm *fsm.BEFsm

	initAt  map[int]be.Lit
	invarAt map[int]be.Lit
	transAt map[int]be.Lit // keyed by the earlier of the two times, T(i,i+1)
}

// FSM returns the BEFsm this Unroller was built from, for callers (such
// as the ltl package) that need direct access to its Manager and Encoder.
func (u *Unroller) FSM() *fsm.BEFsm { return u.fsm }

// New creates an Unroller for fsm.
func New(f *fsm.BEFsm) *Unroller {
	return &Unroller{
		fsm:     f,
		initAt:  make(map[int]be.Lit),
		invarAt: make(map[int]be.Lit),
		transAt: make(map[int]be.Lit),
	}
}

// InitAt returns I(t), the initial-state predicate shifted to time t.
// Every caller in this module uses t=0.
func (u *Unroller) InitAt(t int) (be.Lit, error) {
	if lit, ok := u.initAt[t]; ok {
		return lit, nil
	}
	lit, err := u.fsm.Enc.ShiftToTimes(u.fsm.Init, t)
	if err != nil {
		return be.LitNull, err
	}
	u.initAt[t] = lit
	return lit, nil
}

// InvarAt returns Inv(t).
func (u *Unroller) InvarAt(t int) (be.Lit, error) {
	if lit, ok := u.invarAt[t]; ok {
		return lit, nil
	}
	lit, err := u.fsm.Enc.ShiftToTimes(u.fsm.Invar, t)
	if err != nil {
		return be.LitNull, err
	}
	u.invarAt[t] = lit
	return lit, nil
}

// TransAt returns T(t,t+1).
func (u *Unroller) TransAt(t int) (be.Lit, error) {
	if lit, ok := u.transAt[t]; ok {
		return lit, nil
	}
	lit, err := u.fsm.Enc.ShiftToTimes(u.fsm.Trans, t)
	if err != nil {
		return be.LitNull, err
	}
	u.transAt[t] = lit
	return lit, nil
}

// FairnessAt returns the list of JUSTICE predicates shifted to time t.
func (u *Unroller) FairnessAt(t int) ([]be.Lit, error) {
	out := make([]be.Lit, len(u.fsm.Fairness))
	for i, f := range u.fsm.Fairness {
		lit, err := u.fsm.Enc.ShiftToTimes(f, t)
		if err != nil {
			return nil, err
		}
		out[i] = lit
	}
	return out, nil
}

// Prefix builds I(0) ∧ ⋀_{i<k} T(i,i+1) ∧ ⋀_{i<=k} Inv(i): the standard
// bounded-path formula up to length k.
func (u *Unroller) Prefix(k int) (be.Lit, error) {
	mgr := u.fsm.Mgr
	u.fsm.Enc.GrowBound(k)

	acc, err := u.InitAt(0)
	if err != nil {
		return be.LitNull, err
	}
	for i := 0; i <= k; i++ {
		inv, err := u.InvarAt(i)
		if err != nil {
			return be.LitNull, err
		}
		acc = mgr.And(acc, inv)
	}
	for i := 0; i < k; i++ {
		tr, err := u.TransAt(i)
		if err != nil {
			return be.LitNull, err
		}
		acc = mgr.And(acc, tr)
	}
	return acc, nil
}

// SimplePathConstraint builds the "no two states in the path are equal"
// constraint used by loop-free k-induction (spec.md §4.5.2): the
// conjunction, over all pairs i<j in [0,k], of ¬(state(i) = state(j)).
func (u *Unroller) SimplePathConstraint(k int, stateVars []int32) (be.Lit, error) {
	mgr := u.fsm.Mgr
	acc := mgr.True
	for i := 0; i <= k; i++ {
		for j := i + 1; j <= k; j++ {
			eq := mgr.True
			for _, v := range stateVars {
				li, err := u.fsm.Enc.UntimedToTimed(v, i)
				if err != nil {
					return be.LitNull, err
				}
				lj, err := u.fsm.Enc.UntimedToTimed(v, j)
				if err != nil {
					return be.LitNull, err
				}
				eq = mgr.And(eq, mgr.Iff(li, lj))
			}
			acc = mgr.And(acc, eq.Not())
		}
	}
	return acc, nil
}

// LoopCondition builds loop_l(k) ≡ state(l) = state(k): the BE equating
// all state-variable pairs between time l and time k, used by the
// tableau's loopback disjuncts (spec.md §4.4).
func (u *Unroller) LoopCondition(l, k int, stateVars []int32) (be.Lit, error) {
	mgr := u.fsm.Mgr
	acc := mgr.True
	for _, v := range stateVars {
		ll, err := u.fsm.Enc.UntimedToTimed(v, l)
		if err != nil {
			return be.LitNull, err
		}
		lk, err := u.fsm.Enc.UntimedToTimed(v, k)
		if err != nil {
			return be.LitNull, err
		}
		acc = mgr.And(acc, mgr.Iff(ll, lk))
	}
	return acc, nil
}
