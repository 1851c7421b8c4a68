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

package invar

import (
	"context"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// KInduction checks, for increasing depths k, a base case (is there a
// counterexample of length <= k, exactly like ClassicBMC) and a step case
// (can a state violating the property be reached from k consecutive
// states that all satisfy it). A base case SAT result is a genuine
// counterexample; a step case UNSAT result proves the property for every
// bound, because no chain of consecutive good states can ever be followed
// by a bad one. Without the simple-path strengthening EenSorensson adds,
// the step case can be spuriously SAT for every k even when the property
// holds, so the loop only terminates on an actual counterexample or a
// step-case proof.
func KInduction(ctx context.Context, f *fsm.BEFsm, prop *sexp.Node, maxK int, newSolver SolverFactory) (*Result, error) {
	return inductionLoop(ctx, f, prop, maxK, newSolver, false)
}

// EenSorensson strengthens KInduction's step case with the "no two states
// in the hypothesis chain repeat" simple-path constraint of Eén &
// Sörensson's 2003 k-induction paper, which makes the step case a valid
// proof obligation for every property that is inductively k-provable for
// some k, rather than only a heuristic.
func EenSorensson(ctx context.Context, f *fsm.BEFsm, prop *sexp.Node, maxK int, newSolver SolverFactory) (*Result, error) {
	return inductionLoop(ctx, f, prop, maxK, newSolver, true)
}

func inductionLoop(ctx context.Context, f *fsm.BEFsm, prop *sexp.Node, maxK int, newSolver SolverFactory, simplePath bool) (*Result, error) {
	conv := sexp.NewConverter(f.Mgr, f.Enc)
	u := unroll.New(f)
	stateVars := f.Enc.Untimed(beenc.KindState)

	for k := 0; k <= maxK; k++ {
		// Base case: a bounded counterexample of length <= k.
		prefix, err := u.Prefix(k)
		if err != nil {
			return nil, err
		}
		bad := f.Mgr.False
		for i := 0; i <= k; i++ {
			b, err := badAt(u, conv, prop, i)
			if err != nil {
				return nil, err
			}
			bad = f.Mgr.Or(bad, b)
		}
		baseFormula := f.Mgr.And(prefix, bad)
		verdict, solver, inst, err := solveFormula(ctx, f.Mgr, baseFormula, newSolver)
		if err != nil {
			return nil, err
		}
		if verdict == config.True {
			return &Result{Verdict: config.False, Bound: k, CounterexampleAt: k, Solver: solver, Instance: inst}, nil
		}

		// Step case: k consecutive good states followed by a bad one.
		stepFormula, err := stepCase(u, conv, f.Mgr, prop, k, stateVars, simplePath)
		if err != nil {
			return nil, err
		}
		stepVerdict, stepSolver, _, err := solveFormula(ctx, f.Mgr, stepFormula, newSolver)
		if err != nil {
			return nil, err
		}
		if stepVerdict == config.False {
			return &Result{Verdict: config.True, Bound: k}, nil
		}
		if stepSolver != nil {
			stepSolver.Close()
		}
	}
	return &Result{Verdict: config.Unknown, Bound: maxK}, nil
}

// stepCase builds: ⋀_{i=0}^{k}Inv(i) ∧ ⋀_{i=0}^{k-1}T(i,i+1) ∧
// ⋀_{i=0}^{k-1}P(i) ∧ ¬P(k) [∧ simple-path constraint], i.e. a bare
// (Init-free) chain of k+1 states where the first k satisfy prop and the
// last does not.
func stepCase(u *unroll.Unroller, conv *sexp.Converter, mgr *be.Manager, prop *sexp.Node, k int, stateVars []int32, simplePath bool) (be.Lit, error) {
	acc := mgr.True
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
	for i := 0; i < k; i++ {
		ok, err := okAt(u, conv, prop, i)
		if err != nil {
			return be.LitNull, err
		}
		acc = mgr.And(acc, ok)
	}
	bad, err := badAt(u, conv, prop, k)
	if err != nil {
		return be.LitNull, err
	}
	acc = mgr.And(acc, bad)

	if simplePath {
		sp, err := u.SimplePathConstraint(k, stateVars)
		if err != nil {
			return be.LitNull, err
		}
		acc = mgr.And(acc, sp)
	}
	return acc, nil
}
