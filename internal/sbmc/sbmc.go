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

// Package sbmc implements simple BMC for PLTL (spec.md §4.5.8): a single
// incremental SAT instance grown bound by bound, using the monolithic or
// PLTL tableau of internal/ltl as its per-bound encoding (this is the
// "virtual unrolling" variant - rather than maintaining separate path
// progress and loop witness variables per eventuality, each bound's query
// reuses internal/ltl's loopback disjunction directly, so no explicit
// duplicate copies of the loop region are ever materialized), plus a
// completeness check that can certify UNKNOWN results complete.
package sbmc

import (
	"context"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/ltl"
	"github.com/nusmv-go/bmc/internal/satsolver"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// Result is the outcome of an SBMC run.
type Result struct {
	Verdict config.Verdict
	Bound   int
	// Complete is set when Verdict is config.Unknown and the completeness
	// check (bmc_sbmc_il_opt) has certified that no counterexample of any
	// length exists - a definitive negative answer rather than "bound
	// exhausted".
	Complete bool
	Solver   satsolver.Solver
	Instance *cnf.Instance
}

// Options configures the encoding choices of spec.md §6's bmc_sbmc_*
// environment variables.
type Options struct {
	// ForcePLTLTableau forces internal/ltl.BuildPLTLTableau even for
	// purely-future formulas that BuildTableau could otherwise handle
	// monolithically (bmc_force_pltl_tableau).
	ForcePLTLTableau bool
	// CompletenessCheck enables the bmc_sbmc_il_opt completeness
	// certificate: when the simple-path constraint over 0..k becomes
	// UNSAT, no longer path can introduce a new state, so every future
	// bound's check would be subsumed by bound k's loop disjunction and
	// the run can stop at config.Unknown-but-Complete.
	CompletenessCheck bool
}

// Check runs incremental PLTL BMC, growing a single persistent SAT
// instance and solver across bounds, searching for a path satisfying
// negatedProp - the negation of the property under test, per the
// falsification convention every algorithm in this module shares: a SAT
// result is a genuine counterexample to the original property.
func Check(ctx context.Context, sys *fsm.BEFsm, negatedProp *ltl.Formula, maxK int, newSolver func(maxVar int32) satsolver.Solver, opts Options) (*Result, error) {
	prop := ltl.Normalize(negatedProp)
	conv := sexp.NewConverter(sys.Mgr, sys.Enc)
	u := unroll.New(sys)
	stateVars := sys.Enc.Untimed(beenc.KindState)
	ic := cnf.NewIncrementalConverter(sys.Mgr)
	solver := newSolver(256)

	usePLTL := opts.ForcePLTLTableau || prop.HasPast()

	for k := 0; k <= maxK; k++ {
		prefix, err := u.Prefix(k)
		if err != nil {
			solver.Close()
			return nil, err
		}
		var tab be.Lit
		if usePLTL {
			tab, err = ltl.BuildPLTLTableau(sys.Mgr, conv, u, prop, k, config.AllLoopbacks(), stateVars)
		} else {
			tab, err = ltl.BuildTableau(sys.Mgr, conv, u, prop, k, config.AllLoopbacks(), stateVars)
		}
		if err != nil {
			solver.Close()
			return nil, err
		}

		verdict, inst, err := tryIncremental(ctx, sys.Mgr, ic, solver, sys.Mgr.And(prefix, tab))
		if err != nil {
			solver.Close()
			return nil, err
		}
		if verdict == config.True {
			return &Result{Verdict: config.False, Bound: k, Solver: solver, Instance: inst}, nil
		}

		if opts.CompletenessCheck {
			complete, err := isComplete(ctx, sys.Mgr, u, ic, solver, k, stateVars)
			if err != nil {
				solver.Close()
				return nil, err
			}
			if complete {
				solver.Close()
				return &Result{Verdict: config.Unknown, Bound: k, Complete: true}, nil
			}
		}
	}
	solver.Close()
	return &Result{Verdict: config.Unknown, Bound: maxK}, nil
}

// isComplete checks whether the simple-path constraint over states
// 0..k is unsatisfiable: if no path of length k+1 can visit k+1 distinct
// states, every longer path must already revisit a state within 0..k, so
// the loopback disjunction already tried at this bound covers every
// future bound's counterexamples too.
func isComplete(ctx context.Context, mgr *be.Manager, u *unroll.Unroller, ic *cnf.IncrementalConverter, solver satsolver.Solver, k int, stateVars []int32) (bool, error) {
	prefix, err := u.Prefix(k)
	if err != nil {
		return false, err
	}
	simple, err := u.SimplePathConstraint(k, stateVars)
	if err != nil {
		return false, err
	}
	formula := mgr.And(prefix, simple)
	verdict, _, err := tryIncremental(ctx, mgr, ic, solver, formula)
	if err != nil {
		return false, err
	}
	if verdict == config.True {
		solver.Untry()
	}
	return verdict == config.False, nil
}

// tryIncremental mirrors internal/invar's helper of the same name: load
// any new clauses, assume the formula literal, solve, and pop the
// assumption frame unless the caller wants to keep a SAT result's solver
// open.
func tryIncremental(ctx context.Context, mgr *be.Manager, ic *cnf.IncrementalConverter, solver satsolver.Solver, formula be.Lit) (config.Verdict, *cnf.Instance, error) {
	if mgr.IsConst(formula) {
		if mgr.ConstValue(formula) {
			return config.True, nil, nil
		}
		return config.False, nil, nil
	}
	inst := ic.Extend([]be.Lit{formula}, nil)
	if err := solver.AddClauses(inst); err != nil {
		return config.Unknown, nil, err
	}
	solver.Assume(inst.FormulaLit.Lit)
	verdict, err := solver.Solve(ctx)
	if err != nil {
		return config.Unknown, nil, err
	}
	if verdict == config.True {
		return verdict, inst, nil
	}
	solver.Untry()
	return verdict, inst, nil
}
