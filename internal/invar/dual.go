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
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// IncrementalDual runs the base-case (falsification) and step-case
// (induction) checks of KInduction side by side at every bound, but both
// share one persistent solver and one IncrementalConverter: each check is
// loaded as a fresh Assume/Solve/Untry frame over clauses that, once
// added for a given BE node, are never re-added at a later bound. This is
// the scoped-acquisition, LIFO-cleanup resource pattern spec.md §5
// requires of incremental algorithms, applied to both checks at once
// instead of to just one.
func IncrementalDual(ctx context.Context, f *fsm.BEFsm, prop *sexp.Node, maxK int, newSolver SolverFactory) (*Result, error) {
	conv := sexp.NewConverter(f.Mgr, f.Enc)
	u := unroll.New(f)
	stateVars := f.Enc.Untimed(beenc.KindState)
	ic := cnf.NewIncrementalConverter(f.Mgr)
	solver := newSolver(256)

	badSoFar := f.Mgr.False
	for k := 0; k <= maxK; k++ {
		prefix, err := u.Prefix(k)
		if err != nil {
			solver.Close()
			return nil, err
		}
		b, err := badAt(u, conv, prop, k)
		if err != nil {
			solver.Close()
			return nil, err
		}
		badSoFar = f.Mgr.Or(badSoFar, b)
		baseFormula := f.Mgr.And(prefix, badSoFar)

		verdict, inst, err := tryIncremental(ctx, f.Mgr, ic, solver, baseFormula)
		if err != nil {
			solver.Close()
			return nil, err
		}
		if verdict == config.True {
			at := firstViolation(u, conv, prop, solver, inst, k)
			return &Result{Verdict: config.False, Bound: k, CounterexampleAt: at, Solver: solver, Instance: inst}, nil
		}

		stepFormula, err := stepCase(u, conv, f.Mgr, prop, k, stateVars, true)
		if err != nil {
			solver.Close()
			return nil, err
		}
		stepVerdict, _, err := tryIncremental(ctx, f.Mgr, ic, solver, stepFormula)
		if err != nil {
			solver.Close()
			return nil, err
		}
		if stepVerdict == config.False {
			solver.Close()
			return &Result{Verdict: config.True, Bound: k}, nil
		}
	}
	solver.Close()
	return &Result{Verdict: config.Unknown, Bound: maxK}, nil
}

// tryIncremental loads any new clauses formula's DAG needs, assumes its
// top literal, solves, and - on anything but a SAT result that the caller
// wants to keep exploring (i.e. whenever the caller doesn't immediately
// return) - pops the assumption frame so the solver is clean for the next
// tryIncremental call.
func tryIncremental(ctx context.Context, mgr *be.Manager, ic *cnf.IncrementalConverter, solver interface {
	AddClauses(*cnf.Instance) error
	Assume(...int32)
	Solve(context.Context) (config.Verdict, error)
	Untry()
}, formula be.Lit) (config.Verdict, *cnf.Instance, error) {
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
