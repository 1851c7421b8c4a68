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

// Package invar implements the seven bounded invariant-checking algorithms
// of spec.md §4.5: classic falsification, k-induction, Eén-Sørensson
// simple-path induction, an incremental dual (falsification + induction
// sharing one solver context), zigzag, incremental falsification, and
// interpolant-sequence.
package invar

import (
	"context"
	"fmt"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/satsolver"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// Result is the outcome of running one algorithm up to some bound.
type Result struct {
	Verdict config.Verdict
	// Bound is the k at which the verdict was determined: for False, the
	// length of the discovered counterexample path; for True, the depth
	// at which the inductive step succeeded.
	Bound int
	// CounterexampleAt is the time index of the first state violating the
	// property, meaningful only when Verdict == config.False.
	CounterexampleAt int
	// Solver, when non-nil, is left open (un-Closed) on a True (SAT)
	// result so the caller can pull a model out of it for trace
	// reconstruction. Callers must Close it when done.
	Solver satsolver.Solver
	// Instance is the CNF instance the open Solver was loaded with, for
	// mapping model values back to timed BE variables.
	Instance *cnf.Instance
}

// SolverFactory creates a fresh Solver sized for a formula with the given
// maximum BE/CNF variable id. Production callers pass
// satsolver.NewGiniSolver; tests can substitute a stub.
type SolverFactory func(maxVar int32) satsolver.Solver

// Algorithm is the common shape of every invariant-checking strategy in
// this package, registered in Algorithms below.
type Algorithm func(ctx context.Context, f *fsm.BEFsm, prop *sexp.Node, maxK int, newSolver SolverFactory) (*Result, error)

// Algorithms maps the spec.md §6 -a/-i flag values to their
// implementation, used by cmd/bmc to dispatch without a type switch.
var Algorithms = map[string]Algorithm{
	"classic":       ClassicBMC,
	"induction":     KInduction,
	"een-sorensson": EenSorensson,
	"dual":          IncrementalDual,
	"zigzag":        Zigzag,
	"falsification": FalsificationIncremental,
	"interp-seq":    InterpolantSequence,
}

func badAt(u *unroll.Unroller, conv *sexp.Converter, prop *sexp.Node, t int) (be.Lit, error) {
	untimed, err := conv.Convert(prop)
	if err != nil {
		return be.LitNull, err
	}
	shifted, err := u.FSM().Enc.ShiftToTimes(untimed, t)
	if err != nil {
		return be.LitNull, err
	}
	return shifted.Not(), nil
}

func okAt(u *unroll.Unroller, conv *sexp.Converter, prop *sexp.Node, t int) (be.Lit, error) {
	untimed, err := conv.Convert(prop)
	if err != nil {
		return be.LitNull, err
	}
	return u.FSM().Enc.ShiftToTimes(untimed, t)
}

// solveFormula is the one-shot "build CNF, load it, solve, return an open
// solver on SAT" helper every algorithm in this package bottoms out to.
func solveFormula(ctx context.Context, mgr *be.Manager, formula be.Lit, newSolver SolverFactory) (config.Verdict, satsolver.Solver, *cnf.Instance, error) {
	if mgr.IsConst(formula) {
		if mgr.ConstValue(formula) {
			return config.True, nil, nil, nil
		}
		return config.False, nil, nil, nil
	}
	inst := cnf.Convert(mgr, formula, nil)
	solver := newSolver(inst.MaxVar)
	if err := solver.AddClauses(inst); err != nil {
		solver.Close()
		return config.Unknown, nil, nil, fmt.Errorf("invar: loading clauses: %w", err)
	}
	solver.Assume(inst.FormulaLit.Lit)
	verdict, err := solver.Solve(ctx)
	if err != nil {
		solver.Close()
		return config.Unknown, nil, nil, err
	}
	if verdict != config.True {
		solver.Untry()
		solver.Close()
		return verdict, nil, nil, nil
	}
	return verdict, solver, inst, nil
}
