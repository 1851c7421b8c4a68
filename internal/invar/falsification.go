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
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// FalsificationIncremental is ClassicBMC's incremental twin: it keeps one
// IncrementalConverter and one Solver alive across every bound, so growing
// k from n to n+1 only pays for the newly reachable BE nodes' Tseitin
// clauses, and uses Assume/Untry to test each bound's formula without
// asserting it as a permanent constraint. This is the direct use of
// gini's incremental Assume/Solve/Untry API that internal/be's design
// doc cites as its grounding for satsolver.Solver.
func FalsificationIncremental(ctx context.Context, f *fsm.BEFsm, prop *sexp.Node, maxK int, newSolver SolverFactory) (*Result, error) {
	conv := sexp.NewConverter(f.Mgr, f.Enc)
	u := unroll.New(f)
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
		formula := f.Mgr.And(prefix, badSoFar)

		if f.Mgr.IsConst(formula) {
			if f.Mgr.ConstValue(formula) {
				solver.Close()
				return &Result{Verdict: config.False, Bound: k, CounterexampleAt: k}, nil
			}
			continue
		}

		inst := ic.Extend([]be.Lit{formula}, nil)
		if err := solver.AddClauses(inst); err != nil {
			solver.Close()
			return nil, err
		}
		solver.Assume(inst.FormulaLit.Lit)
		verdict, err := solver.Solve(ctx)
		if err != nil {
			solver.Close()
			return nil, err
		}
		if verdict == config.True {
			at := firstViolation(u, conv, prop, solver, inst, k)
			return &Result{Verdict: config.False, Bound: k, CounterexampleAt: at, Solver: solver, Instance: inst}, nil
		}
		solver.Untry()
	}
	solver.Close()
	return &Result{Verdict: config.Unknown, Bound: maxK}, nil
}
