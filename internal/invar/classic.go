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
	"github.com/nusmv-go/bmc/internal/satsolver"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// ClassicBMC is the textbook falsification-only algorithm: for k = 0..maxK,
// rebuild the whole path formula Prefix(k) ∧ ⋁_{i=0..k} ¬P(i) from
// scratch and solve it. A SAT result at bound k is a genuine
// counterexample; exhausting maxK without finding one reports
// config.Unknown, since falsification alone can never prove a property
// true (it only searches for violations of bounded depth).
func ClassicBMC(ctx context.Context, f *fsm.BEFsm, prop *sexp.Node, maxK int, newSolver SolverFactory) (*Result, error) {
	conv := sexp.NewConverter(f.Mgr, f.Enc)
	u := unroll.New(f)

	for k := 0; k <= maxK; k++ {
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
		formula := f.Mgr.And(prefix, bad)

		verdict, solver, inst, err := solveFormula(ctx, f.Mgr, formula, newSolver)
		if err != nil {
			return nil, err
		}
		if verdict == config.True {
			at := firstViolation(u, conv, prop, solver, inst, k)
			return &Result{Verdict: config.False, Bound: k, CounterexampleAt: at, Solver: solver, Instance: inst}, nil
		}
	}
	return &Result{Verdict: config.Unknown, Bound: maxK}, nil
}

// firstViolation scans time 0..k of a satisfied counterexample model to
// report the earliest state at which prop does not hold.
func firstViolation(u *unroll.Unroller, conv *sexp.Converter, prop *sexp.Node, solver satsolver.Solver, inst *cnf.Instance, k int) int {
	for i := 0; i <= k; i++ {
		ok, err := okAt(u, conv, prop, i)
		if err != nil {
			continue
		}
		if v, ok2 := cnfValue(inst, solver, ok); ok2 && !v {
			return i
		}
	}
	return k
}

// cnfValue looks up the CNF variable backing the BE literal lit (via
// inst.BackMap) and returns its model value under solver, honoring lit's
// own sign. The second return is false if lit has no corresponding CNF
// variable (e.g. it was simplified away and never appeared in a clause).
func cnfValue(inst *cnf.Instance, solver satsolver.Solver, lit be.Lit) (bool, bool) {
	for v, back := range inst.BackMap {
		if back.Var() == lit.Var() {
			val := solver.Value(v)
			if !lit.IsPos() {
				val = !val
			}
			return val, true
		}
	}
	return false, false
}
