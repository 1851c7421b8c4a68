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
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/satsolver"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// InterpolantSequence checks, at each bound, whether a bad state is
// reachable in one transition from the initial states (Init∧Inv0∧Tr0∧bad1)
// and returns config.False with CounterexampleAt 1 when it is. It does not
// extract interpolants, does not refine the over-approximation beyond the
// initial states, does not check for a bad initial state, and never
// returns config.True: when no bound is SAT it returns config.Unknown at
// maxK. It needs a solver that implements
// satsolver.Interpolator; per spec.md §9 open question (c), a backend
// that doesn't is a configuration error, not silently degraded behavior,
// so this algorithm fails fast with config.ErrBackendUnavailable.
func InterpolantSequence(ctx context.Context, f *fsm.BEFsm, prop *sexp.Node, maxK int, newSolver SolverFactory) (*Result, error) {
	probe := newSolver(128)
	_, ok := probe.(satsolver.Interpolator)
	probe.Close()
	if !ok {
		return nil, config.Wrap(config.ErrBackendUnavailable,
			"interpolant-sequence requires a Solver that also implements satsolver.Interpolator", nil)
	}

	conv := sexp.NewConverter(f.Mgr, f.Enc)
	u := unroll.New(f)

	// R0 is the initial over-approximation of reachable states: just the
	// initial states themselves, shifted to time 0.
	r, err := u.InitAt(0)
	if err != nil {
		return nil, err
	}

	for k := 0; k <= maxK; k++ {
		// One-step image check: can R reach a bad state in one
		// transition? A SAT result here is a genuine counterexample
		// witnessing R is reachable and a bad state follows it.
		inv0, err := u.InvarAt(0)
		if err != nil {
			return nil, err
		}
		tr0, err := u.TransAt(0)
		if err != nil {
			return nil, err
		}
		bad1, err := badAt(u, conv, prop, 1)
		if err != nil {
			return nil, err
		}
		formula := f.Mgr.And(f.Mgr.And(r, inv0), f.Mgr.And(tr0, bad1))

		verdict, solver, inst, err := solveFormula(ctx, f.Mgr, formula, newSolver)
		if err != nil {
			return nil, err
		}
		if verdict == config.True {
			return &Result{Verdict: config.False, Bound: k + 1, CounterexampleAt: 1, Solver: solver, Instance: inst}, nil
		}

		// UNSAT: no bad state is one step away from R. R is left
		// unchanged and the same query is repeated at the next bound; no
		// interpolant is computed, so no fixpoint is ever detected.
	}
	return &Result{Verdict: config.Unknown, Bound: maxK}, nil
}
