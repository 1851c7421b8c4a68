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
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// Zigzag is IncrementalDual's sibling, differing in which check it tries
// first at each bound: on even k it checks the base case before the step
// case, on odd k the other way around. A property that is cheap to
// falsify but has an expensive step case (or vice versa) resolves sooner
// under whichever ordering happens to suit it, without committing to one
// ordering for the whole run the way IncrementalDual does.
func Zigzag(ctx context.Context, f *fsm.BEFsm, prop *sexp.Node, maxK int, newSolver SolverFactory) (*Result, error) {
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

		stepFormula, err := stepCase(u, conv, f.Mgr, prop, k, stateVars, true)
		if err != nil {
			solver.Close()
			return nil, err
		}

		checkBaseFirst := k%2 == 0
		var baseVerdict, stepVerdict config.Verdict
		var baseInst *cnf.Instance

		runBase := func() error {
			v, inst, err := tryIncremental(ctx, f.Mgr, ic, solver, baseFormula)
			baseVerdict, baseInst = v, inst
			return err
		}
		runStep := func() error {
			v, _, err := tryIncremental(ctx, f.Mgr, ic, solver, stepFormula)
			stepVerdict = v
			return err
		}

		if checkBaseFirst {
			if err := runBase(); err != nil {
				solver.Close()
				return nil, err
			}
			if baseVerdict != config.True {
				if err := runStep(); err != nil {
					solver.Close()
					return nil, err
				}
			}
		} else {
			if err := runStep(); err != nil {
				solver.Close()
				return nil, err
			}
			if stepVerdict != config.False {
				if err := runBase(); err != nil {
					solver.Close()
					return nil, err
				}
			}
		}

		if baseVerdict == config.True {
			at := firstViolation(u, conv, prop, solver, baseInst, k)
			return &Result{Verdict: config.False, Bound: k, CounterexampleAt: at, Solver: solver, Instance: baseInst}, nil
		}
		if stepVerdict == config.False {
			solver.Close()
			return &Result{Verdict: config.True, Bound: k}, nil
		}
	}
	solver.Close()
	return &Result{Verdict: config.Unknown, Bound: maxK}, nil
}
