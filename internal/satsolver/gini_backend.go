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

package satsolver

import (
	"context"
	"fmt"

	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/cnf"
)

// GiniSolver wraps gini.Gini, the incremental SAT solver whose
// Add/Assume/Solve/Value/Untry API is exactly the assumption-frame
// resource this package's Solver interface describes. It is the concrete
// backend spec.md §6 calls "the external, blocking SAT call" collaborator.
type GiniSolver struct {
	g *gini.Gini
	// frames records, for each pushed Assume, how many literals it
	// contributed, so Untry can tell gini's solver how many assumptions
	// to retract.
	frames []int
}

// NewGiniSolver creates a GiniSolver with capacity hints sized for an
// instance with maxVar variables.
func NewGiniSolver(maxVar int32) *GiniSolver {
	if maxVar < 128 {
		maxVar = 128
	}
	return &GiniSolver{g: gini.NewVc(int(maxVar), int(maxVar)*4)}
}

func lit(n int32) z.Lit {
	if n >= 0 {
		return z.Var(n).Pos()
	}
	return z.Var(-n).Neg()
}

// AddClauses implements Solver. It loads only the Tseitin clauses that
// define inst's auxiliary gate variables; it deliberately does not assert
// inst.FormulaLit as a hard unit clause, so the same solver instance can
// be reused across growing k with a different formula literal assumed
// (via Assume) at each bound - see ClassicBMC vs FalsificationIncremental
// in internal/invar for the one-shot and incremental usages of this
// distinction.
func (s *GiniSolver) AddClauses(inst *cnf.Instance) error {
	if inst.FormulaLit.Constant && !inst.FormulaLit.ConstValue {
		s.g.Add(z.Var(1).Pos())
		s.g.Add(0)
		s.g.Add(z.Var(1).Neg())
		s.g.Add(0)
		return nil
	}
	for _, clause := range inst.Clauses {
		for _, l := range clause {
			s.g.Add(lit(l))
		}
		s.g.Add(0)
	}
	return nil
}

// Assume implements Solver.
func (s *GiniSolver) Assume(lits ...int32) {
	zs := make([]z.Lit, len(lits))
	for i, l := range lits {
		zs[i] = lit(l)
	}
	s.g.Assume(zs...)
	s.frames = append(s.frames, len(lits))
}

// Solve implements Solver, translating gini's {1,-1,0} result convention
// into config.Verdict and honoring ctx cancellation by running gini's
// blocking Solve in a goroutine and racing it against ctx.Done. A context
// that is already done yields ctx.Err() even if Solve finished first.
func (s *GiniSolver) Solve(ctx context.Context) (config.Verdict, error) {
	type result struct {
		code int
	}
	done := make(chan result, 1)
	go func() {
		done <- result{code: s.g.Solve()}
	}()

	select {
	case <-ctx.Done():
		return config.Unknown, ctx.Err()
	case r := <-done:
		if err := ctx.Err(); err != nil {
			return config.Unknown, err
		}
		switch r.code {
		case 1:
			return config.True, nil
		case -1:
			return config.False, nil
		default:
			return config.Unknown, fmt.Errorf("satsolver: gini returned unknown result")
		}
	}
}

// Value implements Solver.
func (s *GiniSolver) Value(l int32) bool {
	v := s.g.Value(lit(l).Pos())
	if l < 0 {
		return !v
	}
	return v
}

// Untry implements Solver, popping the most recently pushed Assume frame.
func (s *GiniSolver) Untry() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
	s.g.Untry()
}

// Close implements Solver. gini.Gini has no explicit close; the method
// exists to satisfy the interface and let callers defer uniformly across
// backends.
func (s *GiniSolver) Close() error { return nil }

var _ Solver = (*GiniSolver)(nil)
