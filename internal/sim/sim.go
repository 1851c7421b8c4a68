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

// Package sim implements BMC-based simulation (spec.md §4.7): stepping a
// boolean FSM one transition at a time by solving the one-step query
// s(0) ∧ c(0,1) ∧ T(0,1) and reading a next state out of the SAT model,
// deterministically, randomly, or via interactive enumeration of choices.
package sim

import (
	"context"
	"math/rand"
	"sort"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/satsolver"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// Mode selects how Step resolves among several satisfying next states.
type Mode int

const (
	// Deterministic picks the lexicographically first satisfying state:
	// state variables are taken in declaration order and each is forced
	// false whenever the formula stays satisfiable, so the same query
	// always yields the same state.
	Deterministic Mode = iota
	// Random forces state variables in a shuffled order to coin-flipped
	// values, keeping each value whenever the formula stays satisfiable.
	// Every satisfying state can be drawn, but the draw is not uniform
	// over them in general.
	Random
	// Interactive is not resolved by Step/PickState at all - it exists so
	// callers can tag a session as interactive and route to Choices for
	// enumeration instead of calling Step directly.
	Interactive
)

// State is one point in a simulation: a full assignment of every state
// variable's current value.
type State map[string]bool

// Simulator drives one-step BMC queries against a fixed BEFsm.
type Simulator struct {
	f         *fsm.BEFsm
	newSolver func(maxVar int32) satsolver.Solver
	rng       *rand.Rand
}

// New builds a Simulator. rngSeed seeds the Random mode's draws; pass any
// fixed value for reproducible test runs.
func New(f *fsm.BEFsm, newSolver func(maxVar int32) satsolver.Solver, rngSeed int64) *Simulator {
	return &Simulator{f: f, newSolver: newSolver, rng: rand.New(rand.NewSource(rngSeed))}
}

// PickState chooses an initial state satisfying constraint c (over
// current-value atoms only), using mode to resolve among candidates. A
// nil c means "any initial state".
func (s *Simulator) PickState(ctx context.Context, c *sexp.Node, mode Mode) (State, error) {
	conv := sexp.NewConverter(s.f.Mgr, s.f.Enc)
	u := unroll.New(s.f)
	init, err := u.InitAt(0)
	if err != nil {
		return nil, err
	}
	invar, err := u.InvarAt(0)
	if err != nil {
		return nil, err
	}
	formula := s.f.Mgr.And(init, invar)
	if c != nil {
		cLit, err := conv.Convert(c)
		if err != nil {
			return nil, err
		}
		cAt0, err := s.f.Enc.ShiftToTimes(cLit, 0)
		if err != nil {
			return nil, err
		}
		formula = s.f.Mgr.And(formula, cAt0)
	}
	return s.resolveState(ctx, formula, 0, mode)
}

// Step advances from current by one transition satisfying constraint c
// (over atoms at the current and/or next time), returning the resolved
// next state.
func (s *Simulator) Step(ctx context.Context, current State, c *sexp.Node, mode Mode) (State, error) {
	conv := sexp.NewConverter(s.f.Mgr, s.f.Enc)
	u := unroll.New(s.f)

	cur, err := fixAt(s.f, 0, current)
	if err != nil {
		return nil, err
	}
	tr, err := u.TransAt(0)
	if err != nil {
		return nil, err
	}
	invar1, err := u.InvarAt(1)
	if err != nil {
		return nil, err
	}
	formula := s.f.Mgr.And(s.f.Mgr.And(cur, tr), invar1)
	if c != nil {
		cLit, err := conv.Convert(c)
		if err != nil {
			return nil, err
		}
		cAt, err := s.f.Enc.ShiftToTimes(cLit, 0)
		if err != nil {
			return nil, err
		}
		formula = s.f.Mgr.And(formula, cAt)
	}
	return s.resolveState(ctx, formula, 1, mode)
}

// Choices enumerates every distinct next state reachable from current
// under constraint c, for interactive selection. Enumeration works by
// repeatedly solving, recording the model's next state, and blocking it
// with a forbidding clause before resolving again; it stops when no
// satisfying state remains.
func (s *Simulator) Choices(ctx context.Context, current State, c *sexp.Node, limit int) ([]State, error) {
	conv := sexp.NewConverter(s.f.Mgr, s.f.Enc)
	u := unroll.New(s.f)

	cur, err := fixAt(s.f, 0, current)
	if err != nil {
		return nil, err
	}
	tr, err := u.TransAt(0)
	if err != nil {
		return nil, err
	}
	invar1, err := u.InvarAt(1)
	if err != nil {
		return nil, err
	}
	formula := s.f.Mgr.And(s.f.Mgr.And(cur, tr), invar1)
	if c != nil {
		cLit, err := conv.Convert(c)
		if err != nil {
			return nil, err
		}
		cAt, err := s.f.Enc.ShiftToTimes(cLit, 0)
		if err != nil {
			return nil, err
		}
		formula = s.f.Mgr.And(formula, cAt)
	}

	var out []State
	for i := 0; (limit <= 0 || i < limit) && !s.f.Mgr.IsConst(formula); i++ {
		st, solved, err := s.solveAndExtract(ctx, formula, 1)
		if err != nil {
			return nil, err
		}
		if !solved {
			break
		}
		out = append(out, st)

		excl, err := fixAt(s.f, 1, st)
		if err != nil {
			return nil, err
		}
		formula = s.f.Mgr.And(formula, excl.Not())
	}
	return out, nil
}

// Feasible reports, for each candidate constraint, whether it is
// satisfiable against current and T (i.e. does not deadlock the
// simulation), using one SAT call per candidate.
func (s *Simulator) Feasible(ctx context.Context, current State, candidates []*sexp.Node) ([]bool, error) {
	conv := sexp.NewConverter(s.f.Mgr, s.f.Enc)
	u := unroll.New(s.f)
	out := make([]bool, len(candidates))

	cur, err := fixAt(s.f, 0, current)
	if err != nil {
		return nil, err
	}
	tr, err := u.TransAt(0)
	if err != nil {
		return nil, err
	}
	base := s.f.Mgr.And(cur, tr)

	for i, c := range candidates {
		formula := base
		if c != nil {
			cLit, err := conv.Convert(c)
			if err != nil {
				return nil, err
			}
			cAt, err := s.f.Enc.ShiftToTimes(cLit, 0)
			if err != nil {
				return nil, err
			}
			formula = s.f.Mgr.And(formula, cAt)
		}
		verdict, err := s.solveConstant(ctx, formula)
		if err != nil {
			return nil, err
		}
		out[i] = verdict
	}
	return out, nil
}

// resolveState solves formula, then - if it's SAT - forces each state
// variable at time t to a chosen value (false-first in declaration order
// for Deterministic, coin-flipped in shuffled order for Random) as long as
// the formula remains satisfiable, yielding a single total assignment.
func (s *Simulator) resolveState(ctx context.Context, formula be.Lit, t int, mode Mode) (State, error) {
	st, solved, err := s.solveAndExtract(ctx, formula, t)
	if err != nil {
		return nil, err
	}
	if !solved {
		return nil, nil
	}
	return s.randomize(ctx, formula, t, st, mode == Random)
}

// solveAndExtract solves formula and, on SAT, reads off every committed
// state variable's value at time t from the model.
func (s *Simulator) solveAndExtract(ctx context.Context, formula be.Lit, t int) (State, bool, error) {
	if s.f.Mgr.IsConst(formula) {
		if !s.f.Mgr.ConstValue(formula) {
			return nil, false, nil
		}
		return State{}, true, nil
	}
	modelVars := map[int32]bool{}
	for _, id := range s.f.Enc.Untimed(beenc.KindState) {
		modelVars[id] = true
	}
	inst := cnf.Convert(s.f.Mgr, formula, modelVars)
	solver := s.newSolver(inst.MaxVar + 1)
	defer solver.Close()
	if err := solver.AddClauses(inst); err != nil {
		return nil, false, err
	}
	solver.Assume(inst.FormulaLit.Lit)
	verdict, err := solver.Solve(ctx)
	if err != nil {
		return nil, false, err
	}
	if verdict != config.True {
		return nil, false, nil
	}
	st := State{}
	for _, id := range s.f.Enc.Untimed(beenc.KindState) {
		name, _ := s.f.Enc.UntimedToName(id)
		lit, err := s.f.Enc.UntimedToTimed(id, t)
		if err != nil {
			continue
		}
		for v, back := range inst.BackMap {
			if back.Var() == lit.Var() {
				val := solver.Value(v)
				if !lit.IsPos() {
					val = !val
				}
				st[name] = val
				break
			}
		}
	}
	return st, true, nil
}

// solveConstant reports whether formula is satisfiable, without
// extracting a model.
func (s *Simulator) solveConstant(ctx context.Context, formula be.Lit) (bool, error) {
	if s.f.Mgr.IsConst(formula) {
		return s.f.Mgr.ConstValue(formula), nil
	}
	inst := cnf.Convert(s.f.Mgr, formula, nil)
	solver := s.newSolver(inst.MaxVar + 1)
	defer solver.Close()
	if err := solver.AddClauses(inst); err != nil {
		return false, err
	}
	solver.Assume(inst.FormulaLit.Lit)
	verdict, err := solver.Solve(ctx)
	if err != nil {
		return false, err
	}
	return verdict == config.True, nil
}

// randomize re-derives a satisfying assignment by forcing each state
// variable to a chosen value as long as the residual formula stays
// satisfiable. With random set, variables are taken in a randomly
// shuffled order and each value is a coin flip (not a uniform draw over
// the satisfying-assignment set in general); otherwise variables are
// taken in declaration order and forced false first, which yields the
// lexicographically first satisfying assignment.
func (s *Simulator) randomize(ctx context.Context, formula be.Lit, t int, fallback State, random bool) (State, error) {
	ids := append([]int32{}, s.f.Enc.Untimed(beenc.KindState)...)
	if random {
		s.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}

	acc := formula
	out := State{}
	for _, id := range ids {
		name, _ := s.f.Enc.UntimedToName(id)
		lit, err := s.f.Enc.UntimedToTimed(id, t)
		if err != nil {
			out[name] = fallback[name]
			continue
		}
		want := random && s.rng.Intn(2) == 0
		forced := lit
		if !want {
			forced = lit.Not()
		}
		candidate := s.f.Mgr.And(acc, forced)
		ok, err := s.solveConstant(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			acc = candidate
			out[name] = want
			continue
		}
		acc = s.f.Mgr.And(acc, forced.Not())
		out[name] = !want
	}
	return out, nil
}

// fixAt builds the conjunction, over every name in st, of the
// current-value literal at time t matching st's recorded value.
func fixAt(f *fsm.BEFsm, t int, st State) (be.Lit, error) {
	acc := f.Mgr.True
	names := make([]string, 0, len(st))
	for n := range st {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		id, ok := f.Enc.NameToUntimed(n)
		if !ok {
			continue
		}
		lit, err := f.Enc.UntimedToTimed(id, t)
		if err != nil {
			return be.LitNull, err
		}
		if !st[n] {
			lit = lit.Not()
		}
		acc = f.Mgr.And(acc, lit)
	}
	return acc, nil
}
