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

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/ltl"
	"github.com/nusmv-go/bmc/internal/satsolver"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/trace"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// negatedLTLProp parses an LTL formula string and, unless it already
// names the negation under -n, wraps it in Not - the same
// already-negated-vs-not convention as parseProp, extended to the richer
// temporal grammar.
func negatedLTLProp(s string, negate bool) (*ltl.Formula, error) {
	if s == "" {
		return nil, config.Wrap(config.ErrParse, "no LTL property given (-p)", nil)
	}
	f, err := ltl.Parse(s)
	if err != nil {
		return nil, err
	}
	if negate {
		return f, nil
	}
	return ltl.Not(f), nil
}

// checkLTLSpecBMCCmd implements check_ltlspec_bmc: for k = 0..K, rebuild
// the whole LTL tableau from scratch and solve it with a fresh CNF
// instance and a fresh solver, the monolithic (non-incremental)
// counterpart of check_ltlspec_bmc_inc.
func (a *app) checkLTLSpecBMCCmd() *cobra.Command {
	var propStr string
	var negate bool
	cmd := &cobra.Command{
		Use:   "check_ltlspec_bmc",
		Short: "Run the monolithic LTL bounded model checking tableau",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.loadModel()
			if err != nil {
				return err
			}
			negProp, err := negatedLTLProp(propStr, negate)
			if err != nil {
				return err
			}
			lb, err := config.ParseLoopback(a.opts.LoopbackSpec, a.opts.Length)
			if err != nil {
				return err
			}

			conv := sexp.NewConverter(f.Mgr, f.Enc)
			u := unroll.New(f)
			stateVars := f.Enc.Untimed(beenc.KindState)

			for k := 0; k <= a.opts.Length; k++ {
				formula, buildErr := buildLTLFormula(f, conv, u, negProp, k, lb, stateVars, a.opts.ForcePLTLTableau)
				if buildErr != nil {
					return buildErr
				}
				verdict, solver, inst, solveErr := solveLit(cmd.Context(), f.Mgr, formula)
				if solveErr != nil {
					return solveErr
				}
				if a.opts.DimacsFilename != "" && inst != nil {
					if err := dumpDIMACSToFile(a.opts.DimacsFilename, inst, f.Enc, k, "ltlspec", k); err != nil {
						return err
					}
				}
				if verdict == config.True {
					tr, terr := trace.Reconstruct(f.Enc, inst, solver, k, lb)
					solver.Close()
					if terr == nil {
						fmt.Fprintln(cmd.OutOrStdout(), tr)
					}
					fmt.Fprintln(cmd.OutOrStdout(), config.False)
					return nil
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Unknown)
			return nil
		},
	}
	cmd.Flags().StringVarP(&propStr, "prop", "p", "", "LTL property")
	cmd.Flags().BoolVarP(&negate, "negate-prop", "n", false, "the property is already negated")
	return cmd
}

// checkLTLSpecBMCIncCmd implements check_ltlspec_bmc_inc: the same search
// as check_ltlspec_bmc, but the tableau formula built at each bound k is
// loaded into one persistent IncrementalConverter/Solver pair instead of
// a fresh CNF instance and solver, so clauses shared with bound k-1 (the
// whole prefix, most of the tableau) are never re-added. Unlike
// check_ltlspec_sbmc this does not reuse the disjunctive loopback
// encoding across bounds - it simply keeps the same solver open.
func (a *app) checkLTLSpecBMCIncCmd() *cobra.Command {
	var propStr string
	var negate bool
	cmd := &cobra.Command{
		Use:   "check_ltlspec_bmc_inc",
		Short: "Run the incremental (shared-solver) LTL bounded model checking loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.loadModel()
			if err != nil {
				return err
			}
			negProp, err := negatedLTLProp(propStr, negate)
			if err != nil {
				return err
			}
			lb, err := config.ParseLoopback(a.opts.LoopbackSpec, a.opts.Length)
			if err != nil {
				return err
			}

			conv := sexp.NewConverter(f.Mgr, f.Enc)
			u := unroll.New(f)
			stateVars := f.Enc.Untimed(beenc.KindState)
			ic := cnf.NewIncrementalConverter(f.Mgr)
			solver := newGiniSolver(256)
			defer solver.Close()

			for k := 0; k <= a.opts.Length; k++ {
				formula, buildErr := buildLTLFormula(f, conv, u, negProp, k, lb, stateVars, a.opts.ForcePLTLTableau)
				if buildErr != nil {
					return buildErr
				}
				verdict, inst, solveErr := solveIncremental(cmd.Context(), f.Mgr, ic, solver, formula)
				if solveErr != nil {
					return solveErr
				}
				if verdict == config.True {
					tr, terr := trace.Reconstruct(f.Enc, inst, solver, k, lb)
					if terr == nil {
						fmt.Fprintln(cmd.OutOrStdout(), tr)
					}
					fmt.Fprintln(cmd.OutOrStdout(), config.False)
					return nil
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Unknown)
			return nil
		},
	}
	cmd.Flags().StringVarP(&propStr, "prop", "p", "", "LTL property")
	cmd.Flags().BoolVarP(&negate, "negate-prop", "n", false, "the property is already negated")
	return cmd
}

// solveIncremental is tryIncremental from internal/invar, duplicated here
// since that helper is unexported: load any new clauses formula's DAG
// needs into ic/solver, assume its top literal, and solve. On SAT the
// assumption frame is left in place so the caller can pull a model out;
// on anything else it is popped so the solver is clean for the next k.
func solveIncremental(ctx context.Context, mgr *be.Manager, ic *cnf.IncrementalConverter, solver satsolver.Solver, formula be.Lit) (config.Verdict, *cnf.Instance, error) {
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

func newGiniSolver(maxVar int32) satsolver.Solver { return satsolver.NewGiniSolver(maxVar) }

// buildLTLFormula conjoins the path prefix over 0..k with the tableau of
// neg at bound k (and, for a fixed loopback l, the loop condition
// state(l) == state(k)). It dispatches to the optimized monolithic tableau
// or the PLTL tableau: the PLTL evaluator is required whenever the formula
// mixes in past operators, and can be forced on for any formula via
// --force-pltl-tableau.
func buildLTLFormula(f *fsm.BEFsm, conv *sexp.Converter, u *unroll.Unroller, neg *ltl.Formula, k int, lb config.Loopback, stateVars []int32, forcePLTL bool) (be.Lit, error) {
	prefix, err := u.Prefix(k)
	if err != nil {
		return be.LitNull, err
	}
	var tab be.Lit
	if forcePLTL || neg.HasPast() {
		tab, err = ltl.BuildPLTLTableau(f.Mgr, conv, u, neg, k, lb, stateVars)
	} else {
		tab, err = ltl.BuildTableau(f.Mgr, conv, u, neg, k, lb, stateVars)
	}
	if err != nil {
		return be.LitNull, err
	}
	formula := f.Mgr.And(prefix, tab)
	if lb.Kind == config.LoopbackAt {
		loop, err := u.LoopCondition(lb.At, k, stateVars)
		if err != nil {
			return be.LitNull, err
		}
		formula = f.Mgr.And(formula, loop)
	}
	return formula, nil
}

// solveLit converts a single BE literal to CNF and solves it one-shot,
// the same pattern invar.solveFormula follows, duplicated here since that
// helper is unexported.
func solveLit(ctx context.Context, mgr *be.Manager, formula be.Lit) (config.Verdict, satsolver.Solver, *cnf.Instance, error) {
	if mgr.IsConst(formula) {
		if mgr.ConstValue(formula) {
			return config.True, nil, nil, nil
		}
		return config.False, nil, nil, nil
	}
	inst := cnf.Convert(mgr, formula, nil)
	solver := satsolver.NewGiniSolver(inst.MaxVar)
	if err := solver.AddClauses(inst); err != nil {
		solver.Close()
		return config.Unknown, nil, nil, err
	}
	solver.Assume(inst.FormulaLit.Lit)
	verdict, err := solver.Solve(ctx)
	if err != nil {
		solver.Close()
		return config.Unknown, nil, nil, err
	}
	if verdict != config.True {
		solver.Close()
		return verdict, nil, inst, nil
	}
	return verdict, solver, inst, nil
}
