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
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/cnf"
	"github.com/nusmv-go/bmc/internal/invar"
	"github.com/nusmv-go/bmc/internal/satsolver"
	"github.com/nusmv-go/bmc/internal/sexp"
)

// checkInvarBMCCmd implements check_invar_bmc: run the selected invariant
// algorithm (-a) up to bound -k against property -p; -n marks -p as
// already being the negation to search for.
func (a *app) checkInvarBMCCmd() *cobra.Command {
	var propStr string
	var negate bool
	cmd := &cobra.Command{
		Use:   "check_invar_bmc",
		Short: "Run a bounded invariant-checking algorithm",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.loadModel()
			if err != nil {
				return err
			}
			algo, ok := invar.Algorithms[a.opts.InvarAlg]
			if !ok {
				return config.Wrap(config.ErrType, fmt.Sprintf("unknown invariant algorithm %q", a.opts.InvarAlg), nil)
			}
			prop, err := parseProp(propStr, negate)
			if err != nil {
				return err
			}

			start := timeNow()
			res, err := algo(cmd.Context(), f, prop, a.opts.Length, newSolverFactory())
			if err != nil {
				return err
			}
			a.opts.Logger.Info("check_invar_bmc finished",
				zap.String("algorithm", a.opts.InvarAlg),
				zap.String("verdict", res.Verdict.String()),
				zap.Int("bound", res.Bound),
				zap.Duration("elapsed", timeSince(start)))

			if a.opts.InvarDimacsFilename != "" && res.Instance != nil {
				if err := dumpDIMACSToFile(a.opts.InvarDimacsFilename, res.Instance, f.Enc, res.Bound, a.opts.InvarAlg, 0); err != nil {
					return err
				}
			}
			if res.Solver != nil {
				defer res.Solver.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Verdict)
			return nil
		},
	}
	cmd.Flags().StringVarP(&propStr, "prop", "p", "", "property s-expression")
	cmd.Flags().BoolVarP(&negate, "negate-prop", "n", false, "the property is already negated")
	return cmd
}

// checkInvarBMCIncCmd implements check_invar_bmc_inc: the incremental
// strategies only (dual, zigzag, falsification), selected by -s.
func (a *app) checkInvarBMCIncCmd() *cobra.Command {
	var propStr string
	var negate bool
	cmd := &cobra.Command{
		Use:   "check_invar_bmc_inc",
		Short: "Run an incremental invariant-checking strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.loadModel()
			if err != nil {
				return err
			}
			algo, ok := invar.Algorithms[a.opts.IncInvarAlg]
			if !ok {
				return config.Wrap(config.ErrType, fmt.Sprintf("unknown incremental strategy %q", a.opts.IncInvarAlg), nil)
			}
			prop, err := parseProp(propStr, negate)
			if err != nil {
				return err
			}
			res, err := algo(cmd.Context(), f, prop, a.opts.Length, newSolverFactory())
			if err != nil {
				return err
			}
			if res.Solver != nil {
				defer res.Solver.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Verdict)
			return nil
		},
	}
	cmd.Flags().StringVarP(&propStr, "prop", "p", "", "property s-expression")
	cmd.Flags().BoolVarP(&negate, "negate-prop", "n", false, "the property is already negated")
	cmd.Flags().StringVarP(&a.opts.IncInvarAlg, "strategy", "s", a.opts.IncInvarAlg, "incremental strategy: dual, zigzag, falsification")
	return cmd
}

func parseProp(s string, negate bool) (*sexp.Node, error) {
	if s == "" {
		return nil, config.Wrap(config.ErrParse, "no property given (-p)", nil)
	}
	n, err := sexp.Parse(s)
	if err != nil {
		return nil, err
	}
	if negate {
		return n, nil // -n means "already the negation to search for"
	}
	return sexp.Not(n), nil
}

func newSolverFactory() invar.SolverFactory {
	return func(maxVar int32) satsolver.Solver { return satsolver.NewGiniSolver(maxVar) }
}

func dumpDIMACSToFile(template string, inst *cnf.Instance, enc *beenc.Encoder, k int, algName string, callN int) error {
	path := config.ExpandFilename(template, config.FilenameMacros{FormulaName: algName, Bound: k, Call: callN})
	out, closer, err := dimacsWriter(path)
	if err != nil {
		return err
	}
	defer closer.Close()
	return cnf.DumpDIMACS(out, inst, enc, k)
}
