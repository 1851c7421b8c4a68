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

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/sbmc"
	"github.com/nusmv-go/bmc/internal/trace"
)

// checkLTLSpecSBMCCmd implements check_ltlspec_sbmc: incremental PLTL BMC
// via internal/sbmc.Check, reusing the loopback disjunction across
// bounds ("virtual unrolling") rather than just sharing a solver. -N
// forces the PLTL tableau even for purely-future formulas, matching
// bmc_force_pltl_tableau - there is no separate "skip virtual unrolling"
// mode, since the reused-disjunction encoding is how this command
// differs from check_ltlspec_bmc_inc in the first place; a caller who
// wants the non-virtual-unrolling incremental search should use
// check_ltlspec_bmc_inc instead.
func (a *app) checkLTLSpecSBMCCmd() *cobra.Command {
	var propStr string
	var negate bool
	var forcePLTL bool
	cmd := &cobra.Command{
		Use:   "check_ltlspec_sbmc",
		Short: "Run incremental PLTL BMC with virtual unrolling",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.loadModel()
			if err != nil {
				return err
			}
			negProp, err := negatedLTLProp(propStr, negate)
			if err != nil {
				return err
			}
			res, err := sbmc.Check(cmd.Context(), f, negProp, a.opts.Length, newGiniSolver, sbmc.Options{
				ForcePLTLTableau:  forcePLTL || a.opts.ForcePLTLTableau,
				CompletenessCheck: a.opts.SBMCIlOpt,
			})
			if err != nil {
				return err
			}
			if res.Solver != nil {
				defer res.Solver.Close()
			}
			if res.Verdict == config.False && res.Instance != nil && res.Solver != nil {
				tr, terr := trace.Reconstruct(f.Enc, res.Instance, res.Solver, res.Bound, config.AllLoopbacks())
				if terr == nil {
					fmt.Fprintln(cmd.OutOrStdout(), tr)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Verdict)
			if res.Verdict == config.Unknown && res.Complete {
				fmt.Fprintln(cmd.OutOrStdout(), "-- completeness threshold reached, no counterexample at any bound")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&propStr, "prop", "p", "", "LTL property")
	cmd.Flags().BoolVarP(&negate, "negate-prop", "n", false, "the property is already negated")
	cmd.Flags().BoolVarP(&forcePLTL, "force-pltl", "N", false, "force the PLTL tableau for this run")
	return cmd
}
