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
	"sort"

	"github.com/spf13/cobra"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/sim"
)

// printState renders a sim.State the way trace.Trace.String does: sorted
// variable names, one per line.
func printState(names []string, st sim.State) string {
	out := ""
	for _, n := range names {
		v, ok := st[n]
		if !ok {
			continue
		}
		out += fmt.Sprintf("  %s = %v\n", n, v)
	}
	return out
}

func sortedStateNames(st sim.State) []string {
	names := make([]string, 0, len(st))
	for n := range st {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func parseConstraint(s string) (*sexp.Node, error) {
	if s == "" {
		return nil, nil
	}
	return sexp.Parse(s)
}

func modeFromFlags(random, interactive bool) sim.Mode {
	switch {
	case interactive:
		return sim.Interactive
	case random:
		return sim.Random
	default:
		return sim.Deterministic
	}
}

// pickStateCmd implements pick_state: choose one initial state,
// optionally constrained by --constraint, optionally enumerating every
// choice under -i.
func (a *app) pickStateCmd() *cobra.Command {
	var constraintStr string
	var random bool
	var interactive bool
	var limit int
	cmd := &cobra.Command{
		Use:   "pick_state",
		Short: "Choose an initial state of the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.loadModel()
			if err != nil {
				return err
			}
			c, err := parseConstraint(constraintStr)
			if err != nil {
				return err
			}
			s := sim.New(f, newGiniSolver, 1)
			mode := modeFromFlags(random, interactive)

			if interactive {
				choices, err := s.Choices(cmd.Context(), sim.State{}, c, limit)
				if err != nil {
					return err
				}
				return printChoices(cmd, choices)
			}

			st, err := s.PickState(cmd.Context(), c, mode)
			if err != nil {
				return err
			}
			if st == nil {
				fmt.Fprintln(cmd.OutOrStdout(), config.False, "-- no initial state satisfies the constraint")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), printState(sortedStateNames(st), st))
			return nil
		},
	}
	cmd.Flags().StringVar(&constraintStr, "constraint", "", "constraint over current-state atoms")
	cmd.Flags().BoolVarP(&random, "random", "r", false, "pick uniformly at random among satisfying states")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "enumerate every satisfying state")
	cmd.Flags().IntVarP(&limit, "limit", "N", 16, "maximum number of choices to enumerate under -i")
	return cmd
}

// simulateCmd implements simulate: step the model forward -t times from
// a chosen initial state, applying --constraint at every step.
func (a *app) simulateCmd() *cobra.Command {
	var constraintStr string
	var random bool
	var interactive bool
	var steps int
	var limit int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Step the model forward from an initial state",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.loadModel()
			if err != nil {
				return err
			}
			c, err := parseConstraint(constraintStr)
			if err != nil {
				return err
			}
			s := sim.New(f, newGiniSolver, 1)
			mode := modeFromFlags(random, interactive)

			current, err := s.PickState(cmd.Context(), nil, mode)
			if err != nil {
				return err
			}
			if current == nil {
				fmt.Fprintln(cmd.OutOrStdout(), config.False, "-- model has no initial state")
				return nil
			}
			names := sortedStateNames(current)
			fmt.Fprintf(cmd.OutOrStdout(), "-- State 0 --\n%s", printState(names, current))

			for t := 1; t <= steps; t++ {
				if interactive {
					choices, err := s.Choices(cmd.Context(), current, c, limit)
					if err != nil {
						return err
					}
					if len(choices) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), config.False, "-- deadlock, no successor state")
						return nil
					}
					current = choices[0]
				} else {
					next, err := s.Step(cmd.Context(), current, c, mode)
					if err != nil {
						return err
					}
					if next == nil {
						fmt.Fprintln(cmd.OutOrStdout(), config.False, "-- deadlock, no successor state")
						return nil
					}
					current = next
				}
				fmt.Fprintf(cmd.OutOrStdout(), "-- State %d --\n%s", t, printState(names, current))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&constraintStr, "constraint", "", "constraint over current/next atoms")
	cmd.Flags().BoolVarP(&random, "random", "r", false, "resolve each step uniformly at random")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "take the first enumerated choice at each step")
	cmd.Flags().IntVarP(&steps, "steps", "t", 10, "number of steps to simulate")
	cmd.Flags().IntVarP(&limit, "limit", "N", 16, "maximum number of choices to enumerate under -i")
	return cmd
}

func printChoices(cmd *cobra.Command, choices []sim.State) error {
	if len(choices) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), config.False, "-- no state satisfies the constraint")
		return nil
	}
	for i, st := range choices {
		fmt.Fprintf(cmd.OutOrStdout(), "-- Choice %d --\n%s", i, printState(sortedStateNames(st), st))
	}
	return nil
}
