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

// Package main implements the bmc CLI: one cobra subcommand per row of
// spec.md §6's command table. Since this module has no interactive shell
// (spec.md §1 places that out of scope), every subcommand loads the model
// named by the persistent --model flag and builds its own BEFsm rather
// than relying on session state left behind by a prior bmc_setup
// invocation - the one behavioral difference from NuSMV's interactive
// command set, recorded in DESIGN.md.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/modelfile"
)

// app bundles the state every subcommand's RunE closure needs: the
// resolved Options and a logger built once in PersistentPreRunE.
type app struct {
	opts      config.Options
	modelPath string
}

// loadModel reads and builds the BEFsm named by a.modelPath.
func (a *app) loadModel() (*fsm.BEFsm, error) {
	if a.modelPath == "" {
		return nil, config.Wrap(config.ErrModelNotBuilt, "no --model given", nil)
	}
	f, err := os.Open(a.modelPath)
	if err != nil {
		return nil, config.Wrap(config.ErrModelNotBuilt, "opening model file", err)
	}
	defer f.Close()
	m, err := modelfile.Load(f)
	if err != nil {
		return nil, config.Wrap(config.ErrModelNotBuilt, "loading model file", err)
	}
	return m.Build()
}

func newRootCmd() *cobra.Command {
	a := &app{opts: config.Defaults()}

	root := &cobra.Command{
		Use:           "bmc",
		Short:         "Bounded model checking core driver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.modelPath, "model", "", "path to a modelfile.Model JSON document")
	a.opts.RegisterFlags(root.PersistentFlags())
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		a.opts.BindEnv(cmd.Flags())
		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		a.opts.Logger = logger
		return nil
	}

	root.AddCommand(
		a.setupCmd(),
		a.checkInvarBMCCmd(),
		a.checkInvarBMCIncCmd(),
		a.checkLTLSpecBMCCmd(),
		a.checkLTLSpecBMCIncCmd(),
		a.checkLTLSpecSBMCCmd(),
		a.simulateCmd(),
		a.pickStateCmd(),
	)
	return root
}

// main runs the root command under a context that is canceled the moment
// SIGINT arrives, so every blocking SAT call in flight (satsolver.Solver
// implementations thread ctx through to their backend) gets a chance to
// unwind instead of leaving the process to be killed mid-query. A second
// SIGINT, delivered while the first is still unwinding (a long CNF
// conversion or a solver that ignores cancellation), forces an immediate
// exit rather than leaving the user stuck holding Ctrl-C.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	forceKill := make(chan os.Signal, 1)
	signal.Notify(forceKill, os.Interrupt)
	defer signal.Stop(forceKill)

	done := make(chan struct{})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		return newRootCmd().ExecuteContext(ctx)
	})
	g.Go(func() error {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			// The first SIGINT already canceled ctx and was delivered to
			// forceKill as well; consume that copy first.
			select {
			case <-forceKill:
			case <-done:
				return nil
			}
			// Wait for a second one and bail out immediately rather than
			// give the command loop time to unwind a SAT call that ignores
			// cancellation.
			select {
			case <-forceKill:
				return fmt.Errorf("second interrupt received, forcing exit")
			case <-done:
				return nil
			}
		}
	})
	return g.Wait()
}
