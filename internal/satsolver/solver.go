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

// Package satsolver abstracts the external, blocking SAT call that every
// invariant and tableau algorithm ultimately reduces to, and provides a
// gini-backed implementation of it.
package satsolver

import (
	"context"
	"fmt"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/cnf"
)

// Solver is the named collaborator of spec.md §1/§6: something that can
// load a CNF instance, push and pop assumption-literal frames, and answer
// satisfiability queries. Implementations must support the "acquire once,
// assume/solve/untry many times, release once" lifecycle the incremental
// invariant algorithms of spec.md §4.5 rely on.
type Solver interface {
	// AddClauses loads every clause of inst into the solver's clause
	// database. It may be called more than once, to grow an instance
	// incrementally as k increases.
	AddClauses(inst *cnf.Instance) error

	// Assume pushes one assumption frame: lits are assumed true for the
	// next Solve call and every subsequent one, until the matching Untry.
	Assume(lits ...int32)

	// Solve runs the underlying decision procedure under the currently
	// assumed literals, honoring ctx cancellation where the backend
	// supports interruption.
	Solve(ctx context.Context) (config.Verdict, error)

	// Value returns the model value of lit after a Solve that returned
	// True. The sign of lit selects the literal's own polarity, so
	// Value(-l) == !Value(l).
	Value(lit int32) bool

	// Untry pops the most recently pushed assumption frame, restoring the
	// solver to the state before the matching Assume. This is the "LIFO
	// cleanup" resource discipline spec.md §5 requires.
	Untry()

	// Close releases backend resources. After Close the Solver must not
	// be used again.
	Close() error
}

// Interpolator is an optional capability a Solver may implement: Craig
// interpolant extraction between the clauses added before and after a
// partition marker, needed only by the interpolant-sequence invariant
// algorithm (spec.md §4.5.2(f)). A Solver that does not implement this
// interface causes that one algorithm to fail with
// config.ErrBackendUnavailable rather than degrading silently - see
// spec.md §9 open question (c).
type Interpolator interface {
	// Interpolate returns a BE-independent CNF fragment (as added
	// clauses over the solver's existing variables) that is implied by
	// the A-side clauses and inconsistent with the B-side clauses, for
	// the two partitions most recently delimited by PartitionMark.
	Interpolate() ([][]int32, error)

	// PartitionMark starts a new interpolation partition: every clause
	// added after this call belongs to a new side of the A/B split.
	PartitionMark()
}

// ErrUnsat is a stable sentinel backends can wrap when they report
// unsatisfiability through an error path rather than a config.Verdict
// return value.
var ErrUnsat = fmt.Errorf("satsolver: instance is unsatisfiable")
