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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/cnf"
)

func TestGiniSolverSolvesSimpleSatisfiableInstance(t *testing.T) {
	// (x1 | x2) & (!x1 | x2)  =>  x2 must be true.
	inst := &cnf.Instance{
		Clauses: [][]int32{{1, 2}, {-1, 2}},
		MaxVar:  2,
	}
	s := NewGiniSolver(2)
	defer s.Close()

	require.NoError(t, s.AddClauses(inst))
	verdict, err := s.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, config.True, verdict)
	require.True(t, s.Value(2))
}

func TestGiniSolverReportsUnsatOnContradiction(t *testing.T) {
	inst := &cnf.Instance{
		Clauses: [][]int32{{1}, {-1}},
		MaxVar:  1,
	}
	s := NewGiniSolver(1)
	defer s.Close()

	require.NoError(t, s.AddClauses(inst))
	verdict, err := s.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, config.False, verdict)
}

func TestGiniSolverAssumeUntryRoundTrips(t *testing.T) {
	// x1 | x2, no other constraint: assuming !x1 forces x2 true; Untry
	// lifts the assumption again.
	inst := &cnf.Instance{
		Clauses: [][]int32{{1, 2}},
		MaxVar:  2,
	}
	s := NewGiniSolver(2)
	defer s.Close()
	require.NoError(t, s.AddClauses(inst))

	s.Assume(-1)
	verdict, err := s.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, config.True, verdict)
	require.True(t, s.Value(2))

	s.Untry()
	verdict, err = s.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, config.True, verdict)
}

func TestGiniSolverHonorsContextCancellation(t *testing.T) {
	inst := &cnf.Instance{Clauses: [][]int32{{1}}, MaxVar: 1}
	s := NewGiniSolver(1)
	defer s.Close()
	require.NoError(t, s.AddClauses(inst))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Solve(ctx)
	require.Error(t, err)
}
