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

package ltl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGloballyOfAtom(t *testing.T) {
	f, err := Parse("(G x)")
	require.NoError(t, err)
	require.Equal(t, OpG, f.Op)
	require.Equal(t, "x", f.A.Prop.Name)
}

func TestParseUntilOfPropositionalArgs(t *testing.T) {
	f, err := Parse("(U (& x y) (! z))")
	require.NoError(t, err)
	require.Equal(t, OpU, f.Op)
	require.Equal(t, OpAnd, f.A.Op)
	require.Equal(t, OpNot, f.B.Op)
}

func TestParseMixedPastFuture(t *testing.T) {
	f, err := Parse("(G (-> x (O y)))")
	require.NoError(t, err)
	require.True(t, f.HasPast())
}

func TestParseRejectsUnbalancedParens(t *testing.T) {
	_, err := Parse("(G x")
	require.Error(t, err)
}
