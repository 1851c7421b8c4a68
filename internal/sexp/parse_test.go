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

package sexp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseThenStringRendersInfix(t *testing.T) {
	n, err := Parse("(& x (! y))")
	require.NoError(t, err)
	require.Equal(t, "(x & (! y))", n.String())
}

func TestParseRejectsUnknownOperator(t *testing.T) {
	_, err := Parse("(xor x y)")
	require.Error(t, err)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := Parse("x y")
	require.Error(t, err)
}

func TestParseNext(t *testing.T) {
	n, err := Parse("(next x)")
	require.NoError(t, err)
	require.Equal(t, KindNext, n.Kind)
	require.Equal(t, "x", n.A.Name)
}
