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

package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
)

func TestProductConjoinsInitInvarTransAndConcatenatesFairness(t *testing.T) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	enc.CommitLayer(beenc.KindState, []string{"x", "y"})
	xCur, _ := enc.CurrentLit("x")
	yCur, _ := enc.CurrentLit("y")

	f1 := New(mgr, enc, xCur, mgr.True, mgr.True, []be.Lit{xCur})
	f2 := New(mgr, enc, yCur, mgr.True, mgr.True, []be.Lit{yCur})

	p := f1.Product(f2)
	require.Equal(t, mgr.And(xCur, yCur), p.Init)
	require.Equal(t, mgr.And(mgr.True, mgr.True), p.Invar)
	require.Equal(t, mgr.And(mgr.True, mgr.True), p.Trans)
	require.Equal(t, []be.Lit{xCur, yCur}, p.Fairness)
	require.Same(t, mgr, p.Mgr)
	require.Same(t, enc, p.Enc)
}

func TestProductLeavesOriginalFSMsUnmodified(t *testing.T) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	enc.CommitLayer(beenc.KindState, []string{"x", "y"})
	xCur, _ := enc.CurrentLit("x")
	yCur, _ := enc.CurrentLit("y")

	f1 := New(mgr, enc, xCur, mgr.True, mgr.True, []be.Lit{xCur})
	f2 := New(mgr, enc, yCur, mgr.True, mgr.True, []be.Lit{yCur})
	f1.Product(f2)

	require.Equal(t, xCur, f1.Init)
	require.Len(t, f1.Fairness, 1)
	require.Equal(t, yCur, f2.Init)
}
