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

	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
)

func TestConverterCachesByNodeIdentity(t *testing.T) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	enc.CommitLayer(beenc.KindState, []string{"p", "q"})

	shared := And(Atom("p"), Atom("q"))
	tree := Or(shared, Not(shared))

	conv := NewConverter(mgr, enc)
	lit, err := conv.Convert(tree)
	require.NoError(t, err)
	require.True(t, mgr.IsConst(lit))
	require.True(t, mgr.ConstValue(lit))
}

func TestConvertNextRequiresStateAtom(t *testing.T) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	enc.CommitLayer(beenc.KindState, []string{"p"})

	conv := NewConverter(mgr, enc)
	_, err := conv.Convert(Next(And(Atom("p"), Atom("p"))))
	require.Error(t, err)
}
