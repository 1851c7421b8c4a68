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

package be

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashConsing(t *testing.T) {
	m := NewManager()
	a := m.Var()
	b := m.Var()

	and1 := m.And(a, b)
	and2 := m.And(a, b)
	assert.Equal(t, and1, and2, "repeated And(a, b) must hash-cons to the same literal")

	// Canonical child order means And(a, b) == And(b, a).
	and3 := m.And(b, a)
	assert.Equal(t, and1, and3)

	or1 := m.Or(a, b)
	or2 := m.Or(a, b)
	assert.Equal(t, or1, or2)

	nodesBefore := m.Len()
	_ = m.And(a, b)
	assert.Equal(t, nodesBefore, m.Len(), "a fully hash-consed And must not allocate a new node")
}

func TestAndSimplifications(t *testing.T) {
	m := NewManager()
	a := m.Var()

	assert.Equal(t, a, m.And(a, a), "and(x,x) = x")
	assert.Equal(t, m.False, m.And(a, a.Not()), "and(x,!x) = false")
	assert.Equal(t, m.False, m.And(m.False, a))
	assert.Equal(t, a, m.And(m.True, a))
}

func TestIffConstantFolding(t *testing.T) {
	m := NewManager()
	a := m.Var()

	assert.Equal(t, a, m.Iff(a, m.True))
	assert.Equal(t, a.Not(), m.Iff(a, m.False))
}

func TestNotIsFreeBitFlip(t *testing.T) {
	m := NewManager()
	a := m.Var()
	nodesBefore := m.Len()
	na := m.Not(a)
	assert.Equal(t, nodesBefore, m.Len())
	assert.Equal(t, a, m.Not(na))
}

func TestTraversePostOrderVisitsSharedNodesOnce(t *testing.T) {
	m := NewManager()
	a, b, c := m.Var(), m.Var(), m.Var()
	shared := m.And(a, b)
	top := m.And(shared, c)

	var order []Lit
	firstVisits := map[int32]int{}
	v := &countingVisitor{
		onFirst: func(l Lit) { firstVisits[l.Var()]++ },
		onLast:  func(l Lit) { order = append(order, l) },
	}
	m.Traverse(top, v)

	require.Greater(t, len(order), 0)
	assert.Equal(t, 1, firstVisits[shared.Var()], "shared subgraph must be visited exactly once")
	assert.Equal(t, order[len(order)-1], top, "topmost node must be visited last in post-order")
}

type countingVisitor struct {
	onFirst func(Lit)
	onLast  func(Lit)
}

func (c *countingVisitor) OnSet(Lit) bool     { return false }
func (c *countingVisitor) OnFirstVisit(l Lit) { c.onFirst(l) }
func (c *countingVisitor) OnBackVisit(Lit, Lit) {}
func (c *countingVisitor) OnLastVisit(l Lit)  { c.onLast(l) }
