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

// Package be implements the Boolean Expression manager: a hash-consed,
// complement-edge Reduced Boolean Circuit (RBC) that is the single
// intermediate representation shared by the sexp converter, the model
// unroller, the LTL tableau and the CNF encoder.
//
// The representation follows the classic AND-inverter-graph scheme: every
// node is a binary AND of two child literals, and negation is a free,
// O(1) operation implemented by flipping the low bit of a Lit rather than
// allocating a new node. A single hash table ("strash", structural hash)
// keeps identical (a, b) pairs from ever being allocated twice.
package be

import "fmt"

// Lit is a literal: a reference to a node together with a polarity. The
// low bit carries the sign (0 = positive, 1 = negated); the remaining bits
// are the node's variable index. LitNull is the zero value and never
// denotes a valid literal.
type Lit int32

// LitNull is the sentinel "no literal" value, used for unset child edges.
const LitNull Lit = 0

// Var returns the variable index (node id) that the literal refers to.
func (l Lit) Var() int32 { return int32(l >> 1) }

// IsPos reports whether the literal is not negated.
func (l Lit) IsPos() bool { return l&1 == 0 }

// Not returns the complement of l. This is an O(1) bit flip, never an
// allocation.
func (l Lit) Not() Lit { return l ^ 1 }

func varLit(v int32) Lit { return Lit(v << 1) }

// node is one entry in the DAG. A leaf (variable or the reserved constant)
// has a == b == LitNull. next chains nodes that collide in the strash
// table.
type node struct {
	a, b Lit
	next uint32
}

// Manager owns the whole DAG for one BMC session. It must be threaded
// explicitly through the API; there is no global, package-level instance,
// per the "no global mutable managers" rule for this rewrite.
type Manager struct {
	nodes  []node
	strash []uint32
	// True and False are the two literals of the single reserved constant
	// node (node index 1); True is its positive literal.
	True, False Lit
}

// NewManager creates a Manager with a small initial capacity; it grows by
// doubling as needed.
func NewManager() *Manager {
	return NewManagerCap(128)
}

// NewManagerCap creates a Manager with capacity pre-sized to capHint nodes.
func NewManagerCap(capHint int) *Manager {
	if capHint < 2 {
		capHint = 2
	}
	m := &Manager{
		nodes:  make([]node, 2, capHint),
		strash: make([]uint32, capHint),
	}
	// Node 0 is unused (LitNull must never resolve to a real node). Node 1
	// is the reserved constant; its positive literal is True.
	m.True = varLit(1)
	m.False = m.True.Not()
	return m
}

// Var allocates a fresh, unconstrained Boolean variable and returns its
// positive literal.
func (m *Manager) Var() Lit {
	_, id := m.newNode()
	return varLit(int32(id))
}

// IsConst reports whether l is the manager's True or False literal.
func (m *Manager) IsConst(l Lit) bool { return l == m.True || l == m.False }

// ConstValue returns the boolean value of a constant literal. The caller
// must check IsConst first.
func (m *Manager) ConstValue(l Lit) bool { return l == m.True }

// IsLeaf reports whether l refers to a variable (no children), as opposed
// to an AND node.
func (m *Manager) IsLeaf(l Lit) bool {
	n := m.nodes[l.Var()]
	return n.a == LitNull && n.b == LitNull
}

// Ins returns the two children of an AND node. For leaves it returns
// (LitNull, LitNull).
func (m *Manager) Ins(l Lit) (Lit, Lit) {
	n := m.nodes[l.Var()]
	return n.a, n.b
}

// Len returns the number of node slots allocated so far, including the
// unused slot 0 and the reserved constant at index 1.
func (m *Manager) Len() int { return len(m.nodes) }

// And returns a literal equivalent to "a AND b", allocating a new node
// only if an equivalent one is not already hash-consed. Repeated calls
// with the same (possibly reordered) arguments always return the same
// Lit - this is invariant #1 of the BMC core's testable properties.
func (m *Manager) And(a, b Lit) Lit {
	if a == b {
		return a
	}
	if a == b.Not() {
		return m.False
	}
	// Canonical child order: AND children are ordered by id so that
	// And(a, b) and And(b, a) hash-cons to the same node.
	if a > b {
		a, b = b, a
	}
	if a == m.False {
		return m.False
	}
	if a == m.True {
		return b
	}

	code := strashCode(a, b)
	cap32 := uint32(cap(m.nodes))
	bucket := code % cap32
	for si := m.strash[bucket]; si != 0; {
		n := &m.nodes[si]
		if n.a == a && n.b == b {
			return varLit(int32(si))
		}
		si = n.next
	}

	n, id := m.newNode()
	n.a, n.b = a, b
	bucket = code % uint32(cap(m.nodes))
	n.next = m.strash[bucket]
	m.strash[bucket] = id
	return varLit(int32(id))
}

// Not returns the negation of l. Free operation: see Lit.Not.
func (m *Manager) Not(l Lit) Lit { return l.Not() }

// Or constructs a ∨ b via De Morgan (¬(¬a ∧ ¬b)).
func (m *Manager) Or(a, b Lit) Lit { return m.And(a.Not(), b.Not()).Not() }

// Ands conjoins a sequence of literals, short-circuiting on False.
func (m *Manager) Ands(ls ...Lit) Lit {
	r := m.True
	for _, l := range ls {
		r = m.And(r, l)
		if r == m.False {
			return m.False
		}
	}
	return r
}

// Ors disjoins a sequence of literals, short-circuiting on True.
func (m *Manager) Ors(ls ...Lit) Lit {
	r := m.False
	for _, l := range ls {
		r = m.Or(r, l)
		if r == m.True {
			return m.True
		}
	}
	return r
}

// Implies constructs a → b as ¬a ∨ b.
func (m *Manager) Implies(a, b Lit) Lit { return m.Or(a.Not(), b) }

// Xor constructs a ⊕ b.
func (m *Manager) Xor(a, b Lit) Lit {
	return m.Or(m.And(a, b.Not()), m.And(a.Not(), b))
}

// Iff constructs a ↔ b. Per the spec, IFF with a constant operand
// simplifies to identity or negation; that simplification falls out of Xor
// and the surrounding Not for free via the And/Or constant rules above.
func (m *Manager) Iff(a, b Lit) Lit { return m.Xor(a, b).Not() }

// Ite constructs "if c then t else e" as (c ∧ t) ∨ (¬c ∧ e). If c is a
// constant this collapses eagerly because And/Or fold constants.
func (m *Manager) Ite(c, t, e Lit) Lit {
	if m.IsConst(c) {
		if m.ConstValue(c) {
			return t
		}
		return e
	}
	return m.Or(m.And(c, t), m.And(c.Not(), e))
}

func (m *Manager) newNode() (*node, uint32) {
	if len(m.nodes) == cap(m.nodes) {
		m.grow()
	}
	id := uint32(len(m.nodes))
	m.nodes = m.nodes[:id+1]
	return &m.nodes[id], id
}

func (m *Manager) grow() {
	newCap := cap(m.nodes) * 2
	nodes := make([]node, len(m.nodes), newCap)
	copy(nodes, m.nodes)
	strash := make([]uint32, newCap)
	ucap := uint32(newCap)
	for i := range nodes {
		n := &nodes[i]
		if n.a == LitNull {
			continue
		}
		bucket := strashCode(n.a, n.b) % ucap
		n.next = strash[bucket]
		strash[bucket] = uint32(i)
	}
	m.nodes = nodes
	m.strash = strash
}

func strashCode(a, b Lit) uint32 {
	return uint32((int64(a) << 17) * int64(b))
}

// String renders a literal for debugging, recursively expanding AND
// structure with at most one level of sharing indication.
func (m *Manager) String(l Lit) string {
	if l == LitNull {
		return "<null>"
	}
	if m.IsConst(l) {
		if m.ConstValue(l) {
			return "true"
		}
		return "false"
	}
	sign := ""
	if !l.IsPos() {
		sign = "!"
	}
	if m.IsLeaf(l) {
		return fmt.Sprintf("%sv%d", sign, l.Var())
	}
	a, b := m.Ins(varLit(l.Var()))
	return fmt.Sprintf("%s(%s & %s)", sign, m.String(a), m.String(b))
}
