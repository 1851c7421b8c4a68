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

// Package ltl builds the bounded tableau for an LTL (and, for past
// operators, PLTL) formula: a BE literal over a k-step path that is
// satisfiable iff some loop-respecting model of the path also models the
// formula.
package ltl

import "github.com/nusmv-go/bmc/internal/sexp"

// Op tags the node kinds of a Formula tree.
type Op int

const (
	OpProp Op = iota
	OpNot
	OpAnd
	OpOr
	OpX // next
	OpU // until
	OpG // globally
	OpF // eventually
	OpR // release
	OpY // yesterday (past)
	OpZ // weak yesterday / "not yet" (past)
	OpO // once (past)
	OpH // historically (past)
	OpS // since (past)
	OpT // trigger (past)
)

// Formula is an LTL/PLTL formula tree. Prop is set only for OpProp; A and
// B hold the operand(s) of every other kind (B is nil for unary kinds).
type Formula struct {
	Op   Op
	Prop *sexp.Node
	A, B *Formula
}

func Prop(p *sexp.Node) *Formula    { return &Formula{Op: OpProp, Prop: p} }
func Not(f *Formula) *Formula       { return &Formula{Op: OpNot, A: f} }
func And(f, g *Formula) *Formula    { return &Formula{Op: OpAnd, A: f, B: g} }
func Or(f, g *Formula) *Formula     { return &Formula{Op: OpOr, A: f, B: g} }
func X(f *Formula) *Formula         { return &Formula{Op: OpX, A: f} }
func Until(f, g *Formula) *Formula  { return &Formula{Op: OpU, A: f, B: g} }
func G(f *Formula) *Formula         { return &Formula{Op: OpG, A: f} }
func F(f *Formula) *Formula         { return &Formula{Op: OpF, A: f} }
func Release(f, g *Formula) *Formula { return &Formula{Op: OpR, A: f, B: g} }
func Y(f *Formula) *Formula         { return &Formula{Op: OpY, A: f} }
func Z(f *Formula) *Formula         { return &Formula{Op: OpZ, A: f} }
func O(f *Formula) *Formula         { return &Formula{Op: OpO, A: f} }
func H(f *Formula) *Formula         { return &Formula{Op: OpH, A: f} }
func Since(f, g *Formula) *Formula  { return &Formula{Op: OpS, A: f, B: g} }
func Trigger(f, g *Formula) *Formula { return &Formula{Op: OpT, A: f, B: g} }

// HasPast reports whether f contains any past-time operator, the signal
// config.Options.ForcePLTLTableau aside uses to pick between the
// monolithic future tableau and the PLTL tableau (spec.md §4.4).
func (f *Formula) HasPast() bool {
	if f == nil {
		return false
	}
	switch f.Op {
	case OpY, OpZ, OpO, OpH, OpS, OpT:
		return true
	default:
		return f.A.HasPast() || f.B.HasPast()
	}
}
