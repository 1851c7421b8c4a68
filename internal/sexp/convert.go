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
	"fmt"

	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
)

// Converter turns Sexp trees into untimed BE literals, memoizing by node
// pointer identity so that a formula tree built with sharing (the same
// *Node reachable from more than one parent) is converted once, the same
// way be.Manager's hash-consing avoids re-allocating BE nodes for
// structurally identical subexpressions.
type Converter struct {
	mgr   *be.Manager
	enc   *beenc.Encoder
	cache map[*Node]be.Lit
}

// NewConverter creates a Converter sharing mgr and enc with the rest of
// the pipeline.
func NewConverter(mgr *be.Manager, enc *beenc.Encoder) *Converter {
	return &Converter{mgr: mgr, enc: enc, cache: make(map[*Node]be.Lit)}
}

// Convert compiles n into an untimed BE literal. KindAtom names must have
// already been committed via Encoder.CommitLayer.
func (c *Converter) Convert(n *Node) (be.Lit, error) {
	if n == nil {
		return be.LitNull, fmt.Errorf("sexp: nil node")
	}
	if lit, ok := c.cache[n]; ok {
		return lit, nil
	}
	lit, err := c.convert(n)
	if err != nil {
		return be.LitNull, err
	}
	c.cache[n] = lit
	return lit, nil
}

func (c *Converter) convert(n *Node) (be.Lit, error) {
	switch n.Kind {
	case KindTrue:
		return c.mgr.True, nil
	case KindFalse:
		return c.mgr.False, nil
	case KindAtom:
		return c.enc.CurrentLit(n.Name)
	case KindNext:
		if n.A.Kind != KindAtom {
			return be.LitNull, fmt.Errorf("sexp: NEXT applies only to a state variable atom, got %s", n.A)
		}
		return c.enc.NextLit(n.A.Name)
	case KindNot:
		a, err := c.Convert(n.A)
		if err != nil {
			return be.LitNull, err
		}
		return a.Not(), nil
	case KindAnd:
		a, err := c.Convert(n.A)
		if err != nil {
			return be.LitNull, err
		}
		b, err := c.Convert(n.B)
		if err != nil {
			return be.LitNull, err
		}
		return c.mgr.And(a, b), nil
	case KindOr:
		a, err := c.Convert(n.A)
		if err != nil {
			return be.LitNull, err
		}
		b, err := c.Convert(n.B)
		if err != nil {
			return be.LitNull, err
		}
		return c.mgr.Or(a, b), nil
	case KindImplies:
		a, err := c.Convert(n.A)
		if err != nil {
			return be.LitNull, err
		}
		b, err := c.Convert(n.B)
		if err != nil {
			return be.LitNull, err
		}
		return c.mgr.Implies(a, b), nil
	case KindIff:
		a, err := c.Convert(n.A)
		if err != nil {
			return be.LitNull, err
		}
		b, err := c.Convert(n.B)
		if err != nil {
			return be.LitNull, err
		}
		return c.mgr.Iff(a, b), nil
	default:
		return be.LitNull, fmt.Errorf("sexp: unknown node kind %d", n.Kind)
	}
}
