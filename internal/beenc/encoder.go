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

// Package beenc implements the BE encoder: the bijection between untimed
// model variables (state, input, frozen) and the time-indexed BE
// variables consumed by the unroller and tableau.
package beenc

import (
	"fmt"

	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/util/orderedmap"
)

// Kind classifies an untimed model variable.
type Kind int

const (
	// KindState is a state variable: duplicated at every time step 0..k.
	KindState Kind = iota
	// KindInput is an input variable: duplicated at every time step 0..k-1;
	// undefined at the final step k of the current unrolling bound.
	KindInput
	// KindFrozen is a frozen variable: a single assignment shared by every
	// time step.
	KindFrozen
)

func (k Kind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindInput:
		return "input"
	case KindFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// UntimedCurrent is the sentinel time value used for frozen variables: a
// frozen variable's single assignment is always addressed at this "time".
const UntimedCurrent = -1

// TimedVar is the inverse image of a timed BE literal: which untimed
// variable it denotes, at which time, and of what kind.
type TimedVar struct {
	Untimed int32
	Time    int
	Kind    Kind
}

// ErrInvalidTimeForInput is returned by UntimedToTimed and ShiftToTimes
// when an input variable is requested at the final step of the current
// unrolling bound - inputs are not defined there, and the spec's open
// question (a) requires this to be a strict, non-negotiable error.
var ErrInvalidTimeForInput = fmt.Errorf("beenc: input variables are undefined at the final step of the current bound")

type symbol struct {
	name string
	kind Kind
	// isNext marks a synthetic "next(x)" placeholder leaf for a state
	// variable x; current points back at x's own untimed index so that
	// ShiftToTimes can shift it to t+1 instead of t.
	isNext  bool
	current int32
}

// Encoder owns the untimed<->timed bijection for one BMC session. It is an
// explicit context value (never a package global), allocated once per
// session and grown as CommitLayer and GrowBound are called.
type Encoder struct {
	mgr *be.Manager

	names *orderedmap.OrderedMap[string, int32]
	syms  map[int32]symbol

	timed    map[timedKey]be.Lit
	timedRev map[int32]TimedVar

	kMax int
}

type timedKey struct {
	untimed int32
	t       int
}

// New creates an Encoder bound to mgr. The same Manager must be used for
// all BE construction in the session.
func New(mgr *be.Manager) *Encoder {
	return &Encoder{
		mgr:      mgr,
		names:    orderedmap.New[string, int32](),
		syms:     make(map[int32]symbol),
		timed:    make(map[timedKey]be.Lit),
		timedRev: make(map[int32]TimedVar),
	}
}

// CommitLayer reserves untimed indices for a batch of boolean variables of
// the given kind, in name order. Committed layers are never un-reserved or
// reassigned (the monotonic-growth invariant of spec.md §4.2). State
// variables additionally get a synthetic "next" placeholder leaf, used to
// mark next(x) occurrences in transition-relation expressions before they
// are shifted to concrete times.
func (e *Encoder) CommitLayer(kind Kind, names []string) []int32 {
	ids := make([]int32, len(names))
	for i, name := range names {
		if existing, ok := e.names.Load(name); ok {
			ids[i] = existing
			continue
		}
		lit := e.mgr.Var()
		id := lit.Var()
		e.names.Store(name, id)
		e.syms[id] = symbol{name: name, kind: kind}
		if kind == KindState {
			nextLit := e.mgr.Var()
			nextID := nextLit.Var()
			e.syms[nextID] = symbol{name: name, kind: kind, isNext: true, current: id}
		}
		ids[i] = id
	}
	return ids
}

// NameToUntimed resolves a committed variable name to its untimed index.
func (e *Encoder) NameToUntimed(name string) (int32, bool) {
	return e.names.Load(name)
}

// UntimedToName is the inverse of NameToUntimed.
func (e *Encoder) UntimedToName(idx int32) (string, bool) {
	s, ok := e.syms[idx]
	if !ok {
		return "", false
	}
	return s.name, true
}

// KindOf returns the kind of a committed untimed variable.
func (e *Encoder) KindOf(idx int32) (Kind, bool) {
	s, ok := e.syms[idx]
	if !ok {
		return 0, false
	}
	return s.kind, true
}

// CurrentLit returns the untimed "current value" leaf for name, which must
// already have been committed via CommitLayer.
func (e *Encoder) CurrentLit(name string) (be.Lit, error) {
	idx, ok := e.names.Load(name)
	if !ok {
		return be.LitNull, fmt.Errorf("beenc: variable %q was never committed", name)
	}
	return be.Lit(idx << 1), nil
}

// NextLit returns the untimed "next value" placeholder leaf for a state
// variable name. It is an error to call this for input or frozen
// variables, which have no next-state role.
func (e *Encoder) NextLit(name string) (be.Lit, error) {
	idx, ok := e.names.Load(name)
	if !ok {
		return be.LitNull, fmt.Errorf("beenc: variable %q was never committed", name)
	}
	s := e.syms[idx]
	if s.kind != KindState {
		return be.LitNull, fmt.Errorf("beenc: variable %q (%s) has no next-state role", name, s.kind)
	}
	for id, sym := range e.syms {
		if sym.isNext && sym.current == idx {
			return be.Lit(id << 1), nil
		}
	}
	return be.LitNull, fmt.Errorf("beenc: missing next placeholder for %q", name)
}

// GrowBound raises the session's high-water unrolling bound to k if it is
// currently smaller. Timed lookups for input variables at time k are
// rejected once k becomes the current bound; raising the bound later (for
// a longer unrolling) makes the old k a valid input time again, matching
// the iterative algorithms of spec.md §4.5 which grow k monotonically.
func (e *Encoder) GrowBound(k int) {
	if k > e.kMax {
		e.kMax = k
	}
}

// Bound returns the current high-water unrolling bound.
func (e *Encoder) Bound() int { return e.kMax }

// UntimedToTimed returns the timed BE literal for untimed variable idx at
// time t, materializing it lazily on first use. Frozen variables are
// always addressed at UntimedCurrent regardless of the t passed in exactly
// once (shift cannot accidentally duplicate a frozen variable per-step).
func (e *Encoder) UntimedToTimed(idx int32, t int) (be.Lit, error) {
	s, ok := e.syms[idx]
	if !ok {
		return be.LitNull, fmt.Errorf("beenc: unknown untimed index %d", idx)
	}
	if s.isNext {
		return be.LitNull, fmt.Errorf("beenc: %d is a next-state placeholder, not a real untimed variable", idx)
	}
	if s.kind == KindFrozen {
		t = UntimedCurrent
	}
	if s.kind == KindInput && t == e.kMax {
		return be.LitNull, ErrInvalidTimeForInput
	}

	key := timedKey{idx, t}
	if lit, ok := e.timed[key]; ok {
		return lit, nil
	}
	lit := e.mgr.Var()
	e.timed[key] = lit
	e.timedRev[lit.Var()] = TimedVar{Untimed: idx, Time: t, Kind: s.kind}
	return lit, nil
}

// TimedToUntimed is the inverse of UntimedToTimed: given any BE literal
// that was produced by it (positive or negated), recover the
// (untimed_index, t, kind) triple. This is the lookup the trace
// reconstruction pass relies on.
func (e *Encoder) TimedToUntimed(l be.Lit) (TimedVar, bool) {
	tv, ok := e.timedRev[l.Var()]
	return tv, ok
}

// ShiftToTimes lifts an untimed BE expression (built from CurrentLit /
// NextLit leaves) to time t: current-value leaves become time-t
// variables, next-value leaves become time-(t+1) variables, and frozen
// leaves become the single UntimedCurrent variable. The rewrite is
// DAG-preserving and memoized so that shifting a shared subexpression only
// walks it once.
func (e *Encoder) ShiftToTimes(expr be.Lit, t int) (be.Lit, error) {
	mgr := e.mgr
	memo := make(map[int32]be.Lit)
	var err error

	var rec func(l be.Lit) be.Lit
	rec = func(l be.Lit) be.Lit {
		if err != nil {
			return be.LitNull
		}
		id := l.Var()
		if mgr.IsConst(l) {
			return l
		}
		var base be.Lit
		if cached, ok := memo[id]; ok {
			base = cached
		} else if mgr.IsLeaf(be.Lit(id << 1)) {
			s, ok := e.syms[id]
			if !ok {
				err = fmt.Errorf("beenc: expression references uncommitted variable %d", id)
				return be.LitNull
			}
			at := t
			if s.isNext {
				at = t + 1
			}
			lookupIdx := id
			if s.isNext {
				lookupIdx = s.current
			}
			timed, e2 := e.UntimedToTimed(lookupIdx, at)
			if e2 != nil {
				err = e2
				return be.LitNull
			}
			base = timed
			memo[id] = base
		} else {
			a, b := mgr.Ins(be.Lit(id << 1))
			na := rec(a)
			nb := rec(b)
			if err != nil {
				return be.LitNull
			}
			base = mgr.And(na, nb)
			memo[id] = base
		}
		if l.IsPos() {
			return base
		}
		return base.Not()
	}

	result := rec(expr)
	if err != nil {
		return be.LitNull, err
	}
	return result, nil
}

// Untimed iterates over every committed untimed index of the given kind,
// in commitment order, skipping synthetic next-state placeholders. It is
// used for dumping (DIMACS comments) and for model extraction.
func (e *Encoder) Untimed(kind Kind) []int32 {
	var out []int32
	for _, p := range e.names.Pairs {
		s := e.syms[p.Value]
		if s.kind == kind && !s.isNext {
			out = append(out, p.Value)
		}
	}
	return out
}
