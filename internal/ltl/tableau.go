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
	"fmt"

	"github.com/nusmv-go/bmc/config"
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/sexp"
	"github.com/nusmv-go/bmc/internal/unroll"
)

// monolithicEvaluator computes, for one fixed loop structure (none, or a
// loop back to a fixed l), the per-time-step BE literal of every
// subformula of a future-time (NNF) Formula. This is the classical
// Biere/Clarke/Zhu bounded semantics of LTL: X looks at the successor
// (wrapping to l at time k when a loop exists), and U/G/F get a
// closed-form translation that resolves the cyclic self-reference a loop
// introduces by splitting into a "direct" part (reachable without
// wrapping) and a "loop" part (reachable by going around the cycle once,
// which is enough since the cycle repeats forever).
type monolithicEvaluator struct {
	mgr   *be.Manager
	conv  *sexp.Converter
	u     *unroll.Unroller
	k     int
	loop  bool
	l     int
	cache map[*Formula][]be.Lit
	// propAt caches shifted BE literals per (prop node, time).
	propAt map[*sexp.Node][]be.Lit
}

func newMonolithicEvaluator(mgr *be.Manager, conv *sexp.Converter, u *unroll.Unroller, k int, loop bool, l int) *monolithicEvaluator {
	return &monolithicEvaluator{
		mgr: mgr, conv: conv, u: u, k: k, loop: loop, l: l,
		cache:  make(map[*Formula][]be.Lit),
		propAt: make(map[*sexp.Node][]be.Lit),
	}
}

func (e *monolithicEvaluator) succ(i int) (int, bool) {
	if i < e.k {
		return i + 1, true
	}
	if e.loop {
		return e.l, true
	}
	return 0, false
}

func (e *monolithicEvaluator) propLit(p *sexp.Node, t int) (be.Lit, error) {
	arr, ok := e.propAt[p]
	if !ok {
		arr = make([]be.Lit, e.k+1)
		for i := range arr {
			arr[i] = be.LitNull
		}
		e.propAt[p] = arr
	}
	if arr[t] != be.LitNull {
		return arr[t], nil
	}
	untimed, err := e.conv.Convert(p)
	if err != nil {
		return be.LitNull, err
	}
	lit, err := e.u.FSM().Enc.ShiftToTimes(untimed, t)
	if err != nil {
		return be.LitNull, err
	}
	arr[t] = lit
	return lit, nil
}

// eval returns the array of BE literals [[f]]_0 .. [[f]]_k.
func (e *monolithicEvaluator) eval(f *Formula) ([]be.Lit, error) {
	if arr, ok := e.cache[f]; ok {
		return arr, nil
	}
	var arr []be.Lit
	var err error
	switch f.Op {
	case OpProp:
		arr = make([]be.Lit, e.k+1)
		for i := 0; i <= e.k; i++ {
			if arr[i], err = e.propLit(f.Prop, i); err != nil {
				return nil, err
			}
		}
	case OpAnd:
		arr, err = e.evalBin(f, func(a, b be.Lit) be.Lit { return e.mgr.And(a, b) })
	case OpOr:
		arr, err = e.evalBin(f, func(a, b be.Lit) be.Lit { return e.mgr.Or(a, b) })
	case OpX:
		arr, err = e.evalX(f)
	case OpU:
		arr, err = e.evalUntil(f)
	case OpR:
		// f R g == ¬(¬f U ¬g); BE negation is a free bit-flip so this
		// costs nothing beyond the Until computation itself.
		notF := Not(f.A)
		notG := Not(f.B)
		u, err2 := e.eval(Until(notF, notG))
		if err2 != nil {
			return nil, err2
		}
		arr = make([]be.Lit, e.k+1)
		for i := range arr {
			arr[i] = u[i].Not()
		}
	case OpG:
		arr, err = e.evalG(f)
	case OpF:
		arr, err = e.evalF(f)
	case OpNot:
		// Only reachable for formulas that were not normalized first;
		// supported for robustness by negating the operand pointwise.
		a, err2 := e.eval(f.A)
		if err2 != nil {
			return nil, err2
		}
		arr = make([]be.Lit, e.k+1)
		for i := range arr {
			arr[i] = a[i].Not()
		}
	default:
		return nil, fmt.Errorf("ltl: monolithic tableau does not support past operator %d; use the PLTL tableau", f.Op)
	}
	if err != nil {
		return nil, err
	}
	e.cache[f] = arr
	return arr, nil
}

func (e *monolithicEvaluator) evalBin(f *Formula, op func(a, b be.Lit) be.Lit) ([]be.Lit, error) {
	a, err := e.eval(f.A)
	if err != nil {
		return nil, err
	}
	b, err := e.eval(f.B)
	if err != nil {
		return nil, err
	}
	arr := make([]be.Lit, e.k+1)
	for i := 0; i <= e.k; i++ {
		arr[i] = op(a[i], b[i])
	}
	return arr, nil
}

func (e *monolithicEvaluator) evalX(f *Formula) ([]be.Lit, error) {
	a, err := e.eval(f.A)
	if err != nil {
		return nil, err
	}
	arr := make([]be.Lit, e.k+1)
	for i := 0; i <= e.k; i++ {
		if s, ok := e.succ(i); ok {
			arr[i] = a[s]
		} else {
			arr[i] = e.mgr.False
		}
	}
	return arr, nil
}

// evalUntil computes [[f U g]]_i for i in 0..k, per the derivation in the
// monolithicEvaluator doc comment: a backward "direct" recurrence (standard loop-free
// until) plus, inside the loop region, a "wrap" term covering the case
// where g is only reached after wrapping around the cycle once.
func (e *monolithicEvaluator) evalUntil(f *Formula) ([]be.Lit, error) {
	fa, err := e.eval(f.A)
	if err != nil {
		return nil, err
	}
	ga, err := e.eval(f.B)
	if err != nil {
		return nil, err
	}

	direct := make([]be.Lit, e.k+2)
	direct[e.k+1] = e.mgr.False
	for i := e.k; i >= 0; i-- {
		direct[i] = e.mgr.Or(ga[i], e.mgr.And(fa[i], direct[i+1]))
	}

	if !e.loop {
		return direct[:e.k+1], nil
	}

	suf := make([]be.Lit, e.k+2)
	suf[e.k+1] = e.mgr.True
	for i := e.k; i >= e.l; i-- {
		suf[i] = e.mgr.And(fa[i], suf[i+1])
	}

	prefix := make([]be.Lit, e.k+1)
	prefix[e.l] = e.mgr.True
	for j := e.l; j < e.k; j++ {
		prefix[j+1] = e.mgr.And(prefix[j], fa[j])
	}

	cumOr := make([]be.Lit, e.k+1)
	cumOr[e.l] = e.mgr.False
	for i := e.l; i < e.k; i++ {
		cumOr[i+1] = e.mgr.Or(cumOr[i], e.mgr.And(ga[i], prefix[i]))
	}

	out := make([]be.Lit, e.k+1)
	for i := 0; i <= e.k; i++ {
		if i < e.l {
			out[i] = direct[i]
			continue
		}
		wrap := e.mgr.And(suf[i], cumOr[i])
		out[i] = e.mgr.Or(direct[i], wrap)
	}
	return out, nil
}

func (e *monolithicEvaluator) evalG(f *Formula) ([]be.Lit, error) {
	fa, err := e.eval(f.A)
	if err != nil {
		return nil, err
	}
	out := make([]be.Lit, e.k+1)
	if !e.loop {
		for i := range out {
			out[i] = e.mgr.False
		}
		return out, nil
	}
	cyc := e.mgr.True
	for j := e.l; j <= e.k; j++ {
		cyc = e.mgr.And(cyc, fa[j])
	}
	out[e.l] = cyc
	for i := e.l - 1; i >= 0; i-- {
		out[i] = e.mgr.And(fa[i], out[i+1])
	}
	for i := e.l + 1; i <= e.k; i++ {
		out[i] = cyc
	}
	return out, nil
}

func (e *monolithicEvaluator) evalF(f *Formula) ([]be.Lit, error) {
	fa, err := e.eval(f.A)
	if err != nil {
		return nil, err
	}
	out := make([]be.Lit, e.k+1)
	if !e.loop {
		out[e.k] = fa[e.k]
		for i := e.k - 1; i >= 0; i-- {
			out[i] = e.mgr.Or(fa[i], out[i+1])
		}
		return out, nil
	}
	cyc := e.mgr.False
	for j := e.l; j <= e.k; j++ {
		cyc = e.mgr.Or(cyc, fa[j])
	}
	out[e.l] = cyc
	for i := e.l - 1; i >= 0; i-- {
		out[i] = e.mgr.Or(fa[i], out[i+1])
	}
	for i := e.l + 1; i <= e.k; i++ {
		out[i] = cyc
	}
	return out, nil
}

// BuildTableau compiles f (an LTL formula, past-operator-free) into the BE
// literal "the k-bounded path satisfies f", respecting lb:
//   - NoLoop: the plain finite-path semantics.
//   - At(l): the path loops from k back to l; the caller must separately
//     conjoin unroll.Unroller.LoopCondition(l, k, stateVars) so the SAT
//     query actually enforces that the states at l and k coincide.
//   - All: the disjunction, over every l in [0,k] plus the no-loop case,
//     of (loop condition at l) ∧ (tableau assuming that loop) - this
//     function builds that whole disjunction itself, since each disjunct
//     needs its own loop-condition guard.
func BuildTableau(mgr *be.Manager, conv *sexp.Converter, u *unroll.Unroller, f *Formula, k int, lb config.Loopback, stateVars []int32) (be.Lit, error) {
	f = Normalize(f)
	switch lb.Kind {
	case config.LoopbackNone:
		ev := newMonolithicEvaluator(mgr, conv, u, k, false, 0)
		arr, err := ev.eval(f)
		if err != nil {
			return be.LitNull, err
		}
		return arr[0], nil
	case config.LoopbackAt:
		l := lb.At
		if l < 0 || l > k {
			return be.LitNull, fmt.Errorf("ltl: loopback index %d out of range [0,%d]", l, k)
		}
		ev := newMonolithicEvaluator(mgr, conv, u, k, true, l)
		arr, err := ev.eval(f)
		if err != nil {
			return be.LitNull, err
		}
		return arr[0], nil
	case config.LoopbackAll:
		noLoopEv := newMonolithicEvaluator(mgr, conv, u, k, false, 0)
		acc, err := noLoopEv.eval(f)
		if err != nil {
			return be.LitNull, err
		}
		result := acc[0]
		for l := 0; l <= k; l++ {
			loopCond, err := u.LoopCondition(l, k, stateVars)
			if err != nil {
				return be.LitNull, err
			}
			ev := newMonolithicEvaluator(mgr, conv, u, k, true, l)
			arr, err := ev.eval(f)
			if err != nil {
				return be.LitNull, err
			}
			result = mgr.Or(result, mgr.And(loopCond, arr[0]))
		}
		return result, nil
	default:
		return be.LitNull, fmt.Errorf("ltl: unknown loopback kind %d", lb.Kind)
	}
}
