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

// pltlEvaluator computes past-operator semantics, which - unlike future
// operators - never need a loop: time 0 is a genuine boundary (there is
// no "yesterday" before it), so every past operator is a plain forward
// recurrence from 0 to k. Mixed formulas (future operators applied to
// past subformulas, or vice versa) are supported by falling through to
// monolithicEvaluator for the future operators and sharing its prop/AND/OR
// evaluation via embedding.
type pltlEvaluator struct {
	*monolithicEvaluator
}

func newPLTLEvaluator(mgr *be.Manager, conv *sexp.Converter, u *unroll.Unroller, k int, loop bool, l int) *pltlEvaluator {
	return &pltlEvaluator{monolithicEvaluator: newMonolithicEvaluator(mgr, conv, u, k, loop, l)}
}

func (e *pltlEvaluator) eval(f *Formula) ([]be.Lit, error) {
	if arr, ok := e.cache[f]; ok {
		return arr, nil
	}
	var arr []be.Lit
	var err error
	switch f.Op {
	case OpY:
		arr, err = e.evalY(f, false)
	case OpZ:
		arr, err = e.evalY(f, true)
	case OpO:
		arr, err = e.evalOH(f, false)
	case OpH:
		arr, err = e.evalOH(f, true)
	case OpS:
		arr, err = e.evalST(f, false)
	case OpT:
		arr, err = e.evalST(f, true)
	case OpAnd:
		arr, err = e.evalPastBin(f, func(a, b be.Lit) be.Lit { return e.mgr.And(a, b) })
	case OpOr:
		arr, err = e.evalPastBin(f, func(a, b be.Lit) be.Lit { return e.mgr.Or(a, b) })
	case OpNot:
		a, err2 := e.eval(f.A)
		if err2 != nil {
			return nil, err2
		}
		arr = make([]be.Lit, e.k+1)
		for i := range arr {
			arr[i] = a[i].Not()
		}
	case OpProp:
		return e.monolithicEvaluator.eval(f)
	default:
		// Future operators (X, U, G, F, R): delegate to the embedded
		// future evaluator, but route its recursive eval calls back
		// through this one so mixed past/future subformulas resolve
		// correctly. Since evalX/evalUntil/evalG/evalF call e.eval on
		// their children and e is the *monolithicEvaluator receiver in
		// that code, a plain delegation here would miss past
		// subformulas nested under a future operator;
		// precomputePastChildren below handles that by pre-evaluating every past child first
		// so the cache already holds its answer before the future
		// evaluator looks it up.
		if err := e.precomputePastChildren(f); err != nil {
			return nil, err
		}
		return e.monolithicEvaluator.eval(f)
	}
	if err != nil {
		return nil, err
	}
	e.cache[f] = arr
	return arr, nil
}

// precomputePastChildren walks f's operands and evaluates (and caches)
// any past-operator subformula before handing f to the future evaluator,
// which otherwise does not know how to interpret OpY/OpZ/OpO/OpH/OpS/OpT.
func (e *pltlEvaluator) precomputePastChildren(f *Formula) error {
	for _, child := range []*Formula{f.A, f.B} {
		if child == nil {
			continue
		}
		if _, ok := e.cache[child]; ok {
			continue
		}
		if child.HasPast() {
			if _, err := e.eval(child); err != nil {
				return err
			}
		} else if err := e.precomputePastChildren(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *pltlEvaluator) evalPastBin(f *Formula, op func(a, b be.Lit) be.Lit) ([]be.Lit, error) {
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

// evalY computes [[Yf]]_i (weak=false) or [[Zf]]_i (weak=true): the
// value of f at i-1, with a boundary value at i=0 of False for Y and
// True for Z.
func (e *pltlEvaluator) evalY(f *Formula, weak bool) ([]be.Lit, error) {
	a, err := e.eval(f.A)
	if err != nil {
		return nil, err
	}
	arr := make([]be.Lit, e.k+1)
	if weak {
		arr[0] = e.mgr.True
	} else {
		arr[0] = e.mgr.False
	}
	for i := 1; i <= e.k; i++ {
		arr[i] = a[i-1]
	}
	return arr, nil
}

// evalOH computes [[Of]]_i (historically=false, "once") or [[Hf]]_i
// (historically=true): the forward OR/AND-accumulation of f from 0 to i.
func (e *pltlEvaluator) evalOH(f *Formula, historically bool) ([]be.Lit, error) {
	a, err := e.eval(f.A)
	if err != nil {
		return nil, err
	}
	arr := make([]be.Lit, e.k+1)
	arr[0] = a[0]
	for i := 1; i <= e.k; i++ {
		if historically {
			arr[i] = e.mgr.And(a[i], arr[i-1])
		} else {
			arr[i] = e.mgr.Or(a[i], arr[i-1])
		}
	}
	return arr, nil
}

// evalST computes [[f S g]]_i (trigger=false, "since") or [[f T g]]_i
// (trigger=true): the forward recurrence S_i = g_i ∨ (f_i ∧ S_{i-1}), or
// its AND/OR dual for trigger, with S_{-1}=False and T_{-1}=True.
func (e *pltlEvaluator) evalST(f *Formula, trigger bool) ([]be.Lit, error) {
	fa, err := e.eval(f.A)
	if err != nil {
		return nil, err
	}
	ga, err := e.eval(f.B)
	if err != nil {
		return nil, err
	}
	arr := make([]be.Lit, e.k+1)
	prev := e.mgr.False
	if trigger {
		prev = e.mgr.True
	}
	for i := 0; i <= e.k; i++ {
		if trigger {
			arr[i] = e.mgr.And(ga[i], e.mgr.Or(fa[i], prev))
		} else {
			arr[i] = e.mgr.Or(ga[i], e.mgr.And(fa[i], prev))
		}
		prev = arr[i]
	}
	return arr, nil
}

// BuildPLTLTableau compiles f, which may mix past and future operators,
// into the BE literal for [[f]]_0 under loopback lb. Past subformulas use
// the boundary-at-0 recurrences above regardless of lb; future
// subformulas use the same loop-aware semantics as BuildTableau.
func BuildPLTLTableau(mgr *be.Manager, conv *sexp.Converter, u *unroll.Unroller, f *Formula, k int, lb config.Loopback, stateVars []int32) (be.Lit, error) {
	f = Normalize(f)
	switch lb.Kind {
	case config.LoopbackNone:
		ev := newPLTLEvaluator(mgr, conv, u, k, false, 0)
		arr, err := ev.eval(f)
		if err != nil {
			return be.LitNull, err
		}
		return arr[0], nil
	case config.LoopbackAt:
		if lb.At < 0 || lb.At > k {
			return be.LitNull, fmt.Errorf("ltl: loopback index %d out of range [0,%d]", lb.At, k)
		}
		ev := newPLTLEvaluator(mgr, conv, u, k, true, lb.At)
		arr, err := ev.eval(f)
		if err != nil {
			return be.LitNull, err
		}
		return arr[0], nil
	case config.LoopbackAll:
		noLoopEv := newPLTLEvaluator(mgr, conv, u, k, false, 0)
		result, err := noLoopEv.eval(f)
		if err != nil {
			return be.LitNull, err
		}
		acc := result[0]
		for l := 0; l <= k; l++ {
			loopCond, err := u.LoopCondition(l, k, stateVars)
			if err != nil {
				return be.LitNull, err
			}
			ev := newPLTLEvaluator(mgr, conv, u, k, true, l)
			arr, err := ev.eval(f)
			if err != nil {
				return be.LitNull, err
			}
			acc = mgr.Or(acc, mgr.And(loopCond, arr[0]))
		}
		return acc, nil
	default:
		return be.LitNull, fmt.Errorf("ltl: unknown loopback kind")
	}
}
