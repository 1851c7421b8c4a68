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

// Package cnf implements Tseitin CNF conversion of a BE formula, the
// DIMACS dump/read format of spec.md §6, and the back-map from CNF
// variables to BE literals that trace reconstruction needs.
package cnf

import (
	"sort"

	"golang.org/x/tools/container/intsets"

	"github.com/nusmv-go/bmc/internal/be"
)

// FormulaLit is the CNF literal naming the top-level formula. It replaces
// the teacher language's INT_MAX sentinel for "the formula is constant"
// with an explicit tag, per spec.md §9.
type FormulaLit struct {
	Constant bool
	// ConstValue is meaningful only when Constant is true.
	ConstValue bool
	// Lit is the signed DIMACS literal naming the formula, meaningful only
	// when Constant is false.
	Lit int32
}

// Instance is one CNF problem: a list of clauses (each a slice of signed,
// non-zero-terminated literals - the terminating 0 is a DIMACS writer
// concern, not part of the in-memory representation), the variable
// bookkeeping spec.md §3 requires, and the formula literal.
type Instance struct {
	Clauses    [][]int32
	FormulaLit FormulaLit
	MaxVar     int32
	// ModelVars holds the CNF indices of every variable that corresponds
	// to a timed model variable (as opposed to a Tseitin auxiliary),
	// sorted ascending for deterministic dumping.
	ModelVars []int32
	// BackMap recovers the positive BE literal that a CNF variable names.
	BackMap map[int32]be.Lit
}

// Convert builds the CNF encoding of the BE formula f. modelVarIDs
// identifies which BE variable ids (as returned by be.Lit.Var) correspond
// to timed model variables, so that Instance.ModelVars can be populated;
// pass nil to skip that bookkeeping (e.g. for SBMC auxiliary queries).
func Convert(mgr *be.Manager, f be.Lit, modelVarIDs map[int32]bool) *Instance {
	if mgr.IsConst(f) {
		return &Instance{
			FormulaLit: FormulaLit{Constant: true, ConstValue: mgr.ConstValue(f)},
			BackMap:    map[int32]be.Lit{},
		}
	}

	cb := &cnfBuilder{
		mgr:       mgr,
		varOf:     make(map[int32]int32),
		converted: &intsets.Sparse{},
		backMap:   make(map[int32]be.Lit),
	}
	mgr.Traverse(f, cb)

	topVar := cb.varOf[f.Var()]
	topLit := signedLit(topVar, f.IsPos())

	var modelVars []int32
	for id := range modelVarIDs {
		if v, ok := cb.varOf[id]; ok {
			modelVars = append(modelVars, v)
		}
	}
	sort.Slice(modelVars, func(i, j int) bool { return modelVars[i] < modelVars[j] })

	return &Instance{
		Clauses:    cb.clauses,
		FormulaLit: FormulaLit{Lit: topLit},
		MaxVar:     cb.next,
		ModelVars:  modelVars,
		BackMap:    cb.backMap,
	}
}

// ConvertAll builds one CNF instance covering the conjunction of several
// formulas (e.g. the unrolled path and every loopback disjunct of the
// tableau), sharing Tseitin variables for any subexpression common to
// more than one root.
func ConvertAll(mgr *be.Manager, roots []be.Lit, modelVarIDs map[int32]bool) *Instance {
	cb := &cnfBuilder{
		mgr:       mgr,
		varOf:     make(map[int32]int32),
		converted: &intsets.Sparse{},
		backMap:   make(map[int32]be.Lit),
	}
	mgr.TraverseAll(roots, cb)

	conj := mgr.True
	for _, r := range roots {
		conj = mgr.And(conj, r)
	}
	// conj may introduce a node that wasn't part of the traversal (the
	// pairwise Ands themselves); convert it too so its clauses exist.
	if !mgr.IsConst(conj) {
		mgr.Traverse(conj, cb)
	}

	if mgr.IsConst(conj) {
		return &Instance{FormulaLit: FormulaLit{Constant: true, ConstValue: mgr.ConstValue(conj)}, BackMap: cb.backMap}
	}

	topVar := cb.varOf[conj.Var()]
	topLit := signedLit(topVar, conj.IsPos())

	var modelVars []int32
	for id := range modelVarIDs {
		if v, ok := cb.varOf[id]; ok {
			modelVars = append(modelVars, v)
		}
	}
	sort.Slice(modelVars, func(i, j int) bool { return modelVars[i] < modelVars[j] })

	return &Instance{
		Clauses:    cb.clauses,
		FormulaLit: FormulaLit{Lit: topLit},
		MaxVar:     cb.next,
		ModelVars:  modelVars,
		BackMap:    cb.backMap,
	}
}

func signedLit(v int32, pos bool) int32 {
	if pos {
		return v
	}
	return -v
}

// cnfBuilder is a be.Visitor that emits Tseitin clauses in post-order, one
// fresh CNF variable per non-leaf, non-constant BE node - exactly the
// scheme gini's logic.C.ToCnf uses (addAnd), generalized to visit the
// whole reachable DAG rather than a fixed set of roots.
type cnfBuilder struct {
	mgr       *be.Manager
	varOf     map[int32]int32
	converted *intsets.Sparse
	next      int32
	clauses   [][]int32
	backMap   map[int32]be.Lit
}

func (cb *cnfBuilder) varFor(id int32) int32 {
	if v, ok := cb.varOf[id]; ok {
		return v
	}
	cb.next++
	v := cb.next
	cb.varOf[id] = v
	cb.backMap[v] = be.Lit(id << 1)
	return v
}

func (cb *cnfBuilder) litFor(l be.Lit) int32 {
	return signedLit(cb.varFor(l.Var()), l.IsPos())
}

func (cb *cnfBuilder) OnSet(l be.Lit) bool { return cb.converted.Has(int(l.Var())) }
func (cb *cnfBuilder) OnFirstVisit(be.Lit) {}
func (cb *cnfBuilder) OnBackVisit(be.Lit, be.Lit) {}

func (cb *cnfBuilder) OnLastVisit(l be.Lit) {
	id := l.Var()
	if cb.converted.Has(int(id)) {
		return
	}
	if cb.mgr.IsConst(l) || cb.mgr.IsLeaf(be.Lit(id<<1)) {
		cb.varFor(id)
		cb.converted.Insert(int(id))
		return
	}
	a, b := cb.mgr.Ins(be.Lit(id << 1))
	g := cb.varFor(id)
	av := cb.litFor(a)
	bv := cb.litFor(b)
	// g <-> (av ∧ bv): the standard 3-clause Tseitin encoding of an AND gate.
	cb.clauses = append(cb.clauses, []int32{-g, av}, []int32{-g, bv}, []int32{g, -av, -bv})
	cb.converted.Insert(int(id))
}
