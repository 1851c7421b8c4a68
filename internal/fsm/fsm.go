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

// Package fsm holds the BE FSM data model: a finite state machine whose
// init/invar/trans/fairness are untimed BE expressions built over a shared
// encoder.
package fsm

import (
	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
)

// BEFsm is the tuple (encoder, init, invar, trans, fairness) of spec.md
// §3. All BE literals here are untimed: init/invar refer to current-value
// leaves, trans additionally refers to next-value leaves, and each
// fairness condition is a current-value predicate.
type BEFsm struct {
	Mgr   *be.Manager
	Enc   *beenc.Encoder
	Init  be.Lit
	Invar be.Lit
	Trans be.Lit
	// Fairness holds one BE literal per JUSTICE condition; a path is fair
	// iff every condition in this slice holds infinitely often along it.
	Fairness []be.Lit
}

// New constructs a BEFsm sharing the given manager and encoder.
func New(mgr *be.Manager, enc *beenc.Encoder, init, invar, trans be.Lit, fairness []be.Lit) *BEFsm {
	return &BEFsm{Mgr: mgr, Enc: enc, Init: init, Invar: invar, Trans: trans, Fairness: fairness}
}

// Product computes the synchronous product of f with other: conjoining
// init/invar/trans and concatenating the fairness lists. Both FSMs must
// share the same Manager and Encoder.
func (f *BEFsm) Product(other *BEFsm) *BEFsm {
	return &BEFsm{
		Mgr:      f.Mgr,
		Enc:      f.Enc,
		Init:     f.Mgr.And(f.Init, other.Init),
		Invar:    f.Mgr.And(f.Invar, other.Invar),
		Trans:    f.Mgr.And(f.Trans, other.Trans),
		Fairness: append(append([]be.Lit{}, f.Fairness...), other.Fairness...),
	}
}
