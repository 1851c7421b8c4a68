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

// Package modelfile loads a boolean-flattened finite state machine from a
// small JSON document, standing in for the symbol table / flattener
// collaborator that spec.md §1 places out of scope. Each boolean
// expression field is written in the prefix s-expression syntax
// internal/sexp.Parse accepts.
package modelfile

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
	"github.com/nusmv-go/bmc/internal/fsm"
	"github.com/nusmv-go/bmc/internal/sexp"
)

// Model is the on-disk representation of a boolean FSM.
type Model struct {
	StateVars  []string `json:"state_vars"`
	InputVars  []string `json:"input_vars"`
	FrozenVars []string `json:"frozen_vars"`
	Init       string   `json:"init"`
	Invar      string   `json:"invar"`
	Trans      string   `json:"trans"`
	Fairness   []string `json:"fairness"`
}

// Load parses a Model from r.
func Load(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("modelfile: decoding: %w", err)
	}
	return &m, nil
}

// Build constructs a fresh be.Manager and beenc.Encoder, commits m's
// variable layers, converts its expression fields, and returns the
// resulting BEFsm.
func (m *Model) Build() (*fsm.BEFsm, error) {
	mgr := be.NewManager()
	enc := beenc.New(mgr)
	if len(m.StateVars) > 0 {
		enc.CommitLayer(beenc.KindState, m.StateVars)
	}
	if len(m.InputVars) > 0 {
		enc.CommitLayer(beenc.KindInput, m.InputVars)
	}
	if len(m.FrozenVars) > 0 {
		enc.CommitLayer(beenc.KindFrozen, m.FrozenVars)
	}

	conv := sexp.NewConverter(mgr, enc)
	init, err := parseAndConvert(conv, m.Init, mgr.True)
	if err != nil {
		return nil, fmt.Errorf("modelfile: init: %w", err)
	}
	invar, err := parseAndConvert(conv, m.Invar, mgr.True)
	if err != nil {
		return nil, fmt.Errorf("modelfile: invar: %w", err)
	}
	trans, err := parseAndConvert(conv, m.Trans, mgr.True)
	if err != nil {
		return nil, fmt.Errorf("modelfile: trans: %w", err)
	}

	fairness := make([]be.Lit, len(m.Fairness))
	for i, s := range m.Fairness {
		lit, err := parseAndConvert(conv, s, mgr.True)
		if err != nil {
			return nil, fmt.Errorf("modelfile: fairness[%d]: %w", i, err)
		}
		fairness[i] = lit
	}

	return fsm.New(mgr, enc, init, invar, trans, fairness), nil
}

func parseAndConvert(conv *sexp.Converter, s string, fallback be.Lit) (be.Lit, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := sexp.Parse(s)
	if err != nil {
		return be.LitNull, err
	}
	return conv.Convert(n)
}
