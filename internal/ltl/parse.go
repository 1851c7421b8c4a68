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
	"github.com/nusmv-go/bmc/internal/sexp"
)

// Parse reads a fully-parenthesized prefix-notation LTL/PLTL formula over
// one grammar that layers the temporal operators (G, F, X, U, R, Y, Z, O,
// H, S, T) directly on top of the propositional connectives (&, |, !, ->,
// <->, next) and atoms, so the two freely nest - "(G (-> x (O y)))" parses
// the past operator O nested inside G's propositional implication operand.
func Parse(s string) (*Formula, error) {
	p := &parser{toks: sexp.Tokenize(s)}
	f, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, config.Wrap(config.ErrParse, fmt.Sprintf("unexpected trailing input at token %d", p.pos), nil)
	}
	return f, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) next() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *parser) expect(tok string) error {
	t, ok := p.next()
	if !ok || t != tok {
		return config.Wrap(config.ErrParse, fmt.Sprintf("expected %q, got %q", tok, t), nil)
	}
	return nil
}

func (p *parser) parseExpr() (*Formula, error) {
	tok, ok := p.next()
	if !ok {
		return nil, config.Wrap(config.ErrParse, "unexpected end of input", nil)
	}
	switch tok {
	case "TRUE":
		return Prop(sexp.True()), nil
	case "FALSE":
		return Prop(sexp.False()), nil
	case "(":
		f, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return Prop(sexp.Atom(tok)), nil
	}
}

// parseForm parses the operator and operands following an already-
// consumed "(", stopping before the matching ")".
func (p *parser) parseForm() (*Formula, error) {
	op, ok := p.next()
	if !ok {
		return nil, config.Wrap(config.ErrParse, "unexpected end of input after (", nil)
	}
	switch op {
	case "!":
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return Not(a), nil
	case "next":
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if a.Op != OpProp || a.Prop.Kind != sexp.KindAtom {
			return nil, config.Wrap(config.ErrParse, "next applies only to a bare atom", nil)
		}
		return Prop(sexp.Next(a.Prop)), nil
	case "&", "|", "->", "<->":
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		b, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		switch op {
		case "&":
			return And(a, b), nil
		case "|":
			return Or(a, b), nil
		case "->":
			return Or(Not(a), b), nil
		case "<->":
			return And(Or(Not(a), b), Or(Not(b), a)), nil
		}
	case "G", "F", "X", "Y", "Z", "O", "H":
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		switch op {
		case "G":
			return G(a), nil
		case "F":
			return F(a), nil
		case "X":
			return X(a), nil
		case "Y":
			return Y(a), nil
		case "Z":
			return Z(a), nil
		case "O":
			return O(a), nil
		case "H":
			return H(a), nil
		}
	case "U", "R", "S", "T":
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		b, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		switch op {
		case "U":
			return Until(a, b), nil
		case "R":
			return Release(a, b), nil
		case "S":
			return Since(a, b), nil
		case "T":
			return Trigger(a, b), nil
		}
	}
	return nil, config.Wrap(config.ErrParse, fmt.Sprintf("unknown operator %q", op), nil)
}
