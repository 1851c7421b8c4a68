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
	"strings"
	"unicode"

	"github.com/nusmv-go/bmc/config"
)

// Parse reads a fully-parenthesized prefix-notation boolean expression:
//
//	TRUE | FALSE | ident | (& e e) | (| e e) | (-> e e) | (<-> e e) |
//	(! e) | (next e)
//
// This is deliberately not a full SMV/PSL expression grammar (spec.md §1
// excludes that parser as an external collaborator) - it exists so tests
// and the CLI can write formulas as text instead of building *Node trees
// by hand.
func Parse(s string) (*Node, error) {
	p := &parser{toks: Tokenize(s)}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, config.Wrap(config.ErrParse, fmt.Sprintf("unexpected trailing input at token %d", p.pos), nil)
	}
	return n, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (string, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) expect(tok string) error {
	t, ok := p.next()
	if !ok || t != tok {
		return config.Wrap(config.ErrParse, fmt.Sprintf("expected %q, got %q", tok, t), nil)
	}
	return nil
}

func (p *parser) parseExpr() (*Node, error) {
	tok, ok := p.next()
	if !ok {
		return nil, config.Wrap(config.ErrParse, "unexpected end of input", nil)
	}
	switch tok {
	case "TRUE":
		return True(), nil
	case "FALSE":
		return False(), nil
	case "(":
		op, ok := p.next()
		if !ok {
			return nil, config.Wrap(config.ErrParse, "unexpected end of input after (", nil)
		}
		var n *Node
		switch op {
		case "!":
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			n = Not(a)
		case "next":
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			n = Next(a)
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
				n = And(a, b)
			case "|":
				n = Or(a, b)
			case "->":
				n = Implies(a, b)
			case "<->":
				n = Iff(a, b)
			}
		default:
			return nil, config.Wrap(config.ErrParse, fmt.Sprintf("unknown operator %q", op), nil)
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return n, nil
	default:
		if !isIdent(tok) {
			return nil, config.Wrap(config.ErrParse, fmt.Sprintf("invalid identifier %q", tok), nil)
		}
		return Atom(tok), nil
	}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' && r != '[' && r != ']' {
			return false
		}
	}
	return true
}

// Tokenize splits s into "(", ")", and maximal non-whitespace,
// non-parenthesis runs. It is exported so internal/ltl's richer
// temporal-operator grammar can reuse the same lexing rules.
func Tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}
