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

import "github.com/nusmv-go/bmc/internal/sexp"

// Normalize rewrites f into negation normal form: every OpNot is pushed
// down until it applies only to a propositional leaf, using the standard
// LTL dualities (De Morgan, ¬Xf = X¬f, ¬(fUg) = ¬f R ¬g, ¬Gf = F¬f, and
// their past-operator counterparts). The tableau semantics in tableau.go
// and pltl.go assume their input is already in this form.
func Normalize(f *Formula) *Formula {
	return nnf(f, false)
}

func nnf(f *Formula, neg bool) *Formula {
	if f == nil {
		return nil
	}
	switch f.Op {
	case OpProp:
		if neg {
			return Prop(sexp.Not(f.Prop))
		}
		return Prop(f.Prop)
	case OpNot:
		return nnf(f.A, !neg)
	case OpAnd:
		if neg {
			return Or(nnf(f.A, true), nnf(f.B, true))
		}
		return And(nnf(f.A, false), nnf(f.B, false))
	case OpOr:
		if neg {
			return And(nnf(f.A, true), nnf(f.B, true))
		}
		return Or(nnf(f.A, false), nnf(f.B, false))
	case OpX:
		return X(nnf(f.A, neg))
	case OpU:
		if neg {
			return Release(nnf(f.A, true), nnf(f.B, true))
		}
		return Until(nnf(f.A, false), nnf(f.B, false))
	case OpR:
		if neg {
			return Until(nnf(f.A, true), nnf(f.B, true))
		}
		return Release(nnf(f.A, false), nnf(f.B, false))
	case OpG:
		if neg {
			return F(nnf(f.A, true))
		}
		return G(nnf(f.A, false))
	case OpF:
		if neg {
			return G(nnf(f.A, true))
		}
		return F(nnf(f.A, false))
	case OpY:
		if neg {
			return Z(nnf(f.A, true))
		}
		return Y(nnf(f.A, false))
	case OpZ:
		if neg {
			return Y(nnf(f.A, true))
		}
		return Z(nnf(f.A, false))
	case OpO:
		if neg {
			return H(nnf(f.A, true))
		}
		return O(nnf(f.A, false))
	case OpH:
		if neg {
			return O(nnf(f.A, true))
		}
		return H(nnf(f.A, false))
	case OpS:
		if neg {
			return Trigger(nnf(f.A, true), nnf(f.B, true))
		}
		return Since(nnf(f.A, false), nnf(f.B, false))
	case OpT:
		if neg {
			return Since(nnf(f.A, true), nnf(f.B, true))
		}
		return Trigger(nnf(f.A, false), nnf(f.B, false))
	default:
		return f
	}
}
