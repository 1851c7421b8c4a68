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

package config

import "fmt"

// ErrorKind enumerates the error taxonomy of spec.md §7. Every algorithm
// function returns a tagged result ({TRUE, FALSE, UNKNOWN, ERROR(kind,msg)})
// rather than panicking or using exception-style control flow, per the
// redesign note in spec.md §9.
type ErrorKind int

const (
	// ErrParse: a constraint or property string could not be parsed.
	ErrParse ErrorKind = iota
	// ErrType: the property kind does not match the command that invoked it.
	ErrType
	// ErrUnsupportedFormula: e.g. bit-selection on the left side of an assignment.
	ErrUnsupportedFormula
	// ErrInvalidBound: k < 0, or l outside [-k, k-1] ∪ {no-loop, all-loopbacks}.
	ErrInvalidBound
	// ErrBackendUnavailable: the selected incremental/interpolating option
	// is not supported by the configured SAT backend.
	ErrBackendUnavailable
	// ErrModelNotBuilt: no model could be built (no --model given, or the
	// model file could not be opened or loaded).
	ErrModelNotBuilt
	// ErrSolverError: the SAT backend returned an error.
	ErrSolverError
)

func (k ErrorKind) String() string {
	switch k {
	case ErrParse:
		return "ParseError"
	case ErrType:
		return "TypeError"
	case ErrUnsupportedFormula:
		return "UnsupportedFormula"
	case ErrInvalidBound:
		return "InvalidBound"
	case ErrBackendUnavailable:
		return "BackendUnavailable"
	case ErrModelNotBuilt:
		return "ModelNotBuilt"
	case ErrSolverError:
		return "SolverError"
	default:
		return "UnknownError"
	}
}

// BMCError is the tagged error type threaded through every algorithm
// function and command. A command returns it from RunE, and main prints it
// to stderr and exits with status 1. Each invocation checks a single
// property, so no further property is checked after an error.
type BMCError struct {
	Kind ErrorKind
	Msg  string
	Err  error // optional wrapped cause
}

func (e *BMCError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *BMCError) Unwrap() error { return e.Err }

// Wrap builds a BMCError of the given kind, wrapping an underlying cause.
func Wrap(kind ErrorKind, msg string, cause error) *BMCError {
	return &BMCError{Kind: kind, Msg: msg, Err: cause}
}

// Verdict is the outcome of a property check.
type Verdict int

const (
	// Unknown means the bound was insufficient to decide the property.
	Unknown Verdict = iota
	// True means the property was proved (within the algorithm's completeness guarantee).
	True
	// False means a counterexample was found.
	False
	// Error means the check could not be completed; see the accompanying *BMCError.
	Error
)

func (v Verdict) String() string {
	switch v {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	case Unknown:
		return "UNKNOWN"
	case Error:
		return "ERROR"
	default:
		return "?"
	}
}
