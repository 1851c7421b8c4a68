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

import (
	"strconv"
	"strings"
)

// FilenameMacros carries the values substituted into a dump filename
// template by ExpandFilename: @F the formula name, @f a sanitized form of
// @F safe for use in a path component, @k the bound, @l the loopback
// spec, @n a caller-supplied call counter (distinguishing the many DIMACS
// files one invocation of an incremental algorithm can produce), and @@ a
// literal "@".
type FilenameMacros struct {
	FormulaName string
	Bound       int
	Loopback    string
	Call        int
}

// ExpandFilename performs the one-pass @-macro substitution of spec.md §6
// over template, protecting "@@" from being mistaken for the start of
// another macro by swapping it for a sentinel before any other macro is
// expanded and turning the sentinel into "@" last.
func ExpandFilename(template string, m FilenameMacros) string {
	const sentinel = "\x00AT\x00"
	out := strings.ReplaceAll(template, "@@", sentinel)
	out = strings.ReplaceAll(out, "@F", m.FormulaName)
	out = strings.ReplaceAll(out, "@f", sanitizeFormulaName(m.FormulaName))
	out = strings.ReplaceAll(out, "@k", strconv.Itoa(m.Bound))
	out = strings.ReplaceAll(out, "@l", m.Loopback)
	out = strings.ReplaceAll(out, "@n", strconv.Itoa(m.Call))
	out = strings.ReplaceAll(out, sentinel, "@")
	return out
}

// sanitizeFormulaName replaces path-hostile characters so @f is always
// safe to use as a single path component.
func sanitizeFormulaName(name string) string {
	r := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		" ", "_",
		":", "_",
	)
	return r.Replace(name)
}
