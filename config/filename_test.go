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

import "testing"

func TestExpandFilenameSubstitutesEachMacro(t *testing.T) {
	got := ExpandFilename("dump_@f_@k_@l_@n.dimacs", FilenameMacros{
		FormulaName: "spec 1",
		Bound:       5,
		Loopback:    "X",
		Call:        2,
	})
	want := "dump_spec_1_5_X_2.dimacs"
	if got != want {
		t.Fatalf("ExpandFilename() = %q, want %q", got, want)
	}
}

func TestExpandFilenameProtectsLiteralAt(t *testing.T) {
	got := ExpandFilename("name_@@_@k.dimacs", FilenameMacros{Bound: 3})
	want := "name_@_3.dimacs"
	if got != want {
		t.Fatalf("ExpandFilename() = %q, want %q", got, want)
	}
}
