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

package cnf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nusmv-go/bmc/internal/be"
	"github.com/nusmv-go/bmc/internal/beenc"
)

// DumpDIMACS writes inst in the DIMACS CNF format described by spec.md §6:
// a comment preamble (tool name, bound, variable counts), one comment line
// per (time, model variable) pair, a "c model" line listing every model
// variable's CNF index, the "p cnf" header, the formula literal as a unit
// clause, and then one clause per line.
func DumpDIMACS(w io.Writer, inst *Instance, enc *beenc.Encoder, k int) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	nState := len(enc.Untimed(beenc.KindState))
	nFrozen := len(enc.Untimed(beenc.KindFrozen))
	nInput := len(enc.Untimed(beenc.KindInput))

	fmt.Fprintf(bw, "c BMC problem generated by bmc\n")
	fmt.Fprintf(bw, "c Time steps from 0 to %d, %d State Variables, %d Frozen Variables, %d Input Variables\n",
		k, nState, nFrozen, nInput)
	fmt.Fprintf(bw, "c Model to Dimacs Conversion Table\n")

	for _, v := range inst.ModelVars {
		tv, ok := enc.TimedToUntimed(inst.BackMap[v])
		if !ok {
			continue
		}
		name, _ := enc.UntimedToName(tv.Untimed)
		fmt.Fprintf(bw, "c CNF variable %d => Time %d, Model Variable %s\n", v, tv.Time, name)
	}
	fmt.Fprintf(bw, "c\n")

	fmt.Fprintf(bw, "c model %d\n", len(inst.ModelVars))
	fmt.Fprintf(bw, "c ")
	for _, v := range inst.ModelVars {
		fmt.Fprintf(bw, "%d ", v)
	}
	fmt.Fprintf(bw, "0\n")

	if inst.FormulaLit.Constant {
		if inst.FormulaLit.ConstValue {
			fmt.Fprintf(bw, "p cnf %d 0\n", inst.MaxVar)
			fmt.Fprintf(bw, "c Warning: the true constant is printed out\n")
		} else {
			fmt.Fprintf(bw, "p cnf %d 2\n", inst.MaxVar)
			fmt.Fprintf(bw, "c Warning: the false constant is printed out\n")
			fmt.Fprintf(bw, "1 0\n-1 0\n")
		}
		return bw.Flush()
	}

	fmt.Fprintf(bw, "p cnf %d %d\n", inst.MaxVar, len(inst.Clauses)+1)
	fmt.Fprintf(bw, "%d 0\n", inst.FormulaLit.Lit)
	for _, clause := range inst.Clauses {
		for _, lit := range clause {
			fmt.Fprintf(bw, "%d ", lit)
		}
		fmt.Fprintf(bw, "0\n")
	}
	return bw.Flush()
}

// ReadDIMACS parses a DIMACS CNF stream back into an Instance, ignoring
// comment lines. It recovers clauses, MaxVar, and the formula literal (the
// first unit clause immediately following the header, by this package's
// own dump convention), but not the BackMap or ModelVars, which depend on
// information (names, times) that lives only in the comments and is not
// semantically required to re-run the SAT query - see testable property
// S6 for the round-trip contract this supports.
func ReadDIMACS(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	inst := &Instance{BackMap: map[int32]be.Lit{}}
	var maxVar, numClauses int
	headerSeen := false
	first := true

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p") {
			fields := strings.Fields(line)
			if len(fields) != 4 {
				return nil, fmt.Errorf("cnf: malformed DIMACS header %q", line)
			}
			mv, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("cnf: bad max var in header: %w", err)
			}
			nc, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("cnf: bad clause count in header: %w", err)
			}
			maxVar, numClauses = mv, nc
			headerSeen = true
			continue
		}
		if !headerSeen {
			return nil, fmt.Errorf("cnf: clause line before header")
		}
		lits, err := parseClauseLine(line)
		if err != nil {
			return nil, err
		}
		if numClauses == 0 {
			// p cnf <n> 0 with no unit clause: constant-true formula.
			continue
		}
		if first {
			first = false
			if len(lits) == 1 {
				inst.FormulaLit = FormulaLit{Lit: lits[0]}
				continue
			}
		}
		inst.Clauses = append(inst.Clauses, lits)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	inst.MaxVar = int32(maxVar)
	if numClauses == 0 {
		inst.FormulaLit = FormulaLit{Constant: true, ConstValue: true}
	} else if maxVar <= 1 && !inst.FormulaLit.Constant && inst.FormulaLit.Lit == 1 &&
		len(inst.Clauses) == 1 && len(inst.Clauses[0]) == 1 && inst.Clauses[0][0] == -1 {
		// {1 0}, {-1 0} is this package's encoding of constant-false; the
		// first of the two unit clauses was read as the formula literal.
		inst.Clauses = nil
		inst.FormulaLit = FormulaLit{Constant: true, ConstValue: false}
	}
	return inst, nil
}

func parseClauseLine(line string) ([]int32, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("cnf: empty clause line")
	}
	lits := make([]int32, 0, len(fields)-1)
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("cnf: bad literal %q: %w", f, err)
		}
		if n == 0 {
			break
		}
		lits = append(lits, int32(n))
	}
	return lits, nil
}
