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
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Options mirrors the environment variables of spec.md §6, lifted to a
// typed struct shared by every command. Flags always take precedence over
// environment variables, which take precedence over the defaults below -
// the same override order the teacher's cmd/nilaway/main.go uses for its
// flag-lifting trick.
type Options struct {
	Length             int    // bmc_length
	LoopbackSpec        string // bmc_loopback, parsed against Length via ParseLoopback
	DimacsFilename      string // bmc_dimacs_filename
	InvarDimacsFilename string // bmc_invar_dimacs_filename
	InvarAlg            string // bmc_invar_alg
	IncInvarAlg         string // bmc_inc_invar_alg
	OptimizedTableau    bool   // bmc_optimized_tableau
	ForcePLTLTableau    bool   // bmc_force_pltl_tableau
	SBMCIlOpt           bool   // bmc_sbmc_il_opt
	SBMCGfFgOpt         bool   // bmc_sbmc_gf_fg_opt
	SBMCCacheOpt        bool   // bmc_sbmc_cache_opt

	Logger *zap.Logger
}

// Defaults returns the documented defaults for every environment-variable
// backed option in spec.md §6.
func Defaults() Options {
	return Options{
		Length:              10,
		LoopbackSpec:        "X",
		DimacsFilename:      "",
		InvarDimacsFilename: "",
		InvarAlg:            "classic",
		IncInvarAlg:         "dual",
		OptimizedTableau:    true,
		ForcePLTLTableau:    false,
		SBMCIlOpt:           true,
		SBMCGfFgOpt:         true,
		SBMCCacheOpt:        true,
	}
}

// envBindings lists the environment variable name of each Options field,
// in field order. BindEnv looks each variable up by name directly and does
// not read this list.
var envBindings = []string{
	"bmc_length",
	"bmc_loopback",
	"bmc_dimacs_filename",
	"bmc_invar_dimacs_filename",
	"bmc_invar_alg",
	"bmc_inc_invar_alg",
	"bmc_optimized_tableau",
	"bmc_force_pltl_tableau",
	"bmc_sbmc_il_opt",
	"bmc_sbmc_gf_fg_opt",
	"bmc_sbmc_cache_opt",
}

// BindEnv overrides fields of o with the corresponding environment
// variable, for any variable that is set and whose flag was not
// explicitly passed on the command line.
func (o *Options) BindEnv(flags *pflag.FlagSet) {
	if v, ok := os.LookupEnv("bmc_length"); ok && !flags.Changed("k") {
		if n, err := strconv.Atoi(v); err == nil {
			o.Length = n
		}
	}
	if v, ok := os.LookupEnv("bmc_loopback"); ok && !flags.Changed("l") {
		o.LoopbackSpec = v
	}
	if v, ok := os.LookupEnv("bmc_dimacs_filename"); ok && !flags.Changed("o") {
		o.DimacsFilename = v
	}
	if v, ok := os.LookupEnv("bmc_invar_dimacs_filename"); ok && !flags.Changed("invar-dimacs") {
		o.InvarDimacsFilename = v
	}
	if v, ok := os.LookupEnv("bmc_invar_alg"); ok && !flags.Changed("a") {
		o.InvarAlg = v
	}
	if v, ok := os.LookupEnv("bmc_inc_invar_alg"); ok && !flags.Changed("strategy") {
		o.IncInvarAlg = v
	}
	if v, ok := os.LookupEnv("bmc_optimized_tableau"); ok && !flags.Changed("optimized-tableau") {
		o.OptimizedTableau = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("bmc_force_pltl_tableau"); ok && !flags.Changed("force-pltl-tableau") {
		o.ForcePLTLTableau = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("bmc_sbmc_il_opt"); ok && !flags.Changed("c") {
		o.SBMCIlOpt = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("bmc_sbmc_gf_fg_opt"); ok && !flags.Changed("gf-fg-opt") {
		o.SBMCGfFgOpt = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("bmc_sbmc_cache_opt"); ok && !flags.Changed("cache-opt") {
		o.SBMCCacheOpt = v == "1" || v == "true"
	}
}

// RegisterFlags wires o's fields to a pflag.FlagSet using the flag names
// of the CLI surface table in spec.md §6.
func (o *Options) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&o.Length, "k", "k", o.Length, "unrolling bound")
	flags.StringVarP(&o.LoopbackSpec, "l", "l", o.LoopbackSpec, "loopback: X (none), * (all), or an integer index")
	flags.StringVarP(&o.DimacsFilename, "o", "o", o.DimacsFilename, "DIMACS dump filename template")
	flags.StringVar(&o.InvarDimacsFilename, "invar-dimacs", o.InvarDimacsFilename, "invariant DIMACS dump filename template")
	flags.StringVarP(&o.InvarAlg, "a", "a", o.InvarAlg, "invariant algorithm: classic, induction, een-sorensson, dual, zigzag, falsification, interp-seq")
	flags.BoolVar(&o.OptimizedTableau, "optimized-tableau", o.OptimizedTableau, "use the optimized monolithic LTL tableau when applicable")
	flags.BoolVar(&o.ForcePLTLTableau, "force-pltl-tableau", o.ForcePLTLTableau, "force the PLTL tableau even when the optimized form could apply")
	flags.BoolVarP(&o.SBMCIlOpt, "c", "c", o.SBMCIlOpt, "enable SBMC completeness check")
	flags.BoolVar(&o.SBMCGfFgOpt, "gf-fg-opt", o.SBMCGfFgOpt, "enable SBMC GF/FG optimization")
	flags.BoolVar(&o.SBMCCacheOpt, "cache-opt", o.SBMCCacheOpt, "enable SBMC subformula caching")
}
