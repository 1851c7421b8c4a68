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

// This file hosts non-user-configurable parameters --- these are for development and testing purposes only.

// StableRoundLimit is a round count of 5. No code in this module reads it;
// the invariant loops are bounded only by their maxK argument.
const StableRoundLimit = 5

// NoInferenceComment is the marker string "<bmc no-check>". No code in this
// module reads it.
const NoInferenceComment = "<bmc no-check>"

// ModulePkgPathPrefix is the name prefix "__bmc". No code in this module
// reads it when naming variables.
const ModulePkgPathPrefix = "__bmc"

// DirLevelsToPrintForTriggers is a directory-level count of 1. No code in
// this module reads it.
const DirLevelsToPrintForTriggers = 1
