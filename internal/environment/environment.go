// Copyright 2026 The abi-framework Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package environment resolves the handful of environment variables
// abi-framework consults (spec §6) exactly once, at the command's entry
// point, and passes the result down as a plain value -- per spec §9's
// design note: "There is none [global state] beyond environment variables
// consulted for tool resolution. Pass a resolved Environment context
// instead of reading env at every call."
package environment

import "os"

// Environment is the resolved snapshot of the variables the
// clang-preprocess backend and doctor command consult.
type Environment struct {
	AbiClang     string
	LLVMClang    string
	CC           string
	LLVMHome     string
	ProgramFiles string
}

// FromOS reads the process environment once.
func FromOS() Environment {
	return Environment{
		AbiClang:     os.Getenv("ABI_CLANG"),
		LLVMClang:    os.Getenv("LLVM_CLANG"),
		CC:           os.Getenv("CC"),
		LLVMHome:     os.Getenv("LLVM_HOME"),
		ProgramFiles: os.Getenv("ProgramFiles"),
	}
}
