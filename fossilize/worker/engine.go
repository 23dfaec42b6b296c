// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package worker is the in-process replayer runtime (spec C6): it runs a
// replayer engine over a pipeline-index range, installs a last-resort
// crash handler, and emits framed progress messages to the master.
//
// The replayer engine itself — the code that actually makes the
// graphics-API calls to build pipelines — is out of scope (spec section
// 1); it is modeled here only as the ReplayEngine interface the spec
// names: a blacklist setter, two progress counters readable at any time, a
// list of implicated shader-module hashes, and an emergency-teardown entry
// point callable from a crash-time context.
package worker

import "context"

// ReplayEngine is the external collaborator that actually builds
// pipelines. Replay drives it; it never initiates framed-message I/O
// itself.
type ReplayEngine interface {
	// SetBlacklist installs the shader-module hashes to skip, received
	// from the master at startup and possibly grown across respawns.
	SetBlacklist(hashes []uint64)

	// GraphicsProgress and ComputeProgress return the index of the last
	// pipeline of each kind the engine started building, readable from
	// any thread including a crash handler.
	GraphicsProgress() uint32
	ComputeProgress() uint32

	// ImplicatedModules returns the shader-module hashes the engine has
	// identified as participating in the pipeline being built when a
	// crash occurred; read by the crash handler, never allocates.
	ImplicatedModules() []uint64

	// EmergencyTeardown flushes any in-flight driver cache-write threads.
	// May deadlock; the master enforces a timeout for exactly this case.
	EmergencyTeardown()

	// Run replays every graphics pipeline in [graphicsStart,graphicsEnd)
	// and every compute pipeline in [computeStart,computeEnd), in that
	// order. A driver crash is modeled as a panic, caught by the
	// worker's crash handler.
	Run(ctx context.Context, graphicsStart, graphicsEnd, computeStart, computeEnd uint32) error
}
