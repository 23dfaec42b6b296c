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

package app

import "github.com/google/gapid/core/log"

// LogFlags controls the behaviour of the root logger.
type LogFlags struct {
	Level  log.Severity `help:"the minimum severity of message to show"`
	Style  log.Style    `help:"the style to print log messages with"`
	Stacks bool         `help:"attach stack traces to error and higher messages"`
	File   string       `help:"file to additionally log to"`
}

// ProfileFlags controls the optional runtime profilers.
type ProfileFlags struct {
	CPU   string `help:"write a CPU profile to this file"`
	Mem   string `help:"write a memory profile to this file"`
	Trace string `help:"write an execution trace to this file"`
	Pprof bool   `help:"serve pprof profiles on localhost:6060"`
}

// AppFlags are the flags common to every application built on this package.
type AppFlags struct {
	Log         LogFlags     `help:"logging options"`
	Profile     ProfileFlags `help:"profiling options"`
	Version     bool         `help:"print the version and exit"`
	DecodeStack string       `help:"decode a stacktrace previously captured with -fullhelp"`
}
