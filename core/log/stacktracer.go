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

package log

import (
	"context"

	"github.com/google/gapid/core/context/keys"
)

// Stacktracer decides whether a message of a given severity should carry a
// captured stack trace.
type Stacktracer interface {
	// NeedsStacktrace returns true if messages of severity s should capture
	// a stack trace.
	NeedsStacktrace(s Severity) bool
}

// SeverityStacktracer is a Stacktracer that requests a stack trace for any
// message at or above the given severity.
type SeverityStacktracer Severity

// NeedsStacktrace returns true if s is at least as severe as the configured
// threshold.
func (t SeverityStacktracer) NeedsStacktrace(s Severity) bool { return Severity(t) <= s }

type stacktracerKeyTy string

const stacktracerKey stacktracerKeyTy = "log.stacktracerKey"

// PutStacktracer returns a new context with the Stacktracer assigned to t.
func PutStacktracer(ctx context.Context, t Stacktracer) context.Context {
	return keys.WithValue(ctx, stacktracerKey, t)
}

// GetStacktracer returns the Stacktracer assigned to ctx.
func GetStacktracer(ctx context.Context) Stacktracer {
	out, _ := ctx.Value(stacktracerKey).(Stacktracer)
	return out
}
