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

import "time"

// Message is a single log record, produced by a Logger and consumed by a
// Handler.
type Message struct {
	Text        string    // The formatted message text.
	Time        time.Time // The time the message was produced.
	Severity    Severity  // The severity of the message.
	StopProcess bool      // If true, the process should stop after this message.
	Tag         string    // The tag of the logger that produced the message.
	Process     string    // The process that produced the message.
	Trace       []string  // The trace stack active when the message was produced.
	Values      Values    // The bound values active when the message was produced.
}
