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

package ipc

import (
	"bufio"
	"io"

	"github.com/google/gapid/core/fault"
)

// ChannelFailure is returned (as Event.Err) on an async-read or write-file
// error on a worker's pipe. The supervisor closes the worker and treats it
// like a crash without progress.
const ChannelFailure = fault.Const("fossilize: channel failure")

// Event is one item delivered on a Channel's event stream: either a parsed
// Message, or a terminal Err (after which the stream is closed).
type Event struct {
	Msg Message
	Err error
}

// Channel is the master-side read end of a worker's framed-message pipe.
// Reads are asynchronous; completion is reported by receiving from Events,
// standing in for the spec's OS auto-reset event — a Go channel receive in
// a select is the idiomatic equivalent of waiting on a single waitable
// handle, and costs nothing extra to multiplex alongside the worker's
// process-exit and timer channels.
type Channel struct {
	rc     io.ReadCloser
	events chan Event
}

// NewChannel wraps rc (the read end of a pipe inherited from a spawned
// worker, or an in-process io.Pipe for tests) and immediately starts the
// background read loop. One read returns one whole message, matching the
// OS pipe's message-mode framing: the loop reads one newline-terminated
// line per message, never batching multiple lines into a single Event.
func NewChannel(rc io.ReadCloser) *Channel {
	c := &Channel{rc: rc, events: make(chan Event, 1)}
	go c.readLoop()
	return c
}

func (c *Channel) readLoop() {
	r := bufio.NewReader(c.rc)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			c.events <- Event{Msg: Parse(line)}
		}
		if err != nil {
			if err == io.EOF {
				close(c.events)
				return
			}
			c.events <- Event{Err: ChannelFailure}
			close(c.events)
			return
		}
	}
}

// Events returns the channel's event stream. It is closed after the first
// error or after the writer end is closed (EOF).
func (c *Channel) Events() <-chan Event { return c.events }

// Close closes the underlying read end; any in-flight read returns EOF or
// an error and the event stream closes.
func (c *Channel) Close() error { return c.rc.Close() }
