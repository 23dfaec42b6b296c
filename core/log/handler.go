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

// Handler is the interface to something that can consume log messages.
type Handler interface {
	// Handle processes a single log message.
	Handle(m *Message)
	// Close flushes and releases any resources held by the handler.
	Close()
}

// handler is the basic Handler implementation built from two closures.
type handler struct {
	handle func(m *Message)
	close  func()
}

func (h handler) Handle(m *Message) { h.handle(m) }
func (h handler) Close()            { h.close() }

// NewHandler builds a Handler from a handle and a close function.
func NewHandler(handle func(m *Message), close func()) Handler {
	return handler{handle, close}
}

// OnClosed returns a Handler that wraps h, additionally invoking onClose
// when the handler is closed.
func OnClosed(h Handler, onClose func()) Handler {
	return handler{
		handle: h.Handle,
		close: func() {
			h.Close()
			onClose()
		},
	}
}

type handlerKeyTy string

const handlerKey handlerKeyTy = "log.handlerKey"

// PutHandler returns a new context with the Handler assigned to h.
func PutHandler(ctx context.Context, h Handler) context.Context {
	return keys.WithValue(ctx, handlerKey, h)
}

// GetHandler returns the Handler assigned to ctx.
func GetHandler(ctx context.Context) Handler {
	out, _ := ctx.Value(handlerKey).(Handler)
	return out
}
