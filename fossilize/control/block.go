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

// Package control implements the shared control block (spec C5): a
// lock-protected ring-buffer channel used to publish progress and
// banned-module telemetry from the master to any external observer.
//
// The spec models this as a named shared-memory region. Block is the
// in-process form (tests, and workers run as goroutines); NamedRegion in
// fossilize/control/shm.go is the cross-process form (workers spawned as
// OS processes). Both offer the same counter, flag and Enqueue methods.
package control

import (
	"sync"
	"sync/atomic"

	"github.com/google/gapid/core/fault"
)

// Cookie is the compiled-in magic every control block must carry; a
// mismatch at attach time means the region belongs to a different build
// and must be rejected.
const Cookie uint32 = 0x464f5353 // "FOSS"

// ControlBlockCorrupt is returned by Attach when the cookie is wrong, the
// ring-buffer size is not a power of two, or the ring-buffer offset is
// shorter than the header. A corrupt control block is disabled; the
// supervisor continues without telemetry.
const ControlBlockCorrupt = fault.Const("fossilize: control block corrupt")

// MessageSize is the fixed size, in bytes, of one ring-buffer slot: large
// enough to hold the longest framed message ("MODULE " + 16 hex digits +
// newline) with room to spare.
const MessageSize = 32

// DefaultRingSize is the default ring-buffer slot count; must be a power
// of two.
const DefaultRingSize = 256

// Block is a fixed-size control region: version cookie, relaxed-atomic
// counters, release-store lifecycle flags, and a mutex-protected ring
// buffer of fixed-size message slots.
type Block struct {
	cookie uint32

	bannedModules      uint32
	cleanProcessDeaths uint32
	dirtyProcessDeaths uint32

	progressStarted  uint32
	progressComplete uint32

	mu   sync.Mutex
	ring [][]byte
	head int
	size int
}

// New constructs an in-memory control block with ringSize slots (must be a
// power of two), validated exactly as Attach would validate a named region.
func New(ringSize int) (*Block, error) {
	if ringSize <= 0 || ringSize&(ringSize-1) != 0 {
		return nil, ControlBlockCorrupt
	}
	return &Block{
		cookie: Cookie,
		ring:   make([][]byte, ringSize),
		size:   ringSize,
	}, nil
}

// Attach validates an existing block the way a real shared-memory mapping
// would be validated at attach time: cookie, ring-buffer size (power of
// two), and ring-buffer offset (implicit here; always >= header size since
// the Go struct has no raw offset field).
func Attach(b *Block) error {
	if b.cookie != Cookie {
		return ControlBlockCorrupt
	}
	if b.size <= 0 || b.size&(b.size-1) != 0 {
		return ControlBlockCorrupt
	}
	return nil
}

// IncBannedModules atomically increments the banned-module counter
// (relaxed ordering suffices per spec; Go's atomic package provides no
// weaker guarantee, which is also safe).
func (b *Block) IncBannedModules() { atomic.AddUint32(&b.bannedModules, 1) }

// IncCleanProcessDeaths records a worker that exited 0.
func (b *Block) IncCleanProcessDeaths() { atomic.AddUint32(&b.cleanProcessDeaths, 1) }

// IncDirtyProcessDeaths records a worker that exited non-zero with no
// progress ever observed, or whose message pipe failed.
func (b *Block) IncDirtyProcessDeaths() { atomic.AddUint32(&b.dirtyProcessDeaths, 1) }

// BannedModules, CleanProcessDeaths, DirtyProcessDeaths read the relaxed
// counters.
func (b *Block) BannedModules() uint32      { return atomic.LoadUint32(&b.bannedModules) }
func (b *Block) CleanProcessDeaths() uint32 { return atomic.LoadUint32(&b.cleanProcessDeaths) }
func (b *Block) DirtyProcessDeaths() uint32 { return atomic.LoadUint32(&b.dirtyProcessDeaths) }

// SetProgressStarted and SetProgressComplete use release-store ordering:
// Go's atomic store over a uint32 already provides the needed memory
// barrier on every architecture the runtime supports.
func (b *Block) SetProgressStarted()  { atomic.StoreUint32(&b.progressStarted, 1) }
func (b *Block) SetProgressComplete() { atomic.StoreUint32(&b.progressComplete, 1) }

// ProgressStarted and ProgressComplete use acquire-load ordering.
func (b *Block) ProgressStarted() bool  { return atomic.LoadUint32(&b.progressStarted) != 0 }
func (b *Block) ProgressComplete() bool { return atomic.LoadUint32(&b.progressComplete) != 0 }

// Enqueue writes msg into the next ring-buffer slot under the block's
// mutex, matching the "writers acquire a named OS-level mutex before
// enqueueing a message" rule; msg is copied.
func (b *Block) Enqueue(msg []byte) {
	cp := make([]byte, len(msg))
	copy(cp, msg)
	b.mu.Lock()
	b.ring[b.head%b.size] = cp
	b.head++
	b.mu.Unlock()
}

// Drain returns and clears all currently enqueued messages, oldest first.
func (b *Block) Drain() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.head
	if n > b.size {
		n = b.size
	}
	out := make([][]byte, 0, n)
	start := b.head - n
	for i := 0; i < n; i++ {
		if msg := b.ring[(start+i)%b.size]; msg != nil {
			out = append(out, msg)
		}
	}
	b.head = 0
	return out
}
