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

//go:build linux || darwin

package control

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/google/gapid/core/os/flock"
)

// NamedRegion is a control block backed by a POSIX shared-memory object
// (/dev/shm on Linux) plus flock.Mutex, the teacher's file-backed
// inter-process mutex, standing in for spec section 4.5's named OS-level
// mutex: both master and an external observer attaching by
// --shm-name/--shm-mutex-name see the same counters.
//
// flock.Mutex panics if TryLock observes itself already locked, which is
// fine across processes (each attaches its own *flock.Mutex value) but
// not within one: two goroutines in this process racing r.mu.Lock would
// hit that panic instead of queuing. localMu serializes this process's
// own callers before either ever touches the named lock, so only the
// cross-process case reaches flock.Mutex's blocking retry loop.
//
// This is strictly additional to the in-process Block (control.New) used
// by tests and by workers run as goroutines; real cross-process workers
// (spawned via core/os/shell) use a NamedRegion so telemetry survives the
// process boundary.
type NamedRegion struct {
	name      string
	mutexName string
	file      *os.File
	mu        *flock.Mutex
	localMu   sync.Mutex
	data      []byte
}

// OpenNamedRegion creates or attaches to the shared memory object `name`
// sized for a ring buffer of ringSize message slots. mutexName keys the
// flock.Mutex used to serialize writers across processes.
func OpenNamedRegion(name, mutexName string, ringSize int) (*NamedRegion, error) {
	if ringSize <= 0 || ringSize&(ringSize-1) != 0 {
		return nil, ControlBlockCorrupt
	}
	path := shmPath(name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("fossilize: opening control block %q: %w", name, err)
	}
	size := headerSize + ringSize*MessageSize
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("fossilize: sizing control block %q: %w", name, err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("fossilize: mapping control block %q: %w", name, err)
	}
	r := &NamedRegion{name: name, mutexName: mutexName, file: f, mu: flock.New(mutexName), data: data}
	r.putUint32(cookieOffset, Cookie)
	r.putUint32(ringSizeOffset, uint32(ringSize))
	return r, nil
}

// AttachNamedRegion opens an existing region without resizing it, and
// validates its header per spec section 4.5.
func AttachNamedRegion(name, mutexName string) (*NamedRegion, error) {
	f, err := os.OpenFile(shmPath(name), os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("fossilize: attaching control block %q: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	r := &NamedRegion{name: name, mutexName: mutexName, file: f, mu: flock.New(mutexName), data: data}
	if r.getUint32(cookieOffset) != Cookie {
		r.Close()
		return nil, ControlBlockCorrupt
	}
	ringSize := r.getUint32(ringSizeOffset)
	if ringSize == 0 || ringSize&(ringSize-1) != 0 {
		r.Close()
		return nil, ControlBlockCorrupt
	}
	if headerSize+int(ringSize)*MessageSize > len(r.data) {
		r.Close()
		return nil, ControlBlockCorrupt
	}
	return r, nil
}

// Close unmaps the region and closes its backing file. It does not
// remove the shared-memory object: lifetime of the named region is
// independent of any one attacher. The named mutex's own lock file is
// owned by flock.Mutex, not by NamedRegion, and is closed as part of its
// own Unlock.
func (r *NamedRegion) Close() error {
	unix.Munmap(r.data)
	return r.file.Close()
}

// Enqueue appends msg to the ring buffer, holding the named mutex for the
// duration — the cross-process equivalent of Block.Enqueue's in-process
// mutex. Matches Block.Enqueue's signature (no error return) so either
// can back the supervisor's telemetry sink interchangeably.
func (r *NamedRegion) Enqueue(msg []byte) {
	r.localMu.Lock()
	defer r.localMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	ringSize := int(r.getUint32(ringSizeOffset))
	head := r.getUint32(ringHeadOffset)
	slot := headerSize + int(head)%ringSize*MessageSize
	n := copy(r.data[slot:slot+MessageSize], msg)
	for i := n; i < MessageSize; i++ {
		r.data[slot+i] = 0
	}
	r.putUint32(ringHeadOffset, head+1)
}

// IncBannedModules atomically increments the shared banned-module counter.
func (r *NamedRegion) IncBannedModules() { r.addUint32(bannedModulesOffset, 1) }

// IncCleanProcessDeaths and IncDirtyProcessDeaths mirror Block's worker
// exit counters into the named region, so an external tool attaching by
// name sees the same totals the in-process supervisor does.
func (r *NamedRegion) IncCleanProcessDeaths() { r.addUint32(cleanDeathsOffset, 1) }
func (r *NamedRegion) IncDirtyProcessDeaths() { r.addUint32(dirtyDeathsOffset, 1) }

// SetProgressStarted and SetProgressComplete mirror Block's lifecycle
// flags.
func (r *NamedRegion) SetProgressStarted()  { r.putFlag(progressStartedOffset) }
func (r *NamedRegion) SetProgressComplete() { r.putFlag(progressCompleteOffset) }

// BannedModules, CleanProcessDeaths, DirtyProcessDeaths read the mirrored
// counters without taking the mutex; a reader racing a writer sees either
// the old or the new value, never a torn one, since each is a single
// 32-bit-aligned store.
func (r *NamedRegion) BannedModules() uint32      { return r.getUint32(bannedModulesOffset) }
func (r *NamedRegion) CleanProcessDeaths() uint32 { return r.getUint32(cleanDeathsOffset) }
func (r *NamedRegion) DirtyProcessDeaths() uint32 { return r.getUint32(dirtyDeathsOffset) }
func (r *NamedRegion) ProgressStarted() bool      { return r.getUint32(progressStartedOffset) != 0 }
func (r *NamedRegion) ProgressComplete() bool     { return r.getUint32(progressCompleteOffset) != 0 }

func (r *NamedRegion) putFlag(off int) {
	r.localMu.Lock()
	defer r.localMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putUint32(off, 1)
}

func (r *NamedRegion) addUint32(off int, delta uint32) {
	// Go has no portable atomic-add-on-mmap'd-memory primitive without
	// unsafe; callers already serialize writes under the named mutex
	// (Enqueue), so a plain read-modify-write under the same lock is
	// sufficient here too.
	r.localMu.Lock()
	defer r.localMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putUint32(off, r.getUint32(off)+delta)
}

const (
	cookieOffset           = 0
	bannedModulesOffset    = 4
	cleanDeathsOffset      = 8
	dirtyDeathsOffset      = 12
	progressStartedOffset  = 16
	progressCompleteOffset = 20
	ringOffsetOffset       = 24
	ringSizeOffset         = 28
	ringHeadOffset         = 32
	headerSize             = 36
)

func shmPath(name string) string {
	return fmt.Sprintf("/dev/shm/%s", name)
}

func (r *NamedRegion) putUint32(off int, v uint32) {
	r.data[off+0] = byte(v)
	r.data[off+1] = byte(v >> 8)
	r.data[off+2] = byte(v >> 16)
	r.data[off+3] = byte(v >> 24)
}

func (r *NamedRegion) getUint32(off int) uint32 {
	return uint32(r.data[off+0]) | uint32(r.data[off+1])<<8 | uint32(r.data[off+2])<<16 | uint32(r.data[off+3])<<24
}
