// Copyright 2026 The LUCI Authors.
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

package object

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Object carries the identity shared by all runtime objects: the coarse,
// reentrant object lock.
//
// Embed it into a struct to make that struct Lockable.
type Object struct {
	mu sync.Mutex
}

func (o *Object) objectBase() *Object { return o }

// Lockable is implemented by every type embedding Object.
type Lockable interface {
	objectBase() *Object
}

// heldLock is a link in the chain of object locks held by a context.
type heldLock struct {
	obj      *Object
	released atomic.Bool
	parent   *heldLock
}

var heldLocksKey = "object.heldLocks"

func heldLocks(ctx context.Context) *heldLock {
	h, _ := ctx.Value(&heldLocksKey).(*heldLock)
	return h
}

// ObjectLock is a scoped acquisition of an object's lock.
//
// A zero or deferred ObjectLock does nothing when unlocked.
type ObjectLock struct {
	held *heldLock
}

// Lock acquires the object lock of o and returns a context that proves the
// ownership.
//
// The lock is reentrant: if ctx already owns the lock of o, Lock returns ctx
// unchanged along with a no-op ObjectLock. Operations that must run under the
// lock (e.g. dictionary mutations and iteration) should be passed the returned
// context, otherwise they will try to acquire the lock again and deadlock.
//
// The returned context must not be used after Unlock and must not be shared
// with goroutines that are not covered by this acquisition.
func Lock(ctx context.Context, o Lockable) (context.Context, *ObjectLock) {
	if OwnsLock(ctx, o) {
		return ctx, &ObjectLock{}
	}
	obj := o.objectBase()
	obj.mu.Lock()
	h := &heldLock{obj: obj, parent: heldLocks(ctx)}
	return context.WithValue(ctx, &heldLocksKey, h), &ObjectLock{held: h}
}

// DeferLock returns an ObjectLock that holds nothing.
func DeferLock(o Lockable) *ObjectLock {
	return &ObjectLock{}
}

// Locked is true if this ObjectLock is the acquisition that holds the lock.
//
// Reentrant and deferred locks return false.
func (l *ObjectLock) Locked() bool {
	return l.held != nil && !l.held.released.Load()
}

// Unlock releases the lock if this ObjectLock acquired it.
//
// Calling Unlock more than once is fine.
func (l *ObjectLock) Unlock() {
	if l.held == nil {
		return
	}
	if l.held.released.CompareAndSwap(false, true) {
		l.held.obj.mu.Unlock()
	}
}

// OwnsLock is true if ctx was produced by a still active Lock call on o.
func OwnsLock(ctx context.Context, o Lockable) bool {
	obj := o.objectBase()
	for h := heldLocks(ctx); h != nil; h = h.parent {
		if h.obj == obj && !h.released.Load() {
			return true
		}
	}
	return false
}

// LockDisciplineViolation is the panic value raised when a caller uses an
// operation that requires the object lock without holding it.
//
// It signals a bug in the calling code and must not be recovered from.
type LockDisciplineViolation struct {
	Op   string // the operation that was attempted
	Type string // type of the object
}

func (v LockDisciplineViolation) Error() string {
	return fmt.Sprintf("%s on %s requires the object lock to be held", v.Op, v.Type)
}

// AssertOwnsLock panics with LockDisciplineViolation unless ctx owns the lock
// of o.
func AssertOwnsLock(ctx context.Context, o Lockable, op string) {
	if !OwnsLock(ctx, o) {
		panic(LockDisciplineViolation{Op: op, Type: TypeOf(o)})
	}
}
