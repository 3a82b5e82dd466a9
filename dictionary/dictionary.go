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

// Package dictionary implements Dictionary: the ordered, thread-safe and
// freezable key/value container of the object runtime.
//
// Two locks protect a dictionary. A fine-grained reader/writer lock guards the
// data and is taken by every method for the duration of the call. The coarse
// object lock (see package object) serializes compound operations across the
// whole object: Set, Remove, Clear and Freeze acquire it themselves, iteration
// and RemoveAt require the caller to hold it, unless the dictionary is frozen.
//
// Mutating methods take a context.Context. If the caller already holds the
// object lock, it must pass the context returned by object.Lock, otherwise
// the call will deadlock trying to acquire the lock again.
package dictionary

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/vigilmon/vigil/logging"
	"github.com/vigilmon/vigil/object"
)

// ErrFrozen is returned when mutating a frozen dictionary.
var ErrFrozen = errors.New("dictionary must not be modified")

// Pair is a key/value pair.
type Pair struct {
	Key   string
	Value object.Value
}

// Type is the runtime type of dictionaries.
var Type = object.RegisterType(&object.Type{
	Name: "Dictionary",
	Base: object.ObjectType,
})

func init() {
	Type.NewPrototype = newPrototype
}

// Dictionary is an ordered mapping from string keys to values.
//
// Keys are ordered by byte-wise string comparison. The zero value is an empty
// dictionary.
type Dictionary struct {
	object.Object

	mu     sync.RWMutex
	data   store
	frozen atomic.Bool
}

var (
	_ object.Typed    = (*Dictionary)(nil)
	_ object.Cloner   = (*Dictionary)(nil)
	_ object.Lockable = (*Dictionary)(nil)
)

// New returns a dictionary populated from the given pairs.
//
// When a key is repeated, the last value wins.
func New(pairs ...Pair) *Dictionary {
	return FromPairs(pairs)
}

// FromPairs returns a dictionary populated from the given pairs.
func FromPairs(pairs []Pair) *Dictionary {
	var s store
	for _, kv := range pairs {
		s = s.set(kv.Key, kv.Value)
	}
	return &Dictionary{data: s}
}

// FromMap returns a dictionary populated from a Go map.
func FromMap(m map[string]object.Value) *Dictionary {
	var s store
	for k, v := range m {
		s = s.set(k, v)
	}
	return &Dictionary{data: s}
}

// ReflectionType implements object.Typed.
func (d *Dictionary) ReflectionType() *object.Type { return Type }

// snapshot returns the current data under the read lock.
func (d *Dictionary) snapshot() store {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.data
}

// Get returns the value of key, or object.Empty if there's no such key.
func (d *Dictionary) Get(key string) object.Value {
	if e := d.snapshot().get(key); e != nil {
		return e.value
	}
	return object.Empty
}

// Lookup returns the value of key and true, or (object.Empty, false) if there's
// no such key.
func (d *Dictionary) Lookup(key string) (object.Value, bool) {
	if e := d.snapshot().get(key); e != nil {
		return e.value, true
	}
	return object.Empty, false
}

// GetRef returns a pointer to a copy of the value of key, or nil.
//
// Writing through the pointer never changes the dictionary, use Set for that.
// Later updates of the key do not affect it.
func (d *Dictionary) GetRef(key string) *object.Value {
	if e := d.snapshot().get(key); e != nil {
		v := e.value
		return &v
	}
	return nil
}

// Contains is true if the dictionary has the key.
func (d *Dictionary) Contains(key string) bool {
	return d.snapshot().get(key) != nil
}

// Len returns the number of keys.
func (d *Dictionary) Len() int {
	return d.snapshot().size
}

// Keys returns all keys in ascending order.
func (d *Dictionary) Keys() []string {
	return d.snapshot().keys()
}

// Items returns all pairs in ascending key order.
func (d *Dictionary) Items() []Pair {
	return d.snapshot().pairs()
}

// mutate runs cb under the object lock and the write lock, unless the
// dictionary is frozen.
func (d *Dictionary) mutate(ctx context.Context, op string, cb func(s store) store) error {
	ctx, olock := object.Lock(ctx, d)
	defer olock.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Frozen() {
		logging.Debugf(ctx, "Rejecting %s on a frozen dictionary", op)
		return errors.Wrap(ErrFrozen, op)
	}
	d.data = cb(d.data)
	return nil
}

// Set stores value under key, replacing the existing value, if any.
//
// Returns ErrFrozen if the dictionary is frozen.
func (d *Dictionary) Set(ctx context.Context, key string, value object.Value) error {
	return d.mutate(ctx, fmt.Sprintf("set %q", key), func(s store) store {
		return s.set(key, value)
	})
}

// Remove deletes key. Does nothing if there's no such key.
//
// Returns ErrFrozen if the dictionary is frozen.
func (d *Dictionary) Remove(ctx context.Context, key string) error {
	return d.mutate(ctx, fmt.Sprintf("remove %q", key), func(s store) store {
		return s.remove(key)
	})
}

// Clear removes all keys.
//
// Returns ErrFrozen if the dictionary is frozen.
func (d *Dictionary) Clear(ctx context.Context) error {
	return d.mutate(ctx, "clear", func(store) store {
		return store{}
	})
}

// Freeze makes the dictionary immutable. There is no way back.
func (d *Dictionary) Freeze(ctx context.Context) {
	_, olock := object.Lock(ctx, d)
	defer olock.Unlock()
	d.frozen.Store(true)
}

// Frozen is true if the dictionary was frozen.
func (d *Dictionary) Frozen() bool {
	return d.frozen.Load()
}

// LockIfRequired acquires the object lock, unless the dictionary is frozen and
// doesn't need it.
//
// Use it to iterate over dictionaries that may or may not be frozen.
func (d *Dictionary) LockIfRequired(ctx context.Context) (context.Context, *object.ObjectLock) {
	if d.Frozen() {
		return ctx, object.DeferLock(d)
	}
	return object.Lock(ctx, d)
}
