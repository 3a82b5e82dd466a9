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

package dictionary

import (
	"context"
	"iter"

	"github.com/pkg/errors"

	"github.com/vigilmon/vigil/object"
)

// Iterator walks a dictionary in ascending key order.
//
// It sees the dictionary as it was when the iterator was created.
//
//	ctx, olock := d.LockIfRequired(ctx)
//	defer olock.Unlock()
//	for it := d.Iterate(ctx); it.Next(); {
//	  use(it.Key(), it.Value())
//	}
type Iterator struct {
	data    store
	cur     *entry
	started bool
	done    bool
}

// Iterate returns an iterator positioned before the first entry.
//
// Panics with object.LockDisciplineViolation unless the dictionary is frozen
// or ctx owns the object lock.
func (d *Dictionary) Iterate(ctx context.Context) *Iterator {
	if !d.Frozen() {
		object.AssertOwnsLock(ctx, d, "Iterate")
	}
	return &Iterator{data: d.snapshot()}
}

// Next advances the iterator. Returns false when there are no more entries.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		it.cur = it.data.first()
	} else {
		it.cur = it.data.after(it.cur.key)
	}
	if it.cur == nil {
		it.done = true
	}
	return !it.done
}

// Key returns the key of the current entry.
func (it *Iterator) Key() string {
	return it.current().key
}

// Value returns the value of the current entry.
func (it *Iterator) Value() object.Value {
	return it.current().value
}

func (it *Iterator) current() *entry {
	if it.cur == nil {
		panic("dictionary: the iterator is not positioned on an entry")
	}
	return it.cur
}

// All returns an iterator over (key, value) pairs for use with range.
//
// Has the same locking requirements as Iterate, checked when All is called.
// Every range over the result starts from a fresh snapshot.
func (d *Dictionary) All(ctx context.Context) iter.Seq2[string, object.Value] {
	if !d.Frozen() {
		object.AssertOwnsLock(ctx, d, "Iterate")
	}
	return func(yield func(string, object.Value) bool) {
		it := &Iterator{data: d.snapshot()}
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// RemoveAt removes the entry the iterator is positioned on.
//
// The caller must hold the object lock (ctx must own it) even if the
// dictionary is frozen, and the entry must still exist. Violating either is a
// bug and panics. Returns ErrFrozen if the dictionary is frozen.
func (d *Dictionary) RemoveAt(ctx context.Context, it *Iterator) error {
	object.AssertOwnsLock(ctx, d, "RemoveAt")
	key := it.Key()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Frozen() {
		return errors.Wrapf(ErrFrozen, "remove %q", key)
	}
	if d.data.get(key) == nil {
		panic(errors.Errorf("dictionary: RemoveAt(%q) of an entry that no longer exists", key))
	}
	d.data = d.data.remove(key)
	return nil
}

// Begin is a shortcut for d.Iterate(ctx).
func Begin(ctx context.Context, d *Dictionary) *Iterator {
	return d.Iterate(ctx)
}

// All is a shortcut for d.All(ctx).
func All(ctx context.Context, d *Dictionary) iter.Seq2[string, object.Value] {
	return d.All(ctx)
}
