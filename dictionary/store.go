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
	"math/rand"
	"strings"

	"github.com/luci/gtreap"

	"github.com/vigilmon/vigil/object"
)

// entry is an item of the treap. Entries are never modified once inserted,
// overwriting a key inserts a new entry.
type entry struct {
	key   string
	value object.Value
}

func compareEntries(a, b any) int {
	return strings.Compare(a.(*entry).key, b.(*entry).key)
}

// store is an immutable snapshot of the dictionary data.
//
// The zero value is an empty store.
//
// All "mutating" methods return a new store sharing structure with the
// original one, so a store obtained under the read lock stays valid and
// consistent after the lock is released.
type store struct {
	root *gtreap.Treap
	size int
}

func (s store) get(key string) *entry {
	if s.size == 0 {
		return nil
	}
	if item := s.root.Get(&entry{key: key}); item != nil {
		return item.(*entry)
	}
	return nil
}

func (s store) set(key string, value object.Value) store {
	root, size := s.root, s.size
	if root == nil {
		root = gtreap.NewTreap(compareEntries)
	}
	if s.get(key) == nil {
		size++
	}
	return store{
		root: root.Upsert(&entry{key: key, value: value}, rand.Int()),
		size: size,
	}
}

func (s store) remove(key string) store {
	if s.get(key) == nil {
		return s
	}
	return store{
		root: s.root.Delete(&entry{key: key}),
		size: s.size - 1,
	}
}

// visit calls cb for entries with keys >= from in ascending order until cb
// returns false.
func (s store) visit(from string, cb func(e *entry) bool) {
	if s.size == 0 {
		return
	}
	s.root.VisitAscend(&entry{key: from}, func(item gtreap.Item) bool {
		return cb(item.(*entry))
	})
}

// after returns the first entry with a key strictly greater than key.
func (s store) after(key string) *entry {
	var found *entry
	s.visit(key, func(e *entry) bool {
		if e.key == key {
			return true
		}
		found = e
		return false
	})
	return found
}

func (s store) first() *entry {
	if s.size == 0 {
		return nil
	}
	return s.root.Min().(*entry)
}

func (s store) pairs() []Pair {
	out := make([]Pair, 0, s.size)
	s.visit("", func(e *entry) bool {
		out = append(out, Pair{Key: e.key, Value: e.value})
		return true
	})
	return out
}

func (s store) keys() []string {
	out := make([]string, 0, s.size)
	s.visit("", func(e *entry) bool {
		out = append(out, e.key)
		return true
	})
	return out
}
