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
	"github.com/armon/go-radix"
	"github.com/pkg/errors"
)

// PrefixIndex answers prefix queries over the keys of a frozen dictionary.
//
// Frozen dictionaries never change, so the index never goes stale.
type PrefixIndex struct {
	tree *radix.Tree
}

// NewPrefixIndex indexes all keys of d. d must be frozen.
func NewPrefixIndex(d *Dictionary) (*PrefixIndex, error) {
	if !d.Frozen() {
		return nil, errors.New("only frozen dictionaries can be indexed")
	}
	tree := radix.New()
	for _, kv := range d.Items() {
		tree.Insert(kv.Key, kv)
	}
	return &PrefixIndex{tree: tree}, nil
}

// Len is the number of indexed keys.
func (ix *PrefixIndex) Len() int {
	return ix.tree.Len()
}

// WithPrefix returns all pairs whose key starts with prefix, in key order.
func (ix *PrefixIndex) WithPrefix(prefix string) []Pair {
	var out []Pair
	ix.tree.WalkPrefix(prefix, func(_ string, v any) bool {
		out = append(out, v.(Pair))
		return false
	})
	return out
}

// LongestPrefix returns the pair with the longest key that is a prefix of s.
func (ix *PrefixIndex) LongestPrefix(s string) (Pair, bool) {
	_, v, ok := ix.tree.LongestPrefix(s)
	if !ok {
		return Pair{}, false
	}
	return v.(Pair), true
}
