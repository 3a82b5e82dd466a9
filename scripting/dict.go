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

package scripting

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"github.com/vigilmon/vigil/dictionary"
	"github.com/vigilmon/vigil/logging"
	"github.com/vigilmon/vigil/object"
)

// Dict is a Starlark view of a *dictionary.Dictionary.
//
// Differences from regular dicts:
//   - Keys are always strings.
//   - Fields are looked up in the dictionary first and then in its prototype,
//     so d.len() works unless the dictionary has its own "len" key.
//   - Freezing the Dict freezes the underlying dictionary, which is visible
//     to all other holders of it.
type Dict struct {
	ctx context.Context // used by mutations without a thread at hand
	d   *dictionary.Dictionary
}

var (
	_ starlark.Value           = (*Dict)(nil)
	_ starlark.Sequence        = (*Dict)(nil)
	_ starlark.IterableMapping = (*Dict)(nil)
	_ starlark.HasAttrs        = (*Dict)(nil)
	_ starlark.HasSetField     = (*Dict)(nil)
	_ starlark.HasSetKey       = (*Dict)(nil)
)

// NewDict wraps d.
func NewDict(ctx context.Context, d *dictionary.Dictionary) *Dict {
	return &Dict{ctx: ctx, d: d}
}

// Dictionary returns the wrapped dictionary.
func (d *Dict) Dictionary() *dictionary.Dictionary { return d.d }

func (d *Dict) Type() string          { return dictionary.Type.Name }
func (d *Dict) String() string        { return d.d.String() }
func (d *Dict) Truth() starlark.Bool  { return d.d.Len() > 0 }
func (d *Dict) Len() int              { return d.d.Len() }
func (d *Dict) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", d.Type()) }

// Freeze freezes the dictionary and all dictionaries reachable from it.
func (d *Dict) Freeze() {
	freezeValue(d.ctx, d.d)
}

func freezeValue(ctx context.Context, v object.Value) {
	switch v := v.(type) {
	case *dictionary.Dictionary:
		if v.Frozen() {
			return
		}
		v.Freeze(ctx)
		for _, kv := range v.Items() {
			freezeValue(ctx, kv.Value)
		}
	case []object.Value:
		for _, item := range v {
			freezeValue(ctx, item)
		}
	}
}

// Get implements starlark.Mapping. Only own keys are visible through indexing.
func (d *Dict) Get(k starlark.Value) (v starlark.Value, found bool, err error) {
	key, ok := k.(starlark.String)
	if !ok {
		return nil, false, fmt.Errorf("%s keys must be strings, got %s", d.Type(), k.Type())
	}
	val, ok := d.d.Lookup(string(key))
	if !ok {
		return nil, false, nil
	}
	if v, err = ToStarlark(d.ctx, val); err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (d *Dict) SetKey(k, v starlark.Value) error {
	key, ok := k.(starlark.String)
	if !ok {
		return fmt.Errorf("%s keys must be strings, got %s", d.Type(), k.Type())
	}
	return d.set(string(key), v)
}

func (d *Dict) set(key string, v starlark.Value) error {
	val, err := FromStarlark(v)
	if err != nil {
		return err
	}
	if err := d.d.Set(d.ctx, key, val); err != nil {
		if errors.Is(err, dictionary.ErrFrozen) {
			return fmt.Errorf("cannot insert into frozen %s", d.Type())
		}
		return err
	}
	return nil
}

// Items returns (key, value) tuples in key order.
//
// starlark.IterableMapping gives Items no way to report errors, so values
// that can't be converted (only possible when Go code stores them) show up as
// None and are logged. Get reports the same values as errors.
func (d *Dict) Items() []starlark.Tuple {
	pairs := d.d.Items()
	out := make([]starlark.Tuple, 0, len(pairs))
	for _, kv := range pairs {
		v, err := ToStarlark(d.ctx, kv.Value)
		if err != nil {
			logging.Warningf(d.ctx, "Dictionary item %q: %s", kv.Key, err)
			v = starlark.None
		}
		out = append(out, starlark.Tuple{starlark.String(kv.Key), v})
	}
	return out
}

// Keys returns the keys in order.
func (d *Dict) Keys() []starlark.Value {
	keys := d.d.Keys()
	out := make([]starlark.Value, len(keys))
	for i, k := range keys {
		out[i] = starlark.String(k)
	}
	return out
}

// Iterate iterates over a snapshot of the keys.
func (d *Dict) Iterate() starlark.Iterator {
	return &keyIterator{keys: d.d.Keys()}
}

type keyIterator struct {
	keys []string
}

func (it *keyIterator) Next(p *starlark.Value) bool {
	if len(it.keys) == 0 {
		return false
	}
	*p = starlark.String(it.keys[0])
	it.keys = it.keys[1:]
	return true
}

func (it *keyIterator) Done() {}

// Attr implements starlark.HasAttrs.
//
// Functions found in the prototype are bound to the dictionary.
func (d *Dict) Attr(name string) (starlark.Value, error) {
	v, ok := d.d.GetOwnField(name)
	if !ok {
		v = object.GetPrototypeField(dictionary.Type, name)
		if v == nil {
			return nil, nil
		}
	}
	if fn, ok := v.(*object.Function); ok {
		return bindFunction(fn, d.d), nil
	}
	return ToStarlark(d.ctx, v)
}

// AttrNames lists own keys and prototype fields.
func (d *Dict) AttrNames() []string {
	names := append(d.d.Keys(), object.PrototypeFieldNames(dictionary.Type)...)
	sort.Strings(names)
	out := names[:0]
	for i, n := range names {
		if i == 0 || n != names[i-1] {
			out = append(out, n)
		}
	}
	return out
}

// SetField implements starlark.HasSetField.
func (d *Dict) SetField(name string, val starlark.Value) error {
	return d.set(name, val)
}
