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

// Package scripting exposes dictionaries to Starlark scripts.
//
// A *dictionary.Dictionary is visible to scripts as a Dict value supporting
// both field access (d.key, d.len()) and indexing (d["key"]). Field lookups
// fall back to the dictionary prototype, the same way GetField does.
package scripting

import (
	"context"
	"fmt"
	"math"

	"go.starlark.net/starlark"

	"github.com/vigilmon/vigil/dictionary"
	"github.com/vigilmon/vigil/object"
)

// ToStarlark converts a runtime value to a Starlark value.
//
// Numbers with an integral value become starlark.Int, other numbers become
// starlark.Float. ctx is used by mutations performed by the script through the
// returned dicts.
func ToStarlark(ctx context.Context, v object.Value) (starlark.Value, error) {
	switch v := v.(type) {
	case nil:
		return starlark.None, nil
	case bool:
		return starlark.Bool(v), nil
	case string:
		return starlark.String(v), nil
	case *dictionary.Dictionary:
		return NewDict(ctx, v), nil
	case *object.Function:
		return bindFunction(v, object.Empty), nil
	case []object.Value:
		elems := make([]starlark.Value, len(v))
		for i, item := range v {
			var err error
			if elems[i], err = ToStarlark(ctx, item); err != nil {
				return nil, fmt.Errorf("[%d]: %s", i, err)
			}
		}
		return starlark.NewList(elems), nil
	}
	if f, ok := object.ToNumber(v); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return starlark.MakeInt64(int64(f)), nil
		}
		return starlark.Float(f), nil
	}
	return nil, fmt.Errorf("can't convert %s to a Starlark value", object.TypeOf(v))
}

// FromStarlark converts a Starlark value to a runtime value.
//
// Regular Starlark dicts are converted to new dictionaries and must have
// string keys.
func FromStarlark(v starlark.Value) (object.Value, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return object.Empty, nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.String:
		return string(v), nil
	case starlark.Int:
		return float64(v.Float()), nil
	case starlark.Float:
		return float64(v), nil
	case *Dict:
		return v.d, nil
	case *starlark.Dict:
		pairs := make([]dictionary.Pair, 0, v.Len())
		for _, kv := range v.Items() {
			key, ok := kv[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dictionary keys must be strings, got %s", kv[0].Type())
			}
			val, err := FromStarlark(kv[1])
			if err != nil {
				return nil, fmt.Errorf("%q: %s", string(key), err)
			}
			pairs = append(pairs, dictionary.Pair{Key: string(key), Value: val})
		}
		return dictionary.FromPairs(pairs), nil
	case *starlark.List, starlark.Tuple:
		var out []object.Value
		iter := starlark.Iterate(v)
		defer iter.Done()
		var item starlark.Value
		for i := 0; iter.Next(&item); i++ {
			conv, err := FromStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %s", i, err)
			}
			out = append(out, conv)
		}
		if out == nil {
			out = []object.Value{}
		}
		return out, nil
	}
	return nil, fmt.Errorf("can't convert %s to a runtime value", v.Type())
}

// bindFunction wraps a native function into a Starlark builtin called with the
// given receiver.
func bindFunction(fn *object.Function, self object.Value) *starlark.Builtin {
	return starlark.NewBuiltin(fn.Name, func(th *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
		}
		conv := make([]object.Value, len(args))
		for i, arg := range args {
			var err error
			if conv[i], err = FromStarlark(arg); err != nil {
				return nil, fmt.Errorf("%s: argument #%d: %s", b.Name(), i+1, err)
			}
		}
		ctx := Context(th)
		res, err := fn.Invoke(ctx, self, conv...)
		if err != nil {
			return nil, err
		}
		return ToStarlark(ctx, res)
	})
}
