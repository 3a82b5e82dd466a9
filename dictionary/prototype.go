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

	"github.com/pkg/errors"

	"github.com/vigilmon/vigil/object"
)

// method wraps a Dictionary method into an object.Function checking the
// receiver and the number of arguments.
func method(name string, nargs int, fn func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error)) Pair {
	return Pair{
		Key: name,
		Value: object.NewFunction(name, func(ctx context.Context, self object.Value, args []object.Value) (object.Value, error) {
			d, ok := self.(*Dictionary)
			if !ok {
				return nil, errors.Errorf("%s: called on %s, want Dictionary", name, object.TypeOf(self))
			}
			if err := object.CheckArgs(name, args, nargs, nargs); err != nil {
				return nil, err
			}
			return fn(ctx, d, args)
		}),
	}
}

func keyArg(fn string, v object.Value) (string, error) {
	key, ok := v.(string)
	if !ok {
		return "", errors.Errorf("%s: key must be a String, got %s", fn, object.TypeOf(v))
	}
	return key, nil
}

// newPrototype returns the frozen prototype with methods available on all
// dictionaries.
func newPrototype() object.FieldGetter {
	proto := New(
		method("len", 0, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			return float64(d.Len()), nil
		}),
		method("set", 2, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			key, err := keyArg("set", args[0])
			if err != nil {
				return nil, err
			}
			return nil, d.Set(ctx, key, args[1])
		}),
		method("get", 1, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			key, err := keyArg("get", args[0])
			if err != nil {
				return nil, err
			}
			return d.Get(key), nil
		}),
		method("remove", 1, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			key, err := keyArg("remove", args[0])
			if err != nil {
				return nil, err
			}
			return nil, d.Remove(ctx, key)
		}),
		method("contains", 1, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			key, err := keyArg("contains", args[0])
			if err != nil {
				return nil, err
			}
			return d.Contains(key), nil
		}),
		method("keys", 0, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			keys := d.Keys()
			out := make([]object.Value, len(keys))
			for i, k := range keys {
				out[i] = k
			}
			return out, nil
		}),
		method("values", 0, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			items := d.Items()
			out := make([]object.Value, len(items))
			for i, kv := range items {
				out[i] = kv.Value
			}
			return out, nil
		}),
		method("clone", 0, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			return d.Clone(), nil
		}),
		method("shallow_clone", 0, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			return d.ShallowClone(), nil
		}),
		method("clear", 0, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			return nil, d.Clear(ctx)
		}),
		method("freeze", 0, func(ctx context.Context, d *Dictionary, args []object.Value) (object.Value, error) {
			d.Freeze(ctx)
			return nil, nil
		}),
	)
	proto.Freeze(context.Background())
	return proto
}
