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
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// FieldGetter exposes the own fields of a value, without prototype fallback.
type FieldGetter interface {
	GetOwnField(name string) (Value, bool)
}

// Fields is a static FieldGetter, useful for prototypes of types that are not
// dictionaries themselves.
type Fields map[string]Value

// GetOwnField implements FieldGetter.
func (f Fields) GetOwnField(name string) (Value, bool) {
	v, ok := f[name]
	return v, ok
}

// Keys returns the field names, sorted.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Type is a runtime type.
//
// Types form a single inheritance chain through Base. The prototype of a type
// supplies fields (usually methods) for values that don't have an own field
// with that name.
type Type struct {
	Name string
	Base *Type

	// NewPrototype builds the prototype. It is called once, lazily.
	NewPrototype func() FieldGetter

	once  sync.Once
	proto FieldGetter
}

// Prototype returns the prototype of the type, or nil if it has none.
func (t *Type) Prototype() FieldGetter {
	t.once.Do(func() {
		if t.NewPrototype != nil {
			t.proto = t.NewPrototype()
		}
	})
	return t.proto
}

// String returns the type name.
func (t *Type) String() string { return t.Name }

var registry struct {
	sync.RWMutex
	types map[string]*Type
}

// RegisterType adds t to the global type registry and returns it.
//
// Panics if a type with the same name is already registered. Meant to be
// called during init.
func RegisterType(t *Type) *Type {
	registry.Lock()
	defer registry.Unlock()
	if registry.types == nil {
		registry.types = map[string]*Type{}
	}
	if _, ok := registry.types[t.Name]; ok {
		panic(fmt.Sprintf("type %q is already registered", t.Name))
	}
	registry.types[t.Name] = t
	return t
}

// LookupType returns a registered type or nil.
func LookupType(name string) *Type {
	registry.RLock()
	defer registry.RUnlock()
	return registry.types[name]
}

// TypeNames returns sorted names of all registered types.
func TypeNames() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.types))
	for name := range registry.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPrototypeField resolves a field through the prototypes of t and its
// bases.
//
// Returns Empty if none of the prototypes has the field.
func GetPrototypeField(t *Type, name string) Value {
	for ; t != nil; t = t.Base {
		proto := t.Prototype()
		if proto == nil {
			continue
		}
		if v, ok := proto.GetOwnField(name); ok {
			return v
		}
	}
	return Empty
}

// PrototypeFieldNames lists the fields reachable through the prototypes of t
// and its bases, sorted and deduplicated.
//
// Prototypes that can't enumerate their fields are skipped.
func PrototypeFieldNames(t *Type) []string {
	seen := map[string]struct{}{}
	for ; t != nil; t = t.Base {
		if proto, ok := t.Prototype().(interface{ Keys() []string }); ok {
			for _, k := range proto.Keys() {
				seen[k] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NativeFunc implements a Function. self is the value the function was looked
// up on, or Empty for unbound calls.
type NativeFunc func(ctx context.Context, self Value, args []Value) (Value, error)

// Function is a native function value, typically a prototype method.
type Function struct {
	Name string
	Fn   NativeFunc
}

// NewFunction returns a new *Function.
func NewFunction(name string, fn NativeFunc) *Function {
	return &Function{Name: name, Fn: fn}
}

// Invoke calls the function.
func (f *Function) Invoke(ctx context.Context, self Value, args ...Value) (Value, error) {
	return f.Fn(ctx, self, args)
}

// ReflectionType implements Typed.
func (f *Function) ReflectionType() *Type { return FunctionType }

func (f *Function) String() string {
	return fmt.Sprintf("function %s", f.Name)
}

// CheckArgs returns an error unless len(args) is within [lo, hi].
func CheckArgs(fn string, args []Value, lo, hi int) error {
	switch {
	case len(args) < lo:
		return errors.Errorf("%s: too few arguments (got %d, want at least %d)", fn, len(args), lo)
	case len(args) > hi:
		return errors.Errorf("%s: too many arguments (got %d, want at most %d)", fn, len(args), hi)
	}
	return nil
}

var (
	// ObjectType is the root of the type hierarchy.
	ObjectType = RegisterType(&Type{
		Name: "Object",
	})

	// FunctionType is the type of *Function values.
	FunctionType = RegisterType(&Type{
		Name: "Function",
		Base: ObjectType,
	})
)

func init() {
	ObjectType.NewPrototype = objectPrototype
}

func objectPrototype() FieldGetter {
	return Fields{
		"type": NewFunction("type", func(ctx context.Context, self Value, args []Value) (Value, error) {
			if err := CheckArgs("type", args, 0, 0); err != nil {
				return nil, err
			}
			return TypeOf(self), nil
		}),
		"to_string": NewFunction("to_string", func(ctx context.Context, self Value, args []Value) (Value, error) {
			if err := CheckArgs("to_string", args, 0, 0); err != nil {
				return nil, err
			}
			if s, ok := self.(fmt.Stringer); ok {
				return s.String(), nil
			}
			return fmt.Sprint(self), nil
		}),
	}
}
