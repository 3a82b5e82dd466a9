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

// Package object implements the value model shared by all runtime objects:
// dynamically typed values, the per-object lock protocol and the type
// registry that supplies prototype fields.
package object

import (
	"fmt"
)

// Value is a dynamically typed runtime value.
//
// The runtime understands the following representations:
//   - nil (Empty)
//   - bool
//   - float64 (and any other Go numeric type, treated as a Number)
//   - string
//   - []Value (Array)
//   - *Function
//   - any type implementing Typed (e.g. dictionaries)
type Value = any

// Empty is the value returned for missing entries.
var Empty Value = nil

// Cloner is implemented by compound values that support deep copies.
type Cloner interface {
	// CloneValue returns an independent deep copy of the value.
	CloneValue() Value
}

// Typed is implemented by values that carry a runtime type.
type Typed interface {
	ReflectionType() *Type
}

// Clone returns a deep copy of v.
//
// Values implementing Cloner are asked to clone themselves, arrays are copied
// element by element, everything else is immutable and returned as is.
func Clone(v Value) Value {
	switch v := v.(type) {
	case Cloner:
		return v.CloneValue()
	case []Value:
		if v == nil {
			return []Value(nil)
		}
		out := make([]Value, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// IsEmpty is true if v is the Empty value.
func IsEmpty(v Value) bool {
	return v == nil
}

// ToNumber converts numeric Go values to float64.
func ToNumber(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// TypeOf returns the name of the runtime type of v, as shown to scripts.
func TypeOf(v Value) string {
	switch v := v.(type) {
	case nil:
		return "Empty"
	case bool:
		return "Boolean"
	case string:
		return "String"
	case []Value:
		return "Array"
	case *Function:
		return FunctionType.Name
	case Typed:
		return v.ReflectionType().Name
	}
	if _, ok := ToNumber(v); ok {
		return "Number"
	}
	return fmt.Sprintf("%T", v)
}
