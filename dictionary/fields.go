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

	"github.com/vigilmon/vigil/object"
)

// GetField returns the value of an own key or, failing that, a field of the
// Dictionary prototype (usually a method). Returns object.Empty if neither
// exists.
func (d *Dictionary) GetField(name string) object.Value {
	if v, ok := d.Lookup(name); ok {
		return v
	}
	return object.GetPrototypeField(Type, name)
}

// SetField is the same as Set.
func (d *Dictionary) SetField(ctx context.Context, name string, value object.Value) error {
	return d.Set(ctx, name, value)
}

// HasOwnField is true if the dictionary has the key. Prototype fields are not
// considered.
func (d *Dictionary) HasOwnField(name string) bool {
	return d.Contains(name)
}

// GetOwnField implements object.FieldGetter.
func (d *Dictionary) GetOwnField(name string) (object.Value, bool) {
	return d.Lookup(name)
}
