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
	"strings"

	"github.com/vigilmon/vigil/configwriter"
	"github.com/vigilmon/vigil/object"
)

// ShallowClone returns a new, mutable dictionary with the same pairs.
//
// Values are shared with the original dictionary, not copied.
func (d *Dictionary) ShallowClone() *Dictionary {
	return &Dictionary{data: d.snapshot()}
}

// Clone returns a new, mutable dictionary with deep copies of all values.
//
// The set of pairs is a consistent snapshot, but values are cloned after the
// data lock is released, so cloning of a value races with concurrent
// modifications of that value.
func (d *Dictionary) Clone() *Dictionary {
	pairs := d.snapshot().pairs()
	for i := range pairs {
		pairs[i].Value = object.Clone(pairs[i].Value)
	}
	return FromPairs(pairs)
}

// CloneValue implements object.Cloner.
func (d *Dictionary) CloneValue() object.Value {
	return d.Clone()
}

// CopyTo sets all pairs of d in dest, using dest.Set.
//
// Stops at the first error, e.g. ErrFrozen if dest is frozen. Pairs copied
// before the error stay in dest.
func (d *Dictionary) CopyTo(ctx context.Context, dest *Dictionary) error {
	for _, kv := range d.snapshot().pairs() {
		if err := dest.Set(ctx, kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return nil
}

// String renders the dictionary in the config syntax.
//
// It's meant for debugging and messages, not for persistence.
func (d *Dictionary) String() string {
	var sb strings.Builder
	configwriter.EmitScope(&sb, 1, d.ShallowClone())
	return sb.String()
}
