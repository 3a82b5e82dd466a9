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
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vigilmon/vigil/object"
)

var (
	_ json.Marshaler        = (*Dictionary)(nil)
	_ json.Unmarshaler      = (*Dictionary)(nil)
	_ msgpack.CustomEncoder = (*Dictionary)(nil)
	_ msgpack.CustomDecoder = (*Dictionary)(nil)
)

// FromNative converts a decoded document (as produced by JSON, YAML or msgpack
// decoders) to runtime values.
//
// Objects become dictionaries, lists become arrays and all numbers become
// float64.
func FromNative(v any) (object.Value, error) {
	switch v := v.(type) {
	case nil, bool, string, *Dictionary, *object.Function:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, errors.Wrapf(err, "bad number %q", v)
		}
		return f, nil
	case []any:
		out := make([]object.Value, len(v))
		for i, item := range v {
			var err error
			if out[i], err = FromNative(item); err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
		}
		return out, nil
	case map[string]any:
		var s store
		for key, item := range v {
			conv, err := FromNative(item)
			if err != nil {
				return nil, errors.Wrapf(err, "%q", key)
			}
			s = s.set(key, conv)
		}
		return &Dictionary{data: s}, nil
	case map[any]any:
		var s store
		for key, item := range v {
			skey := fmt.Sprint(key)
			conv, err := FromNative(item)
			if err != nil {
				return nil, errors.Wrapf(err, "%q", skey)
			}
			s = s.set(skey, conv)
		}
		return &Dictionary{data: s}, nil
	}
	if f, ok := object.ToNumber(v); ok {
		return f, nil
	}
	return nil, errors.Errorf("unsupported value of type %T", v)
}

// replace swaps the content of the dictionary with the given one.
func (d *Dictionary) replace(ctx context.Context, op string, src *Dictionary) error {
	data := src.snapshot()
	return d.mutate(ctx, op, func(store) store { return data })
}

// MarshalJSON implements json.Marshaler. Keys are written in sorted order.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for i, kv := range d.Items() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", kv.Key)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, replacing the whole content.
//
// Fails with ErrFrozen if the dictionary is frozen.
func (d *Dictionary) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	v, err := FromNative(raw)
	if err != nil {
		return err
	}
	return d.replace(context.Background(), "unmarshal", v.(*Dictionary))
}

// EncodeMsgpack implements msgpack.CustomEncoder. Keys are written in sorted
// order, so equal dictionaries always produce equal bytes.
func (d *Dictionary) EncodeMsgpack(enc *msgpack.Encoder) error {
	items := d.Items()
	if err := enc.EncodeMapLen(len(items)); err != nil {
		return err
	}
	for _, kv := range items {
		if err := enc.EncodeString(kv.Key); err != nil {
			return err
		}
		if err := encodeMsgpackValue(enc, kv.Value); err != nil {
			return errors.Wrapf(err, "key %q", kv.Key)
		}
	}
	return nil
}

func encodeMsgpackValue(enc *msgpack.Encoder, v object.Value) error {
	switch v := v.(type) {
	case nil:
		return enc.EncodeNil()
	case bool:
		return enc.EncodeBool(v)
	case string:
		return enc.EncodeString(v)
	case *Dictionary:
		return v.EncodeMsgpack(enc)
	case []object.Value:
		if err := enc.EncodeArrayLen(len(v)); err != nil {
			return err
		}
		for i, item := range v {
			if err := encodeMsgpackValue(enc, item); err != nil {
				return errors.Wrapf(err, "[%d]", i)
			}
		}
		return nil
	}
	if f, ok := object.ToNumber(v); ok {
		return enc.EncodeFloat64(f)
	}
	return errors.Errorf("can't encode a value of type %s", object.TypeOf(v))
}

// DecodeMsgpack implements msgpack.CustomDecoder, replacing the whole content.
//
// Fails with ErrFrozen if the dictionary is frozen.
func (d *Dictionary) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	v, err := FromNative(raw)
	if err != nil {
		return err
	}
	src, ok := v.(*Dictionary)
	if !ok {
		return errors.Errorf("expected a map, got %s", object.TypeOf(v))
	}
	return d.replace(context.Background(), "decode", src)
}
