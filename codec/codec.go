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

// Package codec converts documents in various formats to and from runtime
// values.
package codec

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v2"

	"github.com/vigilmon/vigil/dictionary"
	"github.com/vigilmon/vigil/object"
)

// Format is a document format.
type Format string

// Supported formats.
//
// JSON5 documents may have comments, unquoted keys and trailing commas, but
// strings must be double-quoted.
const (
	JSON    Format = "json"
	JSON5   Format = "json5"
	YAML    Format = "yaml"
	Msgpack Format = "msgpack"
)

// Formats lists all supported formats.
var Formats = []Format{JSON, JSON5, YAML, Msgpack}

// Set implements flag.Value.
func (f *Format) Set(v string) error {
	for _, known := range Formats {
		if Format(strings.ToLower(v)) == known {
			*f = known
			return nil
		}
	}
	return errors.Errorf("unknown format %q", v)
}

func (f *Format) String() string { return string(*f) }

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".json5":
		return JSON5, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".msgpack", ".mpk":
		return Msgpack, nil
	}
	return "", errors.Errorf("can't guess the format of %q", path)
}

// Decode parses a document.
//
// Objects become *dictionary.Dictionary, lists []object.Value and numbers
// float64.
func Decode(f Format, blob []byte) (object.Value, error) {
	var raw any
	var err error
	switch f {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(blob))
		dec.UseNumber()
		err = dec.Decode(&raw)
	case JSON5:
		err = json5.Unmarshal(blob, &raw)
	case YAML:
		err = yaml.Unmarshal(blob, &raw)
	case Msgpack:
		raw, err = msgpack.NewDecoder(bytes.NewReader(blob)).DecodeInterface()
	default:
		return nil, errors.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", f)
	}
	v, err := dictionary.FromNative(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s", f)
	}
	return v, nil
}

// DecodeDictionary parses a document that must be an object.
func DecodeDictionary(f Format, blob []byte) (*dictionary.Dictionary, error) {
	v, err := Decode(f, blob)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*dictionary.Dictionary)
	if !ok {
		return nil, errors.Errorf("the document is %s, not a Dictionary", object.TypeOf(v))
	}
	return d, nil
}

// Encode serializes a value. Only JSON and msgpack are supported.
//
// Dictionary keys are written in sorted order, so the output is
// deterministic.
func Encode(f Format, v object.Value) ([]byte, error) {
	switch f {
	case JSON:
		return json.Marshal(v)
	case Msgpack:
		buf := bytes.Buffer{}
		if err := msgpack.NewEncoder(&buf).Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errors.Errorf("encoding to %s is not supported", f)
}
