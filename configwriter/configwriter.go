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

// Package configwriter renders runtime values in the monitoring config syntax.
//
// The output is meant for humans (debug output, error messages), it is not a
// stable serialization format.
package configwriter

import (
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/vigilmon/vigil/object"
)

// Scope is a keyed collection rendered as a `{ key = value }` block.
type Scope interface {
	Keys() []string
	Lookup(key string) (object.Value, bool)
}

// keywords can't be used as bare identifiers.
var keywords = map[string]bool{
	"object": true, "template": true, "include": true, "include_recursive": true,
	"include_zones": true, "library": true, "null": true, "true": true,
	"false": true, "const": true, "var": true, "this": true, "globals": true,
	"locals": true, "use": true, "__using": true, "default": true,
	"ignore_on_error": true, "current_filename": true, "current_line": true,
	"apply": true, "to": true, "where": true, "import": true, "assign": true,
	"ignore": true, "function": true, "return": true, "break": true,
	"continue": true, "for": true, "if": true, "else": true, "while": true,
	"throw": true, "try": true, "except": true, "in": true,
}

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
	"\b", `\b`,
	"\f", `\f`,
)

// EmitScope writes s as a scope block.
//
// indent is the nesting level of the entries; the closing brace is indented
// one level less.
func EmitScope(w io.Writer, indent int, s Scope) error {
	iw := &Writer{W: w, Level: max(indent-1, 0)}
	emitScope(iw, s)
	return iw.Err()
}

// EmitValue writes a single value at the given nesting level.
func EmitValue(w io.Writer, indent int, v object.Value) error {
	iw := &Writer{W: w, Level: max(indent-1, 0)}
	emitValue(iw, v)
	return iw.Err()
}

// EmitIdentifier writes name as an identifier, escaping keywords with '@' and
// quoting names that are not valid identifiers.
func EmitIdentifier(w io.Writer, name string) error {
	_, err := io.WriteString(w, identifier(name))
	return err
}

// EmitString writes a quoted, escaped string literal.
func EmitString(w io.Writer, s string) error {
	_, err := io.WriteString(w, quote(s))
	return err
}

func identifier(name string) string {
	switch {
	case keywords[name]:
		return "@" + name
	case identifierRe.MatchString(name):
		return name
	default:
		return quote(name)
	}
}

func quote(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

func number(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func emitScope(w *Writer, s Scope) {
	w.WriteString("{\n")
	w.Level++
	for _, key := range s.Keys() {
		v, ok := s.Lookup(key)
		if !ok {
			continue // removed concurrently
		}
		w.WriteString(identifier(key))
		w.WriteString(" = ")
		emitValue(w, v)
		w.WriteString("\n")
	}
	w.Level--
	w.WriteString("}")
}

func emitArray(w *Writer, arr []object.Value) {
	if len(arr) == 0 {
		w.WriteString("[ ]")
		return
	}
	w.WriteString("[ ")
	for i, v := range arr {
		if i > 0 {
			w.WriteString(", ")
		}
		emitValue(w, v)
	}
	w.WriteString(" ]")
}

func emitValue(w *Writer, v object.Value) {
	switch v := v.(type) {
	case nil:
		w.WriteString("null")
	case bool:
		w.WriteString(strconv.FormatBool(v))
	case string:
		w.WriteString(quote(v))
	case []object.Value:
		emitArray(w, v)
	case Scope:
		emitScope(w, v)
	case *object.Function:
		w.WriteString("{{{ native code: " + v.Name + " }}}")
	default:
		if f, ok := object.ToNumber(v); ok {
			w.WriteString(number(f))
		} else {
			w.WriteString(quote(object.TypeOf(v)))
		}
	}
}
