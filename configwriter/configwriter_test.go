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

package configwriter

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vigilmon/vigil/object"
)

type mapScope map[string]object.Value

func (m mapScope) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m mapScope) Lookup(key string) (object.Value, bool) {
	v, ok := m[key]
	return v, ok
}

type failingWriter struct{ calls int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.calls++
	return 0, errors.New("boom")
}

func TestWriter(t *testing.T) {
	t.Parallel()

	Convey("Writer", t, func() {
		buf := &bytes.Buffer{}
		w := &Writer{W: buf, Level: 1}

		Convey("Indents every line", func() {
			w.WriteString("a\nb")
			w.WriteString("c\n")
			w.Level = 2
			w.WriteString("d\n")
			So(buf.String(), ShouldEqual, "\ta\n\tbc\n\t\td\n")
		})

		Convey("Indents deeply nested lines", func() {
			w.Level = 300
			w.WriteString("a\n")
			So(buf.String(), ShouldEqual, strings.Repeat("\t", 300)+"a\n")
		})

		Convey("Doesn't indent blank lines", func() {
			w.WriteString("a\n\nb\n")
			So(buf.String(), ShouldEqual, "\ta\n\n\tb\n")
		})

		Convey("Remembers errors", func() {
			fw := &failingWriter{}
			w := &Writer{W: fw}
			_, err := w.WriteString("a")
			So(err, ShouldNotBeNil)
			_, err = w.WriteString("b")
			So(err, ShouldNotBeNil)
			So(fw.calls, ShouldEqual, 1)
			So(w.Err(), ShouldNotBeNil)
		})
	})
}

func TestEmit(t *testing.T) {
	t.Parallel()

	render := func(s Scope) string {
		buf := &bytes.Buffer{}
		So(EmitScope(buf, 1, s), ShouldBeNil)
		return buf.String()
	}

	Convey("EmitScope", t, func() {
		Convey("Empty", func() {
			So(render(mapScope{}), ShouldEqual, "{\n}")
		})

		Convey("Scalars", func() {
			So(render(mapScope{
				"str":   "a \"quoted\"\nline",
				"num":   10.0,
				"frac":  0.25,
				"int":   int64(-3),
				"yes":   true,
				"empty": nil,
			}), ShouldEqual, strings.Join([]string{
				"{",
				"\tempty = null",
				"\tfrac = 0.25",
				"\tint = -3",
				"\tnum = 10",
				"\tstr = \"a \\\"quoted\\\"\\nline\"",
				"\tyes = true",
				"}",
			}, "\n"))
		})

		Convey("Identifiers", func() {
			So(render(mapScope{
				"object":    1.0,
				"with-dash": 2.0,
				"_ok1":      3.0,
			}), ShouldEqual, strings.Join([]string{
				"{",
				"\t_ok1 = 3",
				"\t@object = 1",
				"\t\"with-dash\" = 2",
				"}",
			}, "\n"))
		})

		Convey("Nested", func() {
			So(render(mapScope{
				"vars": mapScope{
					"disks": []object.Value{"/", "/var"},
					"inner": mapScope{"x": 1.0},
				},
				"list": []object.Value{},
				"fn":   object.NewFunction("len", nil),
			}), ShouldEqual, strings.Join([]string{
				"{",
				"\tfn = {{{ native code: len }}}",
				"\tlist = [ ]",
				"\tvars = {",
				"\t\tdisks = [ \"/\", \"/var\" ]",
				"\t\tinner = {",
				"\t\t\tx = 1",
				"\t\t}",
				"\t}",
				"}",
			}, "\n"))
		})
	})

	Convey("EmitValue", t, func() {
		buf := &bytes.Buffer{}
		So(EmitValue(buf, 1, []object.Value{1.5, "x", nil}), ShouldBeNil)
		So(buf.String(), ShouldEqual, `[ 1.5, "x", null ]`)
	})

	Convey("EmitIdentifier", t, func() {
		buf := &bytes.Buffer{}
		So(EmitIdentifier(buf, "if"), ShouldBeNil)
		So(buf.String(), ShouldEqual, "@if")
	})
}
