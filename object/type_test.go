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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type cloneCounter struct {
	clones *int
}

func (c cloneCounter) CloneValue() Value {
	*c.clones++
	return cloneCounter{c.clones}
}

func TestValues(t *testing.T) {
	t.Parallel()

	Convey("Clone", t, func() {
		Convey("Scalars are returned as is", func() {
			So(Clone(nil), ShouldBeNil)
			So(Clone(1.5), ShouldEqual, 1.5)
			So(Clone("abc"), ShouldEqual, "abc")
			So(Clone(true), ShouldEqual, true)
		})

		Convey("Arrays are copied deeply", func() {
			clones := 0
			inner := []Value{1.0, 2.0}
			src := []Value{inner, cloneCounter{&clones}}

			out := Clone(src).([]Value)
			So(out, ShouldHaveLength, 2)
			So(clones, ShouldEqual, 1)

			out[0].([]Value)[0] = 100.0
			So(inner[0], ShouldEqual, 1.0)
		})
	})

	Convey("TypeOf", t, func() {
		So(TypeOf(nil), ShouldEqual, "Empty")
		So(TypeOf(true), ShouldEqual, "Boolean")
		So(TypeOf(1.0), ShouldEqual, "Number")
		So(TypeOf(int64(1)), ShouldEqual, "Number")
		So(TypeOf("x"), ShouldEqual, "String")
		So(TypeOf([]Value{}), ShouldEqual, "Array")
		So(TypeOf(NewFunction("f", nil)), ShouldEqual, "Function")
	})
}

func TestTypes(t *testing.T) {
	t.Parallel()

	Convey("Prototype fallback", t, func() {
		ctx := context.Background()
		base := &Type{
			Name: "Base",
			Base: ObjectType,
			NewPrototype: func() FieldGetter {
				return Fields{"greet": "hello", "shadowed": "base"}
			},
		}
		derived := &Type{
			Name: "Derived",
			Base: base,
			NewPrototype: func() FieldGetter {
				return Fields{"shadowed": "derived"}
			},
		}

		Convey("Walks the base chain", func() {
			So(GetPrototypeField(derived, "greet"), ShouldEqual, "hello")
			So(GetPrototypeField(derived, "shadowed"), ShouldEqual, "derived")
			So(GetPrototypeField(base, "shadowed"), ShouldEqual, "base")
		})

		Convey("Reaches the Object prototype", func() {
			fn, ok := GetPrototypeField(derived, "type").(*Function)
			So(ok, ShouldBeTrue)
			res, err := fn.Invoke(ctx, "abc")
			So(err, ShouldBeNil)
			So(res, ShouldEqual, "String")

			_, err = fn.Invoke(ctx, "abc", 1.0)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "too many arguments")
		})

		Convey("Returns Empty for unknown fields", func() {
			So(GetPrototypeField(derived, "missing"), ShouldBeNil)
			So(GetPrototypeField(nil, "missing"), ShouldBeNil)
		})

		Convey("Lists field names", func() {
			So(PrototypeFieldNames(derived), ShouldResemble, []string{
				"greet", "shadowed", "to_string", "type",
			})
		})
	})

	Convey("Registry", t, func() {
		So(LookupType("Object"), ShouldEqual, ObjectType)
		So(LookupType("Function"), ShouldEqual, FunctionType)
		So(LookupType("NoSuchType"), ShouldBeNil)
		So(TypeNames(), ShouldContain, "Object")
		So(func() { RegisterType(&Type{Name: "Object"}) }, ShouldPanic)
	})
}
