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
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/sync/errgroup"

	"github.com/vigilmon/vigil/object"
)

func TestDictionary(t *testing.T) {
	t.Parallel()

	Convey("Dictionary", t, func() {
		ctx := context.Background()
		d := New()

		Convey("Starts empty", func() {
			So(d.Len(), ShouldEqual, 0)
			So(d.Keys(), ShouldBeEmpty)
			So(d.Get("x"), ShouldBeNil)
			So(d.GetRef("x"), ShouldBeNil)
			So(d.Frozen(), ShouldBeFalse)

			var zero Dictionary
			So(zero.Len(), ShouldEqual, 0)
			So(zero.Set(ctx, "a", 1.0), ShouldBeNil)
			So(zero.Get("a"), ShouldEqual, 1.0)
		})

		Convey("Set, Get and Lookup", func() {
			So(d.Set(ctx, "x", 10.0), ShouldBeNil)
			So(d.Get("x"), ShouldEqual, 10.0)

			v, ok := d.Lookup("x")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 10.0)

			v, ok = d.Lookup("y")
			So(ok, ShouldBeFalse)
			So(v, ShouldBeNil)

			Convey("Overwrites", func() {
				So(d.Set(ctx, "x", "ten"), ShouldBeNil)
				So(d.Get("x"), ShouldEqual, "ten")
				So(d.Len(), ShouldEqual, 1)
			})

			Convey("Stores Empty as a present key", func() {
				So(d.Set(ctx, "nil", nil), ShouldBeNil)
				So(d.Contains("nil"), ShouldBeTrue)
				_, ok := d.Lookup("nil")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("GetRef points to the value at the time of the call", func() {
			So(d.Set(ctx, "x", 1.0), ShouldBeNil)
			ref := d.GetRef("x")
			So(ref, ShouldNotBeNil)
			So(*ref, ShouldEqual, 1.0)

			So(d.Set(ctx, "x", 2.0), ShouldBeNil)
			So(*ref, ShouldEqual, 1.0)
			So(*d.GetRef("x"), ShouldEqual, 2.0)
		})

		Convey("Writing through GetRef doesn't change the dictionary", func() {
			So(d.Set(ctx, "x", 10.0), ShouldBeNil)
			d.Freeze(ctx)
			clone := d.ShallowClone()

			*clone.GetRef("x") = 99.0
			*d.GetRef("x") = 99.0
			So(d.Get("x"), ShouldEqual, 10.0)
			So(clone.Get("x"), ShouldEqual, 10.0)
		})

		Convey("Keys are sorted", func() {
			So(d.Set(ctx, "b", 1.0), ShouldBeNil)
			So(d.Set(ctx, "a", 2.0), ShouldBeNil)
			So(d.Keys(), ShouldResemble, []string{"a", "b"})

			So(d.Set(ctx, "B", 3.0), ShouldBeNil)
			So(d.Set(ctx, "", 4.0), ShouldBeNil)
			So(d.Keys(), ShouldResemble, []string{"", "B", "a", "b"})
		})

		Convey("Remove and Clear", func() {
			So(d.Set(ctx, "a", 1.0), ShouldBeNil)
			So(d.Set(ctx, "b", 2.0), ShouldBeNil)

			So(d.Remove(ctx, "a"), ShouldBeNil)
			So(d.Contains("a"), ShouldBeFalse)
			So(d.Len(), ShouldEqual, 1)

			So(d.Remove(ctx, "missing"), ShouldBeNil)
			So(d.Len(), ShouldEqual, 1)

			So(d.Clear(ctx), ShouldBeNil)
			So(d.Len(), ShouldEqual, 0)
			So(d.Contains("b"), ShouldBeFalse)

			So(d.Set(ctx, "c", 3.0), ShouldBeNil)
			So(d.Keys(), ShouldResemble, []string{"c"})
		})

		Convey("Construction", func() {
			Convey("From pairs, last value wins", func() {
				d := New(
					Pair{"b", 1.0},
					Pair{"a", 2.0},
					Pair{"b", 3.0},
				)
				So(d.Keys(), ShouldResemble, []string{"a", "b"})
				So(d.Get("b"), ShouldEqual, 3.0)
			})

			Convey("From a map", func() {
				d := FromMap(map[string]object.Value{"y": 1.0, "x": 2.0})
				So(d.Items(), ShouldResemble, []Pair{{"x", 2.0}, {"y", 1.0}})
			})
		})
	})
}

func TestModel(t *testing.T) {
	t.Parallel()

	Convey("Random operations agree with a Go map", t, func() {
		ctx := context.Background()
		rnd := rand.New(rand.NewSource(42))
		d := New()
		model := map[string]object.Value{}

		for i := 0; i < 2000; i++ {
			key := fmt.Sprintf("k%02d", rnd.Intn(50))
			switch op := rnd.Intn(10); {
			case op < 6:
				So(d.Set(ctx, key, float64(i)), ShouldBeNil)
				model[key] = float64(i)
			case op < 9:
				So(d.Remove(ctx, key), ShouldBeNil)
				delete(model, key)
			default:
				So(d.Clear(ctx), ShouldBeNil)
				model = map[string]object.Value{}
			}

			So(d.Len(), ShouldEqual, len(model))
			_, inModel := model[key]
			So(d.Contains(key), ShouldEqual, inModel)
		}

		keys := make([]string, 0, len(model))
		for k := range model {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) == 0 {
			keys = []string{}
		}
		So(cmp.Diff(keys, d.Keys()), ShouldBeEmpty)
		for _, k := range keys {
			So(d.Get(k), ShouldEqual, model[k])
		}
	})
}

func TestFreeze(t *testing.T) {
	t.Parallel()

	Convey("Frozen dictionary", t, func() {
		ctx := context.Background()
		d := New()
		So(d.Set(ctx, "x", 10.0), ShouldBeNil)
		d.Freeze(ctx)

		Convey("Is frozen forever", func() {
			So(d.Frozen(), ShouldBeTrue)
			d.Freeze(ctx)
			So(d.Frozen(), ShouldBeTrue)
		})

		Convey("Rejects mutations", func() {
			err := d.Set(ctx, "x", 20.0)
			So(errors.Is(err, ErrFrozen), ShouldBeTrue)
			So(err.Error(), ShouldEqual, `set "x": dictionary must not be modified`)
			So(d.Get("x"), ShouldEqual, 10.0)

			So(errors.Is(d.Set(ctx, "y", 1.0), ErrFrozen), ShouldBeTrue)
			So(errors.Is(d.Remove(ctx, "x"), ErrFrozen), ShouldBeTrue)
			So(errors.Is(d.Remove(ctx, "missing"), ErrFrozen), ShouldBeTrue)
			So(errors.Is(d.Clear(ctx), ErrFrozen), ShouldBeTrue)

			So(d.Len(), ShouldEqual, 1)
			So(d.Get("x"), ShouldEqual, 10.0)
		})

		Convey("Can still be read", func() {
			So(d.Contains("x"), ShouldBeTrue)
			So(d.Keys(), ShouldResemble, []string{"x"})
		})
	})

	Convey("Freeze waits for compound operations", t, func() {
		ctx := context.Background()
		d := New()

		lctx, olock := object.Lock(ctx, d)
		frozen := make(chan struct{})
		go func() {
			d.Freeze(ctx)
			close(frozen)
		}()

		// The check-then-set sequence is atomic against Freeze.
		if !d.Contains("x") {
			So(d.Set(lctx, "x", 1.0), ShouldBeNil)
		}
		So(d.Frozen(), ShouldBeFalse)
		olock.Unlock()

		<-frozen
		So(d.Frozen(), ShouldBeTrue)
		So(d.Get("x"), ShouldEqual, 1.0)
	})
}

func TestClone(t *testing.T) {
	t.Parallel()

	Convey("Cloning", t, func() {
		ctx := context.Background()
		inner := New(Pair{"n", 1.0})
		src := New(
			Pair{"inner", inner},
			Pair{"list", []object.Value{1.0, 2.0}},
			Pair{"s", "str"},
		)

		Convey("ShallowClone", func() {
			src.Freeze(ctx)
			c := src.ShallowClone()

			So(c.Frozen(), ShouldBeFalse)
			So(c.Items(), ShouldResemble, src.Items())

			So(c.Set(ctx, "s", "changed"), ShouldBeNil)
			So(c.Remove(ctx, "list"), ShouldBeNil)
			So(src.Get("s"), ShouldEqual, "str")
			So(src.Contains("list"), ShouldBeTrue)

			// Values are shared.
			So(c.Get("inner") == object.Value(inner), ShouldBeTrue)
		})

		Convey("Clone", func() {
			c := src.Clone()

			So(c.Frozen(), ShouldBeFalse)
			So(c.Keys(), ShouldResemble, src.Keys())
			So(c.Get("inner") == object.Value(inner), ShouldBeFalse)

			cInner := c.Get("inner").(*Dictionary)
			So(cInner.Set(ctx, "n", 2.0), ShouldBeNil)
			So(inner.Get("n"), ShouldEqual, 1.0)

			c.Get("list").([]object.Value)[0] = 100.0
			So(src.Get("list").([]object.Value)[0], ShouldEqual, 1.0)

			So(c.CloneValue().(*Dictionary).Keys(), ShouldResemble, src.Keys())
		})

		Convey("CopyTo", func() {
			dest := New(Pair{"keep", true}, Pair{"s", "old"})
			So(src.CopyTo(ctx, dest), ShouldBeNil)
			So(dest.Keys(), ShouldResemble, []string{"inner", "keep", "list", "s"})
			So(dest.Get("s"), ShouldEqual, "str")

			Convey("Into itself", func() {
				So(dest.CopyTo(ctx, dest), ShouldBeNil)
				So(dest.Len(), ShouldEqual, 4)
			})

			Convey("Into a frozen dictionary", func() {
				frozen := New(Pair{"keep", true})
				frozen.Freeze(ctx)
				err := src.CopyTo(ctx, frozen)
				So(errors.Is(err, ErrFrozen), ShouldBeTrue)
				So(frozen.Items(), ShouldResemble, []Pair{{"keep", true}})
			})
		})
	})
}

func TestConcurrency(t *testing.T) {
	t.Parallel()

	Convey("Concurrent access", t, func() {
		ctx := context.Background()

		Convey("Readers agree on a stable dictionary", func() {
			d := New()
			for i := 0; i < 100; i++ {
				So(d.Set(ctx, fmt.Sprintf("k%03d", i), float64(i)), ShouldBeNil)
			}

			eg := errgroup.Group{}
			for w := 0; w < 16; w++ {
				eg.Go(func() error {
					for i := 0; i < 100; i++ {
						key := fmt.Sprintf("k%03d", i)
						if v := d.Get(key); v != float64(i) {
							return errors.Errorf("%s = %v", key, v)
						}
					}
					if d.Len() != 100 {
						return errors.Errorf("len = %d", d.Len())
					}
					return nil
				})
			}
			So(eg.Wait(), ShouldBeNil)
		})

		Convey("Writers of disjoint keys all succeed", func() {
			d := New()
			eg := errgroup.Group{}
			for w := 0; w < 16; w++ {
				eg.Go(func() error {
					for i := 0; i < 50; i++ {
						if err := d.Set(ctx, fmt.Sprintf("w%02d-%02d", w, i), float64(i)); err != nil {
							return err
						}
					}
					return nil
				})
			}
			So(eg.Wait(), ShouldBeNil)
			So(d.Len(), ShouldEqual, 16*50)
			for w := 0; w < 16; w++ {
				for i := 0; i < 50; i++ {
					So(d.Get(fmt.Sprintf("w%02d-%02d", w, i)), ShouldEqual, float64(i))
				}
			}
		})

		Convey("Compound operations under the object lock are atomic", func() {
			d := New(Pair{"counter", 0.0})
			eg := errgroup.Group{}
			for w := 0; w < 8; w++ {
				eg.Go(func() error {
					for i := 0; i < 50; i++ {
						lctx, olock := object.Lock(ctx, d)
						n := d.Get("counter").(float64)
						err := d.Set(lctx, "counter", n+1)
						olock.Unlock()
						if err != nil {
							return err
						}
					}
					return nil
				})
			}
			So(eg.Wait(), ShouldBeNil)
			So(d.Get("counter"), ShouldEqual, 400.0)
		})

		Convey("Mutations race with Freeze without tearing", func() {
			d := New()
			eg := errgroup.Group{}
			for w := 0; w < 4; w++ {
				eg.Go(func() error {
					for i := 0; i < 200; i++ {
						err := d.Set(ctx, fmt.Sprintf("w%d", w), float64(i))
						if errors.Is(err, ErrFrozen) {
							return nil
						}
						if err != nil {
							return err
						}
					}
					return nil
				})
			}
			eg.Go(func() error {
				d.Freeze(ctx)
				return nil
			})
			So(eg.Wait(), ShouldBeNil)

			before := d.Items()
			for w := 0; w < 4; w++ {
				So(errors.Is(d.Set(ctx, fmt.Sprintf("w%d", w), -1.0), ErrFrozen), ShouldBeTrue)
			}
			So(d.Items(), ShouldResemble, before)
		})
	})
}

func TestString(t *testing.T) {
	t.Parallel()

	Convey("String uses the config syntax", t, func() {
		d := New(
			Pair{"name", "db1"},
			Pair{"vars", New(Pair{"port", 5432.0})},
		)
		So(d.String(), ShouldEqual, "{\n\tname = \"db1\"\n\tvars = {\n\t\tport = 5432\n\t}\n}")
		So(New().String(), ShouldEqual, "{\n}")
	})

	Convey("String handles deep nesting", t, func() {
		const depth = 300
		root := New(Pair{"x", 1.0})
		for i := 0; i < depth; i++ {
			root = New(Pair{"n", root})
		}
		out := root.String()
		So(out, ShouldContainSubstring, "\n"+strings.Repeat("\t", depth+1)+"x = 1\n")
		So(strings.Count(out, "{"), ShouldEqual, depth+1)
	})
}
