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

package scripting

import (
	"context"
	"fmt"

	"go.starlark.net/starlark"

	"github.com/vigilmon/vigil/dictionary"
	"github.com/vigilmon/vigil/logging"
)

// Key of context.Context inside starlark.Thread's local store.
const threadCtxKey = "scripting.Context"

// Thread creates a new Starlark thread associated with the given context.
//
// print(...) goes to the context logger at Info level.
func Thread(ctx context.Context) *starlark.Thread {
	th := &starlark.Thread{
		Print: func(th *starlark.Thread, msg string) {
			pos := th.CallFrame(1).Pos
			logging.Infof(ctx, "[%s:%d] %s", pos.Filename(), pos.Line, msg)
		},
	}
	th.SetLocal(threadCtxKey, ctx)
	return th
}

// Context returns the context of a thread created by Thread, or
// context.Background() for other threads.
func Context(th *starlark.Thread) context.Context {
	if ctx, ok := th.Local(threadCtxKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// Builtins are symbols available to all scripts run through Exec.
var Builtins = starlark.StringDict{
	"dictionary": Constructor,
}

// Constructor is dictionary(...) builtin.
//
//	def dictionary(mapping=None, **kwargs):
//	  """Returns a new dictionary.
//
//	  Args:
//	    mapping: a dict or a dictionary to copy entries from.
//	    **kwargs: additional entries, they override entries in mapping.
//	  """
var Constructor = starlark.NewBuiltin("dictionary", func(th *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%s: got %d positional arguments, want at most 1", fn.Name(), len(args))
	}
	ctx := Context(th)
	d := dictionary.New()
	out := NewDict(ctx, d)

	if len(args) == 1 && args[0] != starlark.None {
		m, ok := args[0].(starlark.IterableMapping)
		if !ok {
			return nil, fmt.Errorf("%s: got %s, want a mapping", fn.Name(), args[0].Type())
		}
		for _, kv := range m.Items() {
			if err := out.SetKey(kv[0], kv[1]); err != nil {
				return nil, fmt.Errorf("%s: %s", fn.Name(), err)
			}
		}
	}
	for _, kv := range kwargs {
		if err := out.SetKey(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("%s: %s", fn.Name(), err)
		}
	}
	return out, nil
})

// Exec executes a script with Builtins and the given predeclared symbols.
//
// Returns the globals defined by the script. They are frozen, along with all
// dictionaries reachable from them.
func Exec(ctx context.Context, filename string, src any, predeclared starlark.StringDict) (starlark.StringDict, error) {
	predecl := make(starlark.StringDict, len(Builtins)+len(predeclared))
	for k, v := range Builtins {
		predecl[k] = v
	}
	for k, v := range predeclared {
		predecl[k] = v
	}
	logging.Debugf(ctx, "Executing %s", filename)
	return starlark.ExecFile(Thread(ctx), filename, src, predecl)
}

// Eval evaluates a single expression.
func Eval(ctx context.Context, expr string, env starlark.StringDict) (starlark.Value, error) {
	predecl := make(starlark.StringDict, len(Builtins)+len(env))
	for k, v := range Builtins {
		predecl[k] = v
	}
	for k, v := range env {
		predecl[k] = v
	}
	return starlark.Eval(Thread(ctx), "<expr>", expr, predecl)
}
