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

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/maruel/subcommands"
	"github.com/pmezard/go-difflib/difflib"
	"go.starlark.net/starlark"

	"github.com/vigilmon/vigil/codec"
	"github.com/vigilmon/vigil/dictionary"
	"github.com/vigilmon/vigil/scripting"
)

var cmdShow = &subcommands.Command{
	UsageLine: "show [flags] <file>...",
	ShortDesc: "prints documents as dictionaries",
	LongDesc:  "Loads each document and prints it in the dictionary text format.",
	CommandRun: func() subcommands.CommandRun {
		r := &showRun{}
		r.registerBaseFlags()
		return r
	},
}

type showRun struct {
	baseCommandRun
}

func (r *showRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) == 0 {
		return r.argErr(a, "show: at least one file is required")
	}
	ctx := r.context()
	paths, err := expandPaths(args)
	if err != nil {
		return r.done(ctx, err)
	}
	docs, err := r.load(ctx, paths)
	if err != nil {
		return r.done(ctx, err)
	}
	show(r.stdout, paths, docs)
	return 0
}

func show(w io.Writer, paths []string, docs []*dictionary.Dictionary) {
	for i, d := range docs {
		if len(docs) > 1 {
			fmt.Fprintf(w, "# %s\n", paths[i])
		}
		fmt.Fprintf(w, "%s\n", d)
	}
}

var cmdKeys = &subcommands.Command{
	UsageLine: "keys [flags] <file>",
	ShortDesc: "lists keys of a document",
	LongDesc:  "Lists keys of a document in order, optionally only those starting with a prefix.",
	CommandRun: func() subcommands.CommandRun {
		r := &keysRun{}
		r.registerBaseFlags()
		r.Flags.StringVar(&r.prefix, "prefix", "", "Only list keys with this prefix.")
		r.Flags.StringVar(&r.longest, "longest", "", "Print the longest key that is a prefix of this string.")
		return r
	},
}

type keysRun struct {
	baseCommandRun
	prefix  string
	longest string
}

func (r *keysRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 1 {
		return r.argErr(a, "keys: exactly one file is required")
	}
	ctx := r.context()
	d, err := r.loadOne(ctx, args[0])
	if err != nil {
		return r.done(ctx, err)
	}
	return r.done(ctx, listKeys(ctx, r.stdout, d, r.prefix, r.longest))
}

func listKeys(ctx context.Context, w io.Writer, d *dictionary.Dictionary, prefix, longest string) error {
	// The index requires a frozen dictionary, loaded documents are not shared.
	d.Freeze(ctx)
	ix, err := dictionary.NewPrefixIndex(d)
	if err != nil {
		return err
	}
	if longest != "" {
		kv, ok := ix.LongestPrefix(longest)
		if !ok {
			return fmt.Errorf("no key is a prefix of %q", longest)
		}
		fmt.Fprintf(w, "%s\n", kv.Key)
		return nil
	}
	for _, kv := range ix.WithPrefix(prefix) {
		fmt.Fprintf(w, "%s\n", kv.Key)
	}
	return nil
}

var cmdEval = &subcommands.Command{
	UsageLine: "eval [flags] <file> <expression>",
	ShortDesc: "evaluates a Starlark expression against a document",
	LongDesc: `Evaluates a Starlark expression with the document bound to "doc".

Fields are looked up in the document first, then in the dictionary
prototype, e.g. "doc.name", "doc.len()" or "doc.keys()".`,
	CommandRun: func() subcommands.CommandRun {
		r := &evalRun{}
		r.registerBaseFlags()
		return r
	},
}

type evalRun struct {
	baseCommandRun
}

func (r *evalRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 2 {
		return r.argErr(a, "eval: expecting a file and an expression")
	}
	ctx := r.context()
	d, err := r.loadOne(ctx, args[0])
	if err != nil {
		return r.done(ctx, err)
	}
	return r.done(ctx, eval(ctx, r.stdout, d, args[1]))
}

func eval(ctx context.Context, w io.Writer, d *dictionary.Dictionary, expr string) error {
	v, err := scripting.Eval(ctx, expr, starlark.StringDict{
		"doc": scripting.NewDict(ctx, d),
	})
	if err != nil {
		return err
	}
	if s, ok := v.(starlark.String); ok {
		fmt.Fprintf(w, "%s\n", string(s))
	} else {
		fmt.Fprintf(w, "%s\n", v)
	}
	return nil
}

var cmdStat = &subcommands.Command{
	UsageLine: "stat [flags] <file>...",
	ShortDesc: "prints statistics about documents",
	LongDesc:  "Prints the number of keys and the size of the msgpack encoding of each document.",
	CommandRun: func() subcommands.CommandRun {
		r := &statRun{}
		r.registerBaseFlags()
		return r
	},
}

type statRun struct {
	baseCommandRun
}

func (r *statRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) == 0 {
		return r.argErr(a, "stat: at least one file is required")
	}
	ctx := r.context()
	paths, err := expandPaths(args)
	if err != nil {
		return r.done(ctx, err)
	}
	docs, err := r.load(ctx, paths)
	if err != nil {
		return r.done(ctx, err)
	}
	return r.done(ctx, stat(r.stdout, paths, docs))
}

func stat(w io.Writer, paths []string, docs []*dictionary.Dictionary) error {
	for i, d := range docs {
		blob, err := codec.Encode(codec.Msgpack, d)
		if err != nil {
			return fmt.Errorf("%s: %s", paths[i], err)
		}
		state := "mutable"
		if d.Frozen() {
			state = "frozen"
		}
		fmt.Fprintf(w, "%s: %s, %s, %s\n", paths[i],
			plural(d.Len(), "key"), humanize.Bytes(uint64(len(blob))), state)
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), noun)
}

var cmdConvert = &subcommands.Command{
	UsageLine: "convert [flags] -to <format> <file>",
	ShortDesc: "re-encodes a document",
	LongDesc:  "Re-encodes a document as JSON or msgpack with keys in sorted order.",
	CommandRun: func() subcommands.CommandRun {
		r := &convertRun{to: codec.JSON}
		r.registerBaseFlags()
		r.Flags.Var(&r.to, "to", "Output format: json or msgpack.")
		return r
	},
}

type convertRun struct {
	baseCommandRun
	to codec.Format
}

func (r *convertRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 1 {
		return r.argErr(a, "convert: exactly one file is required")
	}
	ctx := r.context()
	d, err := r.loadOne(ctx, args[0])
	if err != nil {
		return r.done(ctx, err)
	}
	blob, err := codec.Encode(r.to, d)
	if err != nil {
		return r.done(ctx, err)
	}
	if _, err := r.stdout.Write(blob); err != nil {
		return r.done(ctx, err)
	}
	if r.to == codec.JSON && !strings.HasSuffix(string(blob), "\n") {
		r.printf("\n")
	}
	return 0
}

var cmdDiff = &subcommands.Command{
	UsageLine: "diff [flags] <file-a> <file-b>",
	ShortDesc: "compares two documents",
	LongDesc: `Prints a unified diff of the dictionary renderings of two documents.

Documents in different formats can be compared. Exits with 1 if they differ.`,
	CommandRun: func() subcommands.CommandRun {
		r := &diffRun{}
		r.registerBaseFlags()
		r.Flags.IntVar(&r.contextLines, "context", 3, "Number of context lines.")
		return r
	},
}

type diffRun struct {
	baseCommandRun
	contextLines int
}

func (r *diffRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 2 {
		return r.argErr(a, "diff: expecting exactly two files")
	}
	ctx := r.context()
	docs, err := r.load(ctx, args)
	if err != nil {
		return r.done(ctx, err)
	}
	out := diff(args[0], args[1], docs[0], docs[1], r.contextLines)
	if out == "" {
		return 0
	}
	r.printf("%s", out)
	return 1
}

// diff returns a unified diff of the renderings of a and b, or "" if they
// are equal.
func diff(nameA, nameB string, a, b *dictionary.Dictionary, contextLines int) string {
	ret, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a.String() + "\n"),
		B:        difflib.SplitLines(b.String() + "\n"),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  contextLines,
		Eol:      "\n",
	})
	if err != nil {
		// Only fails when writing to the internal buffer fails.
		panic(err)
	}
	return ret
}
