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
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/maruel/subcommands"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vigilmon/vigil/codec"
	"github.com/vigilmon/vigil/dictionary"
	"github.com/vigilmon/vigil/logging"
)

// maxParallelLoads limits the number of documents read concurrently.
const maxParallelLoads = 8

type baseCommandRun struct {
	subcommands.CommandRunBase
	logLevel logging.Level
	format   codec.Format
	freeze   bool

	stdout io.Writer
}

func (r *baseCommandRun) registerBaseFlags() {
	r.logLevel = logging.DefaultLevel
	r.stdout = os.Stdout
	r.Flags.Var(&r.logLevel, "log-level", "Logging level: debug, info, warning or error.")
	r.Flags.Var(&r.format, "format", "Document format: json, json5, yaml or msgpack. Guessed from the file extension if not set.")
	r.Flags.BoolVar(&r.freeze, "freeze", false, "Freeze documents after loading them.")
}

// context returns the root context with the logger installed.
func (r *baseCommandRun) context() context.Context {
	ctx := logging.StdConfig.Use(context.Background())
	return logging.SetLevel(ctx, r.logLevel)
}

func (r *baseCommandRun) formatOf(path string) (codec.Format, error) {
	if r.format != "" {
		return r.format, nil
	}
	return codec.FormatFromPath(path)
}

// expandPaths expands "~" and glob patterns ("**" matches any number of
// directories) in command line arguments.
//
// A pattern that matches nothing is an error.
func expandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		path, err := homedir.Expand(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", arg)
		}
		if !strings.ContainsAny(path, "*?[{") {
			out = append(out, path)
			continue
		}
		matches, err := doublestar.Glob(path)
		if err != nil {
			return nil, errors.Wrapf(err, "bad pattern %q", arg)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

// loadOne reads a single document.
func (r *baseCommandRun) loadOne(ctx context.Context, path string) (*dictionary.Dictionary, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	f, err := r.formatOf(path)
	if err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := codec.DecodeDictionary(f, blob)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	if r.freeze {
		d.Freeze(ctx)
	}
	logging.Debugf(ctx, "Loaded %s: %d keys", path, d.Len())
	return d, nil
}

// load reads documents concurrently, preserving the order of paths.
func (r *baseCommandRun) load(ctx context.Context, paths []string) ([]*dictionary.Dictionary, error) {
	docs := make([]*dictionary.Dictionary, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelLoads)
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := r.loadOne(ctx, path)
			docs[i] = d
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *baseCommandRun) printf(format string, args ...any) {
	fmt.Fprintf(r.stdout, format, args...)
}

func (r *baseCommandRun) done(ctx context.Context, err error) int {
	if err != nil {
		logging.Errorf(ctx, "%s", err)
		return 1
	}
	return 0
}

func (r *baseCommandRun) argErr(a subcommands.Application, format string, args ...any) int {
	fmt.Fprintf(a.GetErr(), "%s\n", fmt.Sprintf(format, args...))
	return 2
}
