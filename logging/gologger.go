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

package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	gol "github.com/op/go-logging"
)

// StandardFormat first prints process ID, time, filename, logging level and
// sequence number, all colored. Then the message.
const StandardFormat = `%{color}[P%{pid} %{time:15:04:05.000} %{shortfile} %{level:.4s} %{id:03x}]` +
	`%{color:reset} %{message}`

// StdConfig writes logs to stderr using StandardFormat.
var StdConfig = LoggerConfig{
	Format: StandardFormat,
	Out:    os.Stderr,
}

// LoggerConfig describes a Logger backed by the go-logging library.
type LoggerConfig struct {
	Format string    // go-logging format string, StandardFormat if empty
	Out    io.Writer // where to write, os.Stderr if nil
	Module string    // go-logging module name, "vigil" if empty

	once    sync.Once
	backend gol.LeveledBackend
}

// NewLogger returns a Logger writing to the configured output.
//
// Level filtering is done through the context (see SetLevel), so the returned
// logger itself writes messages of all levels.
func (lc *LoggerConfig) NewLogger() Logger {
	lc.once.Do(func() {
		format := lc.Format
		if format == "" {
			format = StandardFormat
		}
		out := lc.Out
		if out == nil {
			out = os.Stderr
		}
		backend := gol.NewBackendFormatter(
			gol.NewLogBackend(out, "", 0),
			gol.MustStringFormatter(format))
		lc.backend = gol.AddModuleLevel(backend)
		lc.backend.SetLevel(gol.DEBUG, "")
	})
	module := lc.Module
	if module == "" {
		module = "vigil"
	}
	return &goLogger{module: module, backend: lc.backend}
}

// Use installs a new logger into the context.
func (lc *LoggerConfig) Use(ctx context.Context) context.Context {
	return Use(ctx, lc.NewLogger())
}

type goLogger struct {
	module  string
	backend gol.LeveledBackend
}

func (l *goLogger) Debugf(format string, args ...any)   { l.LogCall(Debug, 1, format, args) }
func (l *goLogger) Infof(format string, args ...any)    { l.LogCall(Info, 1, format, args) }
func (l *goLogger) Warningf(format string, args ...any) { l.LogCall(Warning, 1, format, args) }
func (l *goLogger) Errorf(format string, args ...any)   { l.LogCall(Error, 1, format, args) }

func (l *goLogger) LogCall(lvl Level, calldepth int, format string, args []any) {
	// go-logging reports the caller relative to its own entry point, +1 skips
	// LogCall itself.
	logger := &gol.Logger{Module: l.module, ExtraCalldepth: calldepth + 1}
	logger.SetBackend(l.backend)

	switch lvl {
	case Debug:
		logger.Debugf(format, args...)
	case Info:
		logger.Infof(format, args...)
	case Warning:
		logger.Warningf(format, args...)
	case Error:
		logger.Errorf(format, args...)
	default:
		logger.Errorf("%s", fmt.Sprintf("[%s] ", lvl)+fmt.Sprintf(format, args...))
	}
}
