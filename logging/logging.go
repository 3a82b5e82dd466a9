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

// Package logging defines a context-bound Logger.
//
// Libraries log through the package-level functions, e.g.
//
//	logging.Debugf(ctx, "rejecting %s", op)
//
// and binaries install an implementation (see LoggerConfig) into the root
// context with Use. When no logger is installed, messages are dropped.
package logging

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

// Level is a logging level.
type Level int

// Supported levels, in increasing order of severity.
const (
	Debug Level = iota
	Info
	Warning
	Error
)

// DefaultLevel is the level used when the context doesn't specify one.
const DefaultLevel = Info

var levelNames = []string{"debug", "info", "warning", "error"}

var _ flag.Value = (*Level)(nil)

func (l Level) String() string {
	if l < Debug || l > Error {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Set implements flag.Value.
func (l *Level) Set(v string) error {
	for i, name := range levelNames {
		if strings.EqualFold(v, name) {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("unknown logging level %q, want one of %s", v, strings.Join(levelNames, ", "))
}

// Logger is implemented by logging backends.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)

	// LogCall logs a message. calldepth is the number of stack frames between
	// the user code and this call.
	LogCall(l Level, calldepth int, format string, args []any)
}

// Null is a Logger that drops everything.
var Null Logger = nullLogger{}

type nullLogger struct{}

func (nullLogger) Debugf(string, ...any)             {}
func (nullLogger) Infof(string, ...any)              {}
func (nullLogger) Warningf(string, ...any)           {}
func (nullLogger) Errorf(string, ...any)             {}
func (nullLogger) LogCall(Level, int, string, []any) {}

type loggerKeyType int

var (
	loggerKey loggerKeyType = 0
	levelKey  loggerKeyType = 1
)

// Use returns a context with the logger installed.
func Use(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Get returns the logger installed in the context, or Null.
func Get(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok && l != nil {
		return l
	}
	return Null
}

// SetLevel returns a context that logs messages at the given level or above.
func SetLevel(ctx context.Context, l Level) context.Context {
	return context.WithValue(ctx, levelKey, l)
}

// GetLevel returns the level set in the context, or DefaultLevel.
func GetLevel(ctx context.Context) Level {
	if l, ok := ctx.Value(levelKey).(Level); ok {
		return l
	}
	return DefaultLevel
}

// IsLogging is true if messages of the given level are logged.
func IsLogging(ctx context.Context, l Level) bool {
	return l >= GetLevel(ctx)
}

// Debugf logs at Debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	Logf(ctx, Debug, format, args...)
}

// Infof logs at Info level.
func Infof(ctx context.Context, format string, args ...any) {
	Logf(ctx, Info, format, args...)
}

// Warningf logs at Warning level.
func Warningf(ctx context.Context, format string, args ...any) {
	Logf(ctx, Warning, format, args...)
}

// Errorf logs at Error level.
func Errorf(ctx context.Context, format string, args ...any) {
	Logf(ctx, Error, format, args...)
}

// Logf logs at the given level.
func Logf(ctx context.Context, l Level, format string, args ...any) {
	if IsLogging(ctx, l) {
		Get(ctx).LogCall(l, 2, format, args)
	}
}
