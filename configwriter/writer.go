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
	"io"
)

var tabs = bytes.Repeat([]byte{'\t'}, 64)

// Writer indents every line written through it by Level tabs.
//
// Blank lines are not indented. The first error returned by the underlying
// writer is remembered and returned by all subsequent writes.
type Writer struct {
	W     io.Writer
	Level int

	midLine bool
	err     error
}

// Write implements io.Writer.
func (w *Writer) Write(data []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	for len(data) > 0 {
		if !w.midLine && data[0] != '\n' {
			if err := w.writeIndent(); err != nil {
				w.err = err
				return n, err
			}
			w.midLine = true
		}

		chunk := data
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			chunk = data[:idx+1]
		}
		m, err := w.W.Write(chunk)
		n += m
		if err != nil {
			w.err = err
			return n, err
		}
		if chunk[len(chunk)-1] == '\n' {
			w.midLine = false
		}
		data = data[len(chunk):]
	}
	return n, nil
}

// writeIndent writes Level tabs, in chunks for deep nesting.
func (w *Writer) writeIndent() error {
	for left := w.Level; left > 0; {
		chunk := min(left, len(tabs))
		if _, err := w.W.Write(tabs[:chunk]); err != nil {
			return err
		}
		left -= chunk
	}
	return nil
}

// WriteString writes s.
func (w *Writer) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}
