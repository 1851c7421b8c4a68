// Copyright (c) 2026 The BMC Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

func timeNow() time.Time { return time.Now() }

func timeSince(start time.Time) time.Duration { return time.Since(start) }

func createFile(path string) (*os.File, error) { return os.Create(path) }

// dimacsWriter opens path for a DIMACS dump, transparently gzip-compressing
// when the caller's filename template ends in .gz - large incremental SBMC
// dumps otherwise pile up fast since every call writes the whole prefix
// again. The returned closer flushes and closes in the right order for
// either branch.
func dimacsWriter(path string) (io.Writer, io.Closer, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, f, nil
	}
	gz := gzip.NewWriter(f)
	return gz, multiCloser{gz, f}, nil
}

// multiCloser closes its members in order, returning the first error.
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
