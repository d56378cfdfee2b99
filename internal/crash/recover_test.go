/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkboard/internal/config"
)

// TestRecoverWritesReport ensures Recover handles a panic, writes a report,
// and does not terminate the test process due to injected exitFn.
func TestRecoverWritesReport(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// Capture stderr temporarily to avoid noisy test logs
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r) // drain pipe
	}()

	// Override exitFn to avoid os.Exit during test and to assert it was called
	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	// Trigger a panic that Recover will catch
	func() {
		defer Recover()
		panic("boom")
	}()

	base, err := config.ConfigDir()
	if err != nil {
		t.Fatalf("config dir: %v", err)
	}
	cdir := filepath.Join(base, "crashes")
	files, err := os.ReadDir(cdir)
	if err != nil {
		t.Fatalf("read crash dir: %v", err)
	}
	var found string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			found = filepath.Join(cdir, f.Name())
			break
		}
	}
	if found == "" {
		t.Fatalf("expected crash report file under %s", cdir)
	}
	b, err := os.ReadFile(found)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", string(b))
	}

	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}
