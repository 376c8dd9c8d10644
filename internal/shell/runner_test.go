/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package shell

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"graphsh/internal/client"
	"graphsh/internal/errors"
	"graphsh/internal/render"
)

func writeScript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.gsh")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestRunQuery(t *testing.T) {
	conn := newFakeConn()
	conn.queryResult = &client.ResultSet{
		Columns: []string{"n"},
		Rows:    [][]any{{json.Number("3")}},
	}
	te := newTestEnv(t, conn)
	te.env.Format = render.FormatJSON
	r := NewRunner(NewDispatcher(te.env))

	if err := r.RunQuery("MATCH (v) RETURN count(v) AS n"); err != nil {
		t.Fatalf("RunQuery failed: %v", err)
	}
	var parsed []map[string]any
	if err := json.Unmarshal(te.out.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(conn.executed) != 1 || conn.executed[0] != "MATCH (v) RETURN count(v) AS n" {
		t.Errorf("Query not passed through: %v", conn.executed)
	}
}

func TestRunCommand(t *testing.T) {
	conn := newFakeConn()
	te := newTestEnv(t, conn)
	r := NewRunner(NewDispatcher(te.env))

	if err := r.RunCommand("namespaces"); err != nil {
		t.Fatalf("RunCommand failed: %v", err)
	}
	if !strings.Contains(te.out.String(), "graph") {
		t.Errorf("Unexpected output:\n%s", te.out.String())
	}

	if err := r.RunCommand("nonsense"); err == nil {
		t.Error("Expected an error for an unknown command")
	}
}

func TestRunFileContinuesPastCommandErrors(t *testing.T) {
	conn := newFakeConn()
	te := newTestEnv(t, conn)
	r := NewRunner(NewDispatcher(te.env))

	path := writeScript(t,
		"# warm-up",
		"cancel 1",
		"cancel notanumber",
		"cancel 3",
	)
	if err := r.RunFile(path); err != nil {
		t.Fatalf("RunFile failed: %v", err)
	}

	// Lines 2 and 4 executed despite line 3 failing.
	if len(conn.canceled) != 2 || conn.canceled[0] != 1 || conn.canceled[1] != 3 {
		t.Errorf("Expected cancels [1 3], got %v", conn.canceled)
	}
	if !strings.Contains(te.errout.String(), "line 3:") {
		t.Errorf("Error should carry its line number:\n%s", te.errout.String())
	}
}

func TestRunFileAbortsOnConnectionLoss(t *testing.T) {
	conn := newFakeConn()
	conn.queryErr = errors.ConnectionLost(nil)
	te := newTestEnv(t, conn)
	r := NewRunner(NewDispatcher(te.env))

	path := writeScript(t,
		"cancel 1",
		"query RETURN 1",
		"cancel 3",
	)
	err := r.RunFile(path)
	if err == nil {
		t.Fatal("Expected RunFile to fail on connection loss")
	}
	if !errors.IsConnectionLevel(err) {
		t.Errorf("Expected connection-level error, got %v", err)
	}
	if len(conn.canceled) != 1 || conn.canceled[0] != 1 {
		t.Errorf("Lines after the connection loss must not run: %v", conn.canceled)
	}
	if !strings.Contains(te.errout.String(), "line 2:") {
		t.Errorf("Loss should be reported with its line number:\n%s", te.errout.String())
	}
}

func TestRunFileStopsAtExit(t *testing.T) {
	conn := newFakeConn()
	te := newTestEnv(t, conn)
	r := NewRunner(NewDispatcher(te.env))

	path := writeScript(t,
		"cancel 1",
		"exit",
		"cancel 3",
	)
	if err := r.RunFile(path); err != nil {
		t.Fatalf("RunFile failed: %v", err)
	}
	if len(conn.canceled) != 1 {
		t.Errorf("Lines after exit must not run: %v", conn.canceled)
	}
}

func TestRunFileMissing(t *testing.T) {
	te := newTestEnv(t, newFakeConn())
	r := NewRunner(NewDispatcher(te.env))

	err := r.RunFile(filepath.Join(t.TempDir(), "absent.gsh"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if !errors.IsNotFound(err) {
		t.Errorf("Expected not-found, got %v", err)
	}
}
