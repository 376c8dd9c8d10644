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
	"strings"
	"testing"

	"graphsh/internal/client"
	"graphsh/internal/errors"
)

func TestDispatchEmptyAndComment(t *testing.T) {
	te := newTestEnv(t, newFakeConn())
	d := NewDispatcher(te.env)

	for _, line := range []string{"", "   ", "# a comment", "  # indented comment"} {
		out := d.Dispatch(line)
		if out.Quit || out.Err != nil {
			t.Errorf("Dispatch(%q) = %+v, expected no-op", line, out)
		}
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	te := newTestEnv(t, newFakeConn())
	d := NewDispatcher(te.env)

	out := d.Dispatch("frobnicate all the things")
	if out.Quit {
		t.Error("Unknown command must not terminate the loop")
	}
	if out.Err == nil || !errors.IsArgument(out.Err) {
		t.Fatalf("Expected an argument error, got %v", out.Err)
	}
	if !strings.Contains(out.Err.Error(), "frobnicate") {
		t.Errorf("Error should name the unknown command: %v", out.Err)
	}
}

func TestDispatchQuitCommands(t *testing.T) {
	te := newTestEnv(t, newFakeConn())
	d := NewDispatcher(te.env)

	for _, line := range []string{"exit", "quit"} {
		out := d.Dispatch(line)
		if !out.Quit {
			t.Errorf("Dispatch(%q) should request termination", line)
		}
		if out.Err != nil {
			t.Errorf("Dispatch(%q) returned error: %v", line, out.Err)
		}
	}
}

func TestDispatchNeverQuitsOnHandlerError(t *testing.T) {
	te := newTestEnv(t, newFakeConn())
	d := NewDispatcher(te.env)

	// A sweep over commands with bad or missing arguments: every outcome
	// must continue the loop.
	lines := []string{
		"cancel",
		"cancel notanumber",
		"job",
		"job x y",
		"schema",
		"scroll",
		"drop",
		"zap",
		"save onlyonearg",
		"show",
		"query",
		"config bogus stuff",
	}
	for _, line := range lines {
		out := d.Dispatch(line)
		if out.Quit {
			t.Errorf("Dispatch(%q) terminated the loop", line)
		}
		if out.Err == nil {
			t.Errorf("Dispatch(%q) expected an error", line)
		}
	}
}

func TestDispatchArgumentRemainderIsVerbatim(t *testing.T) {
	te := newTestEnv(t, newFakeConn())
	te.conn.queryResult = &client.ResultSet{Columns: []string{"e"}}
	d := NewDispatcher(te.env)

	query := `MATCH (a)-[e]->(b) WHERE a.name = "x  y" RETURN e`
	out := d.Dispatch("query " + query)
	if out.Err != nil {
		t.Fatalf("Dispatch failed: %v", out.Err)
	}
	if len(te.conn.executed) != 1 || te.conn.executed[0] != query {
		t.Errorf("Query text not passed verbatim: %q", te.conn.executed)
	}
}

func TestDispatchDropsSessionOnConnectionLost(t *testing.T) {
	te := newTestEnv(t, newFakeConn())
	te.conn.queryErr = errors.ConnectionLost(nil)
	d := NewDispatcher(te.env)

	out := d.Dispatch("query RETURN 1")
	if out.Quit {
		t.Error("Connection loss must not terminate the loop")
	}
	if !errors.IsConnectionLevel(out.Err) {
		t.Fatalf("Expected connection-level error, got %v", out.Err)
	}
	if te.env.Session.IsConnected() {
		t.Error("Session should be dropped after a detected connection loss")
	}

	// Subsequent commands now report not-connected.
	out = d.Dispatch("namespaces")
	var se *errors.ShellError
	if !errors.AsShellError(out.Err, &se) || se.Message != "not connected to a server" {
		t.Errorf("Expected not-connected error, got %v", out.Err)
	}
}
