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

package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"graphsh/internal/client"
)

func sampleResultSet() *client.ResultSet {
	return &client.ResultSet{
		Columns: []string{"name", "degree", "score", "tags"},
		Rows: [][]any{
			{"alice", json.Number("3"), json.Number("0.91"), []any{"a", "b"}},
			{"bob", json.Number("0"), nil, nil},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, good := range []string{"table", "json", "csv"} {
		if _, err := ParseFormat(good); err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", good, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatJSON, FormatCSV} {
		for _, aligned := range []bool{true, false} {
			f := New(format, aligned)
			var first, second bytes.Buffer
			if err := f.Format(&first, sampleResultSet()); err != nil {
				t.Fatalf("%s render failed: %v", format, err)
			}
			if err := f.Format(&second, sampleResultSet()); err != nil {
				t.Fatalf("%s render failed: %v", format, err)
			}
			if first.String() != second.String() {
				t.Errorf("%s (aligned=%v) output not deterministic", format, aligned)
			}
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	rs := &client.ResultSet{
		Columns: []string{"n", "name", "ratio", "ok", "missing", "nested"},
		Rows: [][]any{
			{json.Number("3"), "alice", json.Number("0.5"), true, nil, map[string]any{"k": json.Number("1")}},
		},
	}

	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, rs); err != nil {
		t.Fatalf("JSON render failed: %v", err)
	}

	dec := json.NewDecoder(strings.NewReader(buf.String()))
	dec.UseNumber()
	var parsed []map[string]any
	if err := dec.Decode(&parsed); err != nil {
		t.Fatalf("Rendered JSON does not parse: %v\noutput: %s", err, buf.String())
	}

	if len(parsed) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(parsed))
	}
	row := parsed[0]

	if row["n"] != json.Number("3") {
		t.Errorf("Expected integer literal 3 to survive, got %#v", row["n"])
	}
	if row["name"] != "alice" {
		t.Errorf("Expected string to survive, got %#v", row["name"])
	}
	if row["ratio"] != json.Number("0.5") {
		t.Errorf("Expected float literal 0.5 to survive, got %#v", row["ratio"])
	}
	if row["ok"] != true {
		t.Errorf("Expected bool to survive, got %#v", row["ok"])
	}
	if v, present := row["missing"]; !present || v != nil {
		t.Errorf("Expected explicit null, got %#v (present=%v)", v, present)
	}
	nested, ok := row["nested"].(map[string]any)
	if !ok || nested["k"] != json.Number("1") {
		t.Errorf("Expected nested mapping to survive, got %#v", row["nested"])
	}
}

func TestJSONSingleIntRow(t *testing.T) {
	rs := &client.ResultSet{
		Columns: []string{"n"},
		Rows:    [][]any{{json.Number("3")}},
	}

	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, rs); err != nil {
		t.Fatalf("JSON render failed: %v", err)
	}

	compact := strings.Join(strings.Fields(buf.String()), "")
	if compact != `[{"n":3}]` {
		t.Errorf("Expected [{\"n\": 3}], got %s", buf.String())
	}
}

func TestCSVQuoting(t *testing.T) {
	rs := &client.ResultSet{
		Columns: []string{"id", "text"},
		Rows: [][]any{
			{json.Number("1"), "plain"},
			{json.Number("2"), "has,comma"},
			{json.Number("3"), "has\nnewline"},
			{json.Number("4"), `has "quotes"`},
			{json.Number("5"), nil},
		},
	}

	var buf bytes.Buffer
	if err := (&CSVFormatter{}).Format(&buf, rs); err != nil {
		t.Fatalf("CSV render failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("Rendered CSV does not parse: %v\noutput: %s", err, buf.String())
	}

	if len(records) != 6 {
		t.Fatalf("Expected header + 5 rows, got %d records", len(records))
	}
	if records[0][0] != "id" || records[0][1] != "text" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	want := []string{"plain", "has,comma", "has\nnewline", `has "quotes"`, ""}
	for i, w := range want {
		if records[i+1][1] != w {
			t.Errorf("Row %d: expected %q to round-trip, got %q", i+1, w, records[i+1][1])
		}
	}
}

func TestEmptyResultSet(t *testing.T) {
	rs := &client.ResultSet{Columns: []string{"a", "b"}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&JSONFormatter{}).Format(&buf, rs); err != nil {
			t.Fatalf("JSON render failed: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("Expected [], got %q", buf.String())
		}
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&CSVFormatter{}).Format(&buf, rs); err != nil {
			t.Fatalf("CSV render failed: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "a,b" {
			t.Errorf("Expected header-only output, got %q", buf.String())
		}
	})

	t.Run("table aligned", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TableFormatter{Aligned: true}).Format(&buf, rs); err != nil {
			t.Fatalf("Table render failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "a") || !strings.Contains(out, "(0 rows)") {
			t.Errorf("Expected header and row count, got %q", out)
		}
	})

	t.Run("table plain", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TableFormatter{Aligned: false}).Format(&buf, rs); err != nil {
			t.Fatalf("Plain render failed: %v", err)
		}
		if !strings.Contains(buf.String(), "(0 rows)") {
			t.Errorf("Expected row count, got %q", buf.String())
		}
	})
}

func TestTableNullRepresentation(t *testing.T) {
	rs := &client.ResultSet{
		Columns: []string{"v"},
		Rows:    [][]any{{nil}},
	}

	var aligned, plain bytes.Buffer
	if err := (&TableFormatter{Aligned: true}).Format(&aligned, rs); err != nil {
		t.Fatalf("Aligned render failed: %v", err)
	}
	if err := (&TableFormatter{Aligned: false}).Format(&plain, rs); err != nil {
		t.Fatalf("Plain render failed: %v", err)
	}

	if !strings.Contains(aligned.String(), "<null>") {
		t.Errorf("Aligned output missing null marker: %q", aligned.String())
	}
	if !strings.Contains(plain.String(), "<null>") {
		t.Errorf("Plain output missing null marker: %q", plain.String())
	}
}

func TestTableColumnOrder(t *testing.T) {
	rs := &client.ResultSet{
		Columns: []string{"zeta", "alpha"},
		Rows:    [][]any{{"1", "2"}},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{Aligned: true}).Format(&buf, rs); err != nil {
		t.Fatalf("Table render failed: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "zeta") > strings.Index(out, "alpha") {
		t.Errorf("Column order not preserved: %q", out)
	}
}
