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
	"encoding/json"
	"fmt"
	"io"

	"graphsh/internal/client"
)

// JSONFormatter renders a result set as a JSON array of row objects.
//
// Object keys follow the result set's column order, which encoding/json's
// map marshalling would not preserve, so objects are assembled by hand.
// Values pass through json.Marshal, so null, numeric, string and nested
// values round-trip without coercion (json.Number cells re-emit their
// original literal).
type JSONFormatter struct{}

// Format renders the result set as JSON.
func (f *JSONFormatter) Format(w io.Writer, rs *client.ResultSet) error {
	if rs == nil || len(rs.Rows) == 0 {
		_, err := fmt.Fprintln(w, "[]")
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("[\n")
	for ri, row := range rs.Rows {
		buf.WriteString("  {")
		for ci, col := range rs.Columns {
			if ci > 0 {
				buf.WriteString(", ")
			}
			key, err := json.Marshal(col)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteString(": ")

			var cell any
			if ci < len(row) {
				cell = row[ci]
			}
			val, err := json.Marshal(cell)
			if err != nil {
				return err
			}
			buf.Write(val)
		}
		buf.WriteString("}")
		if ri < len(rs.Rows)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}
