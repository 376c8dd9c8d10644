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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"graphsh/internal/client"
)

// CSVFormatter renders a result set as RFC 4180 CSV: a header row from the
// column names, one line per row, standard quoting for cells containing the
// delimiter, quotes or line breaks. Null renders as an empty cell; nested
// values are JSON-encoded into their cell.
type CSVFormatter struct{}

// Format renders the result set as CSV.
func (f *CSVFormatter) Format(w io.Writer, rs *client.ResultSet) error {
	if rs == nil {
		rs = &client.ResultSet{}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(rs.Columns); err != nil {
		return err
	}

	record := make([]string, len(rs.Columns))
	for _, row := range rs.Rows {
		for ci := range rs.Columns {
			var cell any
			if ci < len(row) {
				cell = row[ci]
			}
			record[ci] = csvCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// csvCell formats a single value for a CSV field. Quoting is left to the
// csv writer.
func csvCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return trimFloat(val)
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
