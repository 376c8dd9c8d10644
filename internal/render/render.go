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

/*
Package render turns result sets into terminal output.

Three formats are supported: an aligned table, JSON and CSV. The format is
chosen once per run and applied to every result set rendered during it.

Table rendering degrades: when the aligned-table capability is off (the
--plain flag or plain_tables in the config file) rows render as one
"column: value" block each, preserving column order and null representation.
All formatters are deterministic and handle the zero-row case without error.
*/
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"graphsh/internal/client"
	"graphsh/internal/errors"
)

// Format is the output format for result sets.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatCSV:
		return Format(s), nil
	default:
		return "", errors.InvalidFormat(s)
	}
}

// Formatter renders result sets to a writer.
type Formatter interface {
	Format(w io.Writer, rs *client.ResultSet) error
}

// New creates a formatter. hasTabularRenderer selects between aligned table
// output and the plain record fallback; it only affects FormatTable.
func New(format Format, hasTabularRenderer bool) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TableFormatter{Aligned: hasTabularRenderer}
	}
}

// nullCell is the textual representation of a null value in table output.
const nullCell = "<null>"

// cellText formats a single value for table display.
func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return nullCell
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
		// Nested lists and mappings display as compact JSON.
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

// trimFloat formats a float without a spurious trailing ".000000".
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
