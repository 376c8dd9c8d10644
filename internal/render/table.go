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
	"fmt"
	"io"
	"text/tabwriter"

	"graphsh/internal/client"
)

// TableFormatter renders result sets for human reading.
//
// With Aligned set it produces a column-aligned grid with a header row.
// Without it, each row renders as a "column: value" block, blank-line
// separated. Both forms keep the result set's column order and render null
// the same way.
type TableFormatter struct {
	Aligned bool
}

// Format renders the result set as a table.
func (f *TableFormatter) Format(w io.Writer, rs *client.ResultSet) error {
	if rs == nil {
		rs = &client.ResultSet{}
	}
	if f.Aligned {
		return f.formatAligned(w, rs)
	}
	return f.formatPlain(w, rs)
}

func (f *TableFormatter) formatAligned(w io.Writer, rs *client.ResultSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for i, col := range rs.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)

	for _, row := range rs.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cellText(cell))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "(%d rows)\n", len(rs.Rows))
	return err
}

func (f *TableFormatter) formatPlain(w io.Writer, rs *client.ResultSet) error {
	for ri, row := range rs.Rows {
		if ri > 0 {
			fmt.Fprintln(w)
		}
		for ci, col := range rs.Columns {
			var cell any
			if ci < len(row) {
				cell = row[ci]
			}
			fmt.Fprintf(w, "%s: %s\n", col, cellText(cell))
		}
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(rs.Rows))
	return err
}
