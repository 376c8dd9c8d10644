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

package client

// ResultSet is an ordered sequence of rows sharing one column layout.
//
// Cell values are one of: nil, bool, string, json.Number, float64, []any or
// map[string]any (graph-typed values arrive as nested lists and mappings).
// Numeric values decoded from the wire are json.Number so that integer and
// floating-point literals survive a render round-trip without coercion.
//
// Column order is significant and identical across all rows. A ResultSet is
// produced by one query or introspection call and consumed exactly once by a
// formatter; it is never cached.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Empty reports whether the result set has no rows.
func (r *ResultSet) Empty() bool {
	return r.Len() == 0
}
