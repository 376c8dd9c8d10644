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
Package client defines the capability surface graphsh requires from a graph
server client library.

The shell never talks to the wire directly: every command handler goes through
the Conn interface, so the concrete transport (see the wire subpackage) can be
swapped out, and tests can substitute an in-memory double.

Servers of different generations expose overlapping but not identical call
sets. Conn therefore carries both the modern call shapes (ListFrames with a
type filter, bulk DropFrames) and the legacy ones (FramesByType, per-frame
DropFrame plus WaitForMetrics). Which shape a command uses is decided by the
compat package, never hard-wired in a handler.
*/
package client

import "time"

// FrameType identifies the kind of a server-side frame.
type FrameType string

const (
	// FrameTable is a plain tabular frame.
	FrameTable FrameType = "table"
	// FrameVertex is a vertex collection frame.
	FrameVertex FrameType = "vertex"
	// FrameEdge is an edge collection frame.
	FrameEdge FrameType = "edge"
	// FrameAny matches every frame type in listing calls.
	FrameAny FrameType = ""
)

// Column describes one column of a frame schema or result set.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Frame is a handle to a named server-side frame.
type Frame interface {
	// Name returns the fully qualified frame name.
	Name() string
	// Type returns the frame type (table, vertex, edge).
	Type() FrameType
	// RowCount returns the number of rows (vertices, edges) in the frame.
	RowCount() int64
	// Schema returns the ordered column definitions.
	Schema() []Column
	// Source returns the source vertex frame name for edge frames, "" otherwise.
	Source() string
	// Target returns the target vertex frame name for edge frames, "" otherwise.
	Target() string
	// Rows fetches up to limit rows starting at offset.
	Rows(offset, limit int) (*ResultSet, error)
	// Save writes the frame contents to a server-side file with headers.
	Save(path string) error
}

// Job is a handle to a query job submitted via Execute.
type Job interface {
	// ID returns the server-assigned job identifier.
	ID() int
	// Status returns the current job status string.
	Status() string
	// Schema returns the result schema, nil until the job has produced one.
	Schema() []Column
	// Data fetches the full result rows for the job.
	Data() (*ResultSet, error)
}

// JobInfo is the summary record returned by Conn.Jobs.
type JobInfo struct {
	ID          int       `json:"id"`
	User        string    `json:"user"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Schema      []Column  `json:"schema,omitempty"`
}

// MemoryInfo reports server memory usage in GiB.
type MemoryInfo struct {
	MaxUserGiB  float64 `json:"max_user_gib"`
	FreeUserGiB float64 `json:"free_user_gib"`
}

// FrameLabels holds per-operation security labels for a frame, keyed by
// "create", "read", "update" and "delete".
type FrameLabels map[string][]string

// Credentials carries authentication material for a connection attempt.
// An empty Password requests a username-only basic login.
type Credentials struct {
	Username string
	Password string
}

// Conn is a live, authenticated connection to a graph server.
//
// Implementations must map server-reported failures onto the taxonomy in the
// errors package: a missing frame surfaces as a not-found error, a dropped
// socket as a connection error, everything else as a server error.
type Conn interface {
	// ServerVersion returns the version string reported by the server.
	ServerVersion() (string, error)

	// GetFrame looks up a frame by name. Returns a not-found error when the
	// name does not exist at the time of the call.
	GetFrame(name string) (Frame, error)
	// ListFrames lists frames in a namespace, optionally filtered by type.
	// Only servers with typed-listing support handle the filtered form.
	ListFrames(namespace string, ftype FrameType) ([]Frame, error)
	// FramesByType is the legacy per-type listing call retained by older
	// servers that predate ListFrames filtering.
	FramesByType(ftype FrameType, namespace string) ([]Frame, error)

	// Namespaces lists all namespaces visible to the current user.
	Namespaces() ([]string, error)
	// DefaultNamespace returns the session's default namespace.
	DefaultNamespace() (string, error)
	// SetDefaultNamespace changes the session's default namespace.
	SetDefaultNamespace(ns string) error

	// Execute submits a query and returns the resulting job.
	Execute(text string) (Job, error)
	// Jobs returns summary information for all jobs visible to the user.
	Jobs() ([]JobInfo, error)
	// CancelJob cancels the job with the given id.
	CancelJob(id int) error

	// DropFrame removes a single frame by name.
	DropFrame(name string) error
	// DropFrames removes several frames in one call. Only servers with bulk
	// drop support handle it.
	DropFrames(names []string) error
	// WaitForMetrics blocks until the server's frame metrics are consistent.
	// Needed between dependent drops on older servers.
	WaitForMetrics() error

	// Config returns the server configuration parameters.
	Config() (map[string]any, error)
	// SetConfig sets one server configuration parameter.
	SetConfig(key string, value any) error

	// Memory reports server memory usage.
	Memory() (MemoryInfo, error)
	// UserLabels returns the current user's security labels.
	UserLabels() ([]string, error)
	// FrameLabels returns the per-operation security labels of a frame.
	FrameLabels(name string) (FrameLabels, error)

	// Close releases the connection. Safe to call more than once.
	Close() error
}
