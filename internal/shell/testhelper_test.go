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
	"bytes"
	"fmt"
	"testing"

	"graphsh/internal/client"
	"graphsh/internal/errors"
	"graphsh/internal/session"
	"graphsh/internal/style"
)

// fakeFrame is an in-memory client.Frame.
type fakeFrame struct {
	name   string
	ftype  client.FrameType
	schema []client.Column
	data   *client.ResultSet
	source string
	target string

	saved []string
}

func (f *fakeFrame) Name() string { return f.name }

func (f *fakeFrame) Type() client.FrameType { return f.ftype }

func (f *fakeFrame) Schema() []client.Column { return f.schema }

func (f *fakeFrame) Source() string { return f.source }

func (f *fakeFrame) Target() string { return f.target }

func (f *fakeFrame) RowCount() int64 {
	if f.data == nil {
		return 0
	}
	return int64(f.data.Len())
}

func (f *fakeFrame) Rows(offset, limit int) (*client.ResultSet, error) {
	out := &client.ResultSet{Columns: f.data.Columns}
	for i := offset; i < f.data.Len() && i < offset+limit; i++ {
		out.Rows = append(out.Rows, f.data.Rows[i])
	}
	return out, nil
}

func (f *fakeFrame) Save(path string) error {
	f.saved = append(f.saved, path)
	return nil
}

// fakeJob is an in-memory client.Job.
type fakeJob struct {
	id     int
	status string
	schema []client.Column
	data   *client.ResultSet
}

func (j *fakeJob) ID() int { return j.id }

func (j *fakeJob) Status() string { return j.status }

func (j *fakeJob) Schema() []client.Column { return j.schema }

func (j *fakeJob) Data() (*client.ResultSet, error) {
	return j.data, nil
}

// fakeConn is an in-memory client.Conn recording the calls handlers make.
type fakeConn struct {
	version    string
	namespaces []string
	defaultNS  string
	frames     []*fakeFrame
	jobs       []client.JobInfo
	config     map[string]any
	userLabels []string
	labels     map[string]client.FrameLabels
	memory     client.MemoryInfo

	queryResult *client.ResultSet
	queryErr    error

	// recorded calls
	executed    []string
	dropped     []string
	bulkDropped [][]string
	metricWaits int
	canceled    []int
	configSets  map[string]any
	typedLists  []string
	legacyLists []string
	setNS       []string
	closed      bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		version:    "1.14.0",
		defaultNS:  "graph",
		namespaces: []string{"graph"},
		configSets: make(map[string]any),
	}
}

func (c *fakeConn) ServerVersion() (string, error) { return c.version, nil }

func (c *fakeConn) frame(name string) (*fakeFrame, bool) {
	for _, f := range c.frames {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

func (c *fakeConn) GetFrame(name string) (client.Frame, error) {
	if f, ok := c.frame(name); ok {
		return f, nil
	}
	return nil, errors.FrameNotFound(name)
}

func (c *fakeConn) framesOf(ftype client.FrameType) []client.Frame {
	var out []client.Frame
	for _, f := range c.frames {
		if ftype == client.FrameAny || f.ftype == ftype {
			out = append(out, f)
		}
	}
	return out
}

func (c *fakeConn) ListFrames(namespace string, ftype client.FrameType) ([]client.Frame, error) {
	c.typedLists = append(c.typedLists, fmt.Sprintf("%s/%s", namespace, ftype))
	return c.framesOf(ftype), nil
}

func (c *fakeConn) FramesByType(ftype client.FrameType, namespace string) ([]client.Frame, error) {
	c.legacyLists = append(c.legacyLists, fmt.Sprintf("%s/%s", namespace, ftype))
	return c.framesOf(ftype), nil
}

func (c *fakeConn) Namespaces() ([]string, error) { return c.namespaces, nil }

func (c *fakeConn) DefaultNamespace() (string, error) { return c.defaultNS, nil }

func (c *fakeConn) SetDefaultNamespace(ns string) error {
	c.setNS = append(c.setNS, ns)
	c.defaultNS = ns
	return nil
}

func (c *fakeConn) Execute(text string) (client.Job, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	c.executed = append(c.executed, text)
	return &fakeJob{id: 1, status: "completed", data: c.queryResult}, nil
}

func (c *fakeConn) Jobs() ([]client.JobInfo, error) { return c.jobs, nil }

func (c *fakeConn) CancelJob(id int) error {
	c.canceled = append(c.canceled, id)
	return nil
}

func (c *fakeConn) DropFrame(name string) error {
	c.dropped = append(c.dropped, name)
	return nil
}

func (c *fakeConn) DropFrames(names []string) error {
	c.bulkDropped = append(c.bulkDropped, names)
	return nil
}

func (c *fakeConn) WaitForMetrics() error {
	c.metricWaits++
	return nil
}

func (c *fakeConn) Config() (map[string]any, error) { return c.config, nil }

func (c *fakeConn) SetConfig(key string, value any) error {
	c.configSets[key] = value
	return nil
}

func (c *fakeConn) Memory() (client.MemoryInfo, error) { return c.memory, nil }

func (c *fakeConn) UserLabels() ([]string, error) { return c.userLabels, nil }

func (c *fakeConn) FrameLabels(name string) (client.FrameLabels, error) {
	if l, ok := c.labels[name]; ok {
		return l, nil
	}
	return client.FrameLabels{}, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// testEnv bundles a connected Env with its buffers.
type testEnv struct {
	env    *Env
	conn   *fakeConn
	out    *bytes.Buffer
	errout *bytes.Buffer
}

// newTestEnv builds an Env connected to the given fake.
func newTestEnv(t *testing.T, conn *fakeConn) *testEnv {
	t.Helper()
	style.SetColorsEnabled(false)

	sess := session.New(session.Options{
		Dialer: func(host string, port int, creds client.Credentials) (client.Conn, error) {
			return conn, nil
		},
		Host: "testhost",
		Port: 4367,
	})
	if err := sess.Connect("", 0); err != nil {
		t.Fatalf("test connect failed: %v", err)
	}

	out, errout := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{env: NewEnv(sess, out, errout), conn: conn, out: out, errout: errout}
}

// newDisconnectedEnv builds an Env whose session has never connected.
func newDisconnectedEnv(t *testing.T) *testEnv {
	t.Helper()
	style.SetColorsEnabled(false)

	sess := session.New(session.Options{
		Dialer: func(host string, port int, creds client.Credentials) (client.Conn, error) {
			return nil, errors.ConnectFailed(errors.ReasonNetwork, "unable to connect to testhost:4367")
		},
		Host: "testhost",
		Port: 4367,
	})

	out, errout := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{env: NewEnv(sess, out, errout), out: out, errout: errout}
}
