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

package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"graphsh/internal/client"
	"graphsh/internal/errors"
	"graphsh/internal/logging"
)

var log = logging.NewLogger("wire")

// dialTimeout bounds connection establishment. Per-call timeouts are left
// to the server side; the shell is interactive and calls block.
const dialTimeout = 10 * time.Second

// request is the body of a MsgRequest message.
type request struct {
	Op   string         `json:"op"`
	Args map[string]any `json:"args,omitempty"`
}

// wireError is the error object of a failed response. Kind maps the
// failure onto the shell's error taxonomy; Name carries the missing
// object's name for not-found kinds.
type wireError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

// response is the body of a MsgResponse or MsgAuthResult message.
type response struct {
	OK     bool            `json:"ok"`
	Error  *wireError      `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Conn is the TCP implementation of client.Conn.
type Conn struct {
	mu   sync.Mutex
	conn net.Conn
	addr string
}

var _ client.Conn = (*Conn)(nil)

// Dial connects and authenticates to a graph server.
func Dial(host string, port int, creds client.Credentials) (client.Conn, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	nc, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, errors.ConnectFailed(errors.ReasonNetwork,
			fmt.Sprintf("unable to connect to %s", addr)).WithCause(err)
	}

	c := &Conn{conn: nc, addr: addr}
	if err := c.authenticate(creds); err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

// authenticate performs the handshake. An empty password requests a
// username-only basic login.
func (c *Conn) authenticate(creds client.Credentials) error {
	payload, err := json.Marshal(map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	})
	if err != nil {
		return err
	}
	if err := WriteMessage(c.conn, MsgAuth, payload); err != nil {
		return errors.ConnectFailed(errors.ReasonNetwork,
			fmt.Sprintf("handshake with %s failed", c.addr)).WithCause(err)
	}

	msg, err := ReadMessage(c.conn)
	if err != nil {
		if err == ErrInvalidVersion {
			return errors.ConnectFailed(errors.ReasonVersion,
				fmt.Sprintf("server %s speaks an incompatible protocol version", c.addr))
		}
		return errors.ConnectFailed(errors.ReasonNetwork,
			fmt.Sprintf("handshake with %s failed", c.addr)).WithCause(err)
	}
	if msg.Header.Type != MsgAuthResult {
		return errors.ConnectFailed(errors.ReasonNetwork,
			fmt.Sprintf("unexpected handshake reply from %s", c.addr))
	}

	var resp response
	if err := json.Unmarshal(msg.Payload, &resp); err != nil {
		return errors.ConnectFailed(errors.ReasonNetwork,
			fmt.Sprintf("malformed handshake reply from %s", c.addr)).WithCause(err)
	}
	if !resp.OK {
		if resp.Error != nil && resp.Error.Kind == "auth" {
			return errors.ConnectFailed(errors.ReasonAuth, resp.Error.Message)
		}
		return mapServerError(resp.Error)
	}
	return nil
}

// call performs one request/response round trip. out, when non-nil,
// receives the decoded result object; numeric values decode as
// json.Number so they re-render without loss.
func (c *Conn) call(op string, args map[string]any, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return errors.NotConnected()
	}

	payload, err := json.Marshal(request{Op: op, Args: args})
	if err != nil {
		return err
	}

	log.Debug("request", "op", op, "bytes", len(payload))

	if err := WriteMessage(c.conn, MsgRequest, payload); err != nil {
		return errors.ConnectionLost(err)
	}
	msg, err := ReadMessage(c.conn)
	if err != nil {
		return errors.ConnectionLost(err)
	}
	if msg.Header.Type != MsgResponse {
		return errors.ProtocolError(fmt.Sprintf("unexpected message type 0x%02x for %s", byte(msg.Header.Type), op))
	}

	var resp response
	if err := json.Unmarshal(msg.Payload, &resp); err != nil {
		return errors.ProtocolError(fmt.Sprintf("malformed response for %s", op)).WithCause(err)
	}
	if !resp.OK {
		return mapServerError(resp.Error)
	}
	if out == nil {
		return nil
	}
	if len(resp.Result) == 0 {
		return errors.ProtocolError(fmt.Sprintf("empty result for %s", op))
	}
	return decodeResult(resp.Result, out)
}

// decodeResult decodes a result object preserving numeric literals.
func decodeResult(raw json.RawMessage, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}

// mapServerError converts a wire error onto the shell's error taxonomy.
func mapServerError(we *wireError) error {
	if we == nil {
		return errors.ProtocolError("server reported failure without an error object")
	}
	switch we.Kind {
	case "frame_not_found":
		return errors.FrameNotFound(we.Name)
	case "namespace_not_found":
		return errors.NamespaceNotFound(we.Name)
	case "not_found":
		return errors.NotFound(we.Name)
	case "argument":
		return errors.BadArgument(we.Message, "")
	case "auth":
		return errors.ConnectFailed(errors.ReasonAuth, we.Message)
	default:
		return errors.ServerFailure(we.Message)
	}
}

// ----------------------------------------------------------------------------
// client.Conn implementation

func (c *Conn) ServerVersion() (string, error) {
	var result struct {
		Version string `json:"version"`
	}
	if err := c.call("server_version", nil, &result); err != nil {
		return "", err
	}
	return result.Version, nil
}

// frameInfo is the server's description of a frame.
type frameInfo struct {
	Name     string           `json:"name"`
	Type     client.FrameType `json:"type"`
	RowCount int64            `json:"row_count"`
	Schema   []client.Column  `json:"schema"`
	Source   string           `json:"source,omitempty"`
	Target   string           `json:"target,omitempty"`
}

func (c *Conn) GetFrame(name string) (client.Frame, error) {
	var info frameInfo
	if err := c.call("get_frame", map[string]any{"name": name}, &info); err != nil {
		return nil, err
	}
	return &frameHandle{conn: c, info: info}, nil
}

func (c *Conn) ListFrames(namespace string, ftype client.FrameType) ([]client.Frame, error) {
	return c.frameList("list_frames", map[string]any{
		"namespace": namespace,
		"type":      string(ftype),
	})
}

func (c *Conn) FramesByType(ftype client.FrameType, namespace string) ([]client.Frame, error) {
	return c.frameList("frames_by_type", map[string]any{
		"type":      string(ftype),
		"namespace": namespace,
	})
}

func (c *Conn) frameList(op string, args map[string]any) ([]client.Frame, error) {
	var result struct {
		Frames []frameInfo `json:"frames"`
	}
	if err := c.call(op, args, &result); err != nil {
		return nil, err
	}
	frames := make([]client.Frame, len(result.Frames))
	for i, info := range result.Frames {
		frames[i] = &frameHandle{conn: c, info: info}
	}
	return frames, nil
}

func (c *Conn) Namespaces() ([]string, error) {
	var result struct {
		Namespaces []string `json:"namespaces"`
	}
	if err := c.call("namespaces", nil, &result); err != nil {
		return nil, err
	}
	return result.Namespaces, nil
}

func (c *Conn) DefaultNamespace() (string, error) {
	var result struct {
		Namespace string `json:"namespace"`
	}
	if err := c.call("default_namespace", nil, &result); err != nil {
		return "", err
	}
	return result.Namespace, nil
}

func (c *Conn) SetDefaultNamespace(ns string) error {
	return c.call("set_default_namespace", map[string]any{"namespace": ns}, nil)
}

// jobInfo is the server's description of a submitted job.
type jobInfo struct {
	ID     int             `json:"id"`
	Status string          `json:"status"`
	Schema []client.Column `json:"schema,omitempty"`
}

func (c *Conn) Execute(text string) (client.Job, error) {
	var info jobInfo
	if err := c.call("run_job", map[string]any{"query": text}, &info); err != nil {
		return nil, err
	}
	return &jobHandle{conn: c, info: info}, nil
}

func (c *Conn) Jobs() ([]client.JobInfo, error) {
	var result struct {
		Jobs []client.JobInfo `json:"jobs"`
	}
	if err := c.call("jobs", nil, &result); err != nil {
		return nil, err
	}
	return result.Jobs, nil
}

func (c *Conn) CancelJob(id int) error {
	return c.call("cancel_job", map[string]any{"id": id}, nil)
}

func (c *Conn) DropFrame(name string) error {
	return c.call("drop_frame", map[string]any{"name": name}, nil)
}

func (c *Conn) DropFrames(names []string) error {
	return c.call("drop_frames", map[string]any{"names": names}, nil)
}

func (c *Conn) WaitForMetrics() error {
	return c.call("wait_for_metrics", nil, nil)
}

func (c *Conn) Config() (map[string]any, error) {
	var result struct {
		Config map[string]any `json:"config"`
	}
	if err := c.call("get_config", nil, &result); err != nil {
		return nil, err
	}
	return result.Config, nil
}

func (c *Conn) SetConfig(key string, value any) error {
	return c.call("set_config", map[string]any{"key": key, "value": value}, nil)
}

func (c *Conn) Memory() (client.MemoryInfo, error) {
	var result client.MemoryInfo
	if err := c.call("memory", nil, &result); err != nil {
		return client.MemoryInfo{}, err
	}
	return result, nil
}

func (c *Conn) UserLabels() ([]string, error) {
	var result struct {
		Labels []string `json:"labels"`
	}
	if err := c.call("user_labels", nil, &result); err != nil {
		return nil, err
	}
	return result.Labels, nil
}

func (c *Conn) FrameLabels(name string) (client.FrameLabels, error) {
	var result struct {
		Labels client.FrameLabels `json:"labels"`
	}
	if err := c.call("frame_labels", map[string]any{"name": name}, &result); err != nil {
		return nil, err
	}
	return result.Labels, nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// ----------------------------------------------------------------------------
// Frame and job handles

// resultPayload is the wire form of a result set.
type resultPayload struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (p *resultPayload) toResultSet() *client.ResultSet {
	return &client.ResultSet{Columns: p.Columns, Rows: p.Rows}
}

type frameHandle struct {
	conn *Conn
	info frameInfo
}

func (f *frameHandle) Name() string { return f.info.Name }

func (f *frameHandle) Type() client.FrameType { return f.info.Type }

func (f *frameHandle) RowCount() int64 { return f.info.RowCount }

func (f *frameHandle) Schema() []client.Column { return f.info.Schema }

func (f *frameHandle) Source() string { return f.info.Source }

func (f *frameHandle) Target() string { return f.info.Target }

func (f *frameHandle) Rows(offset, limit int) (*client.ResultSet, error) {
	var result resultPayload
	err := f.conn.call("frame_rows", map[string]any{
		"name":   f.info.Name,
		"offset": offset,
		"limit":  limit,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.toResultSet(), nil
}

func (f *frameHandle) Save(path string) error {
	return f.conn.call("save_frame", map[string]any{
		"name":    f.info.Name,
		"path":    path,
		"headers": true,
	}, nil)
}

type jobHandle struct {
	conn *Conn
	info jobInfo
}

func (j *jobHandle) ID() int { return j.info.ID }

func (j *jobHandle) Status() string { return j.info.Status }

func (j *jobHandle) Schema() []client.Column { return j.info.Schema }

func (j *jobHandle) Data() (*client.ResultSet, error) {
	var result resultPayload
	if err := j.conn.call("job_data", map[string]any{"id": j.info.ID}, &result); err != nil {
		return nil, err
	}
	return result.toResultSet(), nil
}
