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
Package session manages the shell's single server connection over its whole
lifetime: connect, reconnect, and disconnect.

A Session owns at most one live connection plus the compatibility resolver
bound to it. Reconnecting dials and validates the new connection before the
old one is released, so a failed attempt never leaves the shell worse off
than before: the previous connection stays usable.
*/
package session

import (
	"fmt"

	"graphsh/internal/client"
	"graphsh/internal/compat"
	"graphsh/internal/errors"
	"graphsh/internal/logging"
)

var log = logging.NewLogger("session")

// Dialer establishes an authenticated connection to a server. The wire
// package supplies the real one; tests substitute their own.
type Dialer func(host string, port int, creds client.Credentials) (client.Conn, error)

// Options configures a new Session.
type Options struct {
	Dialer    Dialer
	Host      string
	Port      int
	Creds     client.Credentials
	Namespace string // default namespace to apply after each connect, "" keeps the server default
}

// Session tracks the shell's connection state. It is not safe for
// concurrent use; the shell drives it from a single goroutine.
type Session struct {
	dialer    Dialer
	host      string
	port      int
	creds     client.Credentials
	namespace string

	conn     client.Conn
	resolver *compat.Resolver
}

// New creates a disconnected Session.
func New(opts Options) *Session {
	return &Session{
		dialer:    opts.Dialer,
		host:      opts.Host,
		port:      opts.Port,
		creds:     opts.Creds,
		namespace: opts.Namespace,
	}
}

// Addr returns the host:port the session targets.
func (s *Session) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Host returns the target host.
func (s *Session) Host() string { return s.host }

// Port returns the target port.
func (s *Session) Port() int { return s.port }

// Username returns the username the session authenticates as.
func (s *Session) Username() string { return s.creds.Username }

// IsConnected reports whether the session holds a live connection.
func (s *Session) IsConnected() bool {
	return s.conn != nil
}

// Conn returns the live connection, or a not-connected error suitable for
// direct display.
func (s *Session) Conn() (client.Conn, error) {
	if s.conn == nil {
		return nil, errors.NotConnected()
	}
	return s.conn, nil
}

// Resolver returns the capability resolver for the live connection, or a
// not-connected error.
func (s *Session) Resolver() (*compat.Resolver, error) {
	if s.resolver == nil {
		return nil, errors.NotConnected()
	}
	return s.resolver, nil
}

// Connect dials the session's target and swaps in the new connection.
// Empty host and zero port keep the current target; otherwise
// `connect otherhost:4367` retargets the session.
//
// The new connection is validated with a round trip before the old one is
// closed, and a retarget is committed only together with the connection
// swap. On any failure the session is left exactly as it was, target
// included.
func (s *Session) Connect(host string, port int) error {
	if host == "" {
		host = s.host
	}
	if port == 0 {
		port = s.port
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	log.Debug("dialing server", "addr", addr, "user", s.creds.Username)

	conn, err := s.dialer(host, port, s.creds)
	if err != nil {
		return err
	}

	// Validate with a round trip so a half-open socket is caught here, not
	// on the user's first command.
	if _, err := conn.ServerVersion(); err != nil {
		conn.Close()
		return errors.ConnectFailed(errors.ReasonNetwork,
			fmt.Sprintf("unable to connect to %s", addr)).WithCause(err)
	}

	if s.namespace != "" {
		if err := conn.SetDefaultNamespace(s.namespace); err != nil {
			conn.Close()
			return err
		}
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			log.Debug("error closing previous connection", "error", err)
		}
	}
	s.host = host
	s.port = port
	s.conn = conn
	s.resolver = compat.NewResolver(conn)

	log.Debug("connected", "addr", s.Addr())
	return nil
}

// Disconnect closes the live connection if any. Disconnecting a
// disconnected session is a no-op.
func (s *Session) Disconnect() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.resolver = nil
	return err
}

// Drop discards the connection without attempting a close handshake. Used
// after a detected connection loss, when the socket is already dead.
func (s *Session) Drop() {
	if s.conn != nil {
		s.conn.Close()
	}
	s.conn = nil
	s.resolver = nil
}
