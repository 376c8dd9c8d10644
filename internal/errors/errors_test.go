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

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUserMessage(t *testing.T) {
	err := NotConnected()
	msg := err.UserMessage()

	if !strings.Contains(msg, "not connected to a server") {
		t.Errorf("Expected message to mention disconnection, got %q", msg)
	}
	if !strings.Contains(msg, "Usage: connect") {
		t.Errorf("Expected usage hint in message, got %q", msg)
	}
}

func TestUserMessageWithDetail(t *testing.T) {
	err := ServerFailure("query failed").WithDetail("syntax error near MATCH")
	msg := err.UserMessage()

	if !strings.Contains(msg, "query failed (syntax error near MATCH)") {
		t.Errorf("Expected detail in parentheses, got %q", msg)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		connLevel bool
		argument  bool
	}{
		{"frame not found", FrameNotFound("graph__Person"), true, false, false},
		{"connect failed", ConnectFailed(ReasonNetwork, "refused"), false, true, false},
		{"auth failed", ConnectFailed(ReasonAuth, "bad password"), false, true, false},
		{"connection lost", ConnectionLost(nil), false, true, false},
		{"not connected", NotConnected(), false, true, false},
		{"bad argument", BadArgument("expected integer", "cancel <job-id>"), false, false, true},
		{"unknown command", UnknownCommand("bogus"), false, false, true},
		{"server failure", ServerFailure("boom"), false, false, false},
		{"plain error", errors.New("plain"), false, false, false},
		{"wrapped not found", fmt.Errorf("context: %w", NotFound("ns1")), true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound = %v, want %v", got, tt.notFound)
			}
			if got := IsConnectionLevel(tt.err); got != tt.connLevel {
				t.Errorf("IsConnectionLevel = %v, want %v", got, tt.connLevel)
			}
			if got := IsArgument(tt.err); got != tt.argument {
				t.Errorf("IsArgument = %v, want %v", got, tt.argument)
			}
		})
	}
}

func TestReasonOf(t *testing.T) {
	if r := ReasonOf(ConnectFailed(ReasonAuth, "nope")); r != ReasonAuth {
		t.Errorf("Expected auth reason, got %q", r)
	}
	if r := ReasonOf(ServerFailure("boom")); r != "" {
		t.Errorf("Expected empty reason for server error, got %q", r)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := ConnectionLost(cause)
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the wrapped cause")
	}
}
