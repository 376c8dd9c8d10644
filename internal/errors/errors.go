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
Package errors provides the structured error system for graphsh.

The error taxonomy mirrors the shell's recovery policy:
  - ConnectError (auth, network, version-incompatible): connection-level;
    leaves the session disconnected, fatal to script files.
  - NotFoundError: a named frame or namespace does not exist; recoverable,
    the handler prints "<name> does not exist" and the loop continues.
  - ArgumentError: malformed command arguments; recoverable, printed with a
    usage example.
  - ServerError: a query or execution failure surfaced by the remote side
    while connected; recoverable.

Every error carries a code, a category, an optional detail, an optional hint
(usually a usage example) and an optional wrapped cause.
*/
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier.
type ErrorCode int

const (
	// Connection errors (1000-1999)
	ErrCodeConnect         ErrorCode = 1000
	ErrCodeAuthFailed      ErrorCode = 1001
	ErrCodeNetwork         ErrorCode = 1002
	ErrCodeVersionMismatch ErrorCode = 1003
	ErrCodeConnectionLost  ErrorCode = 1004
	ErrCodeNotConnected    ErrorCode = 1005

	// Not-found errors (2000-2999)
	ErrCodeNotFound          ErrorCode = 2000
	ErrCodeFrameNotFound     ErrorCode = 2001
	ErrCodeNamespaceNotFound ErrorCode = 2002
	ErrCodeJobNotFound       ErrorCode = 2003

	// Argument errors (3000-3999)
	ErrCodeArgument        ErrorCode = 3000
	ErrCodeMissingArgument ErrorCode = 3001
	ErrCodeInvalidArgument ErrorCode = 3002
	ErrCodeUnknownCommand  ErrorCode = 3003

	// Server errors (4000-4999)
	ErrCodeServer        ErrorCode = 4000
	ErrCodeQueryFailed   ErrorCode = 4001
	ErrCodeProtocolError ErrorCode = 4002

	// Validation errors (5000-5999)
	ErrCodeValidation    ErrorCode = 5000
	ErrCodeInvalidFormat ErrorCode = 5001
)

// Category represents the error category.
type Category string

const (
	CategoryConnect    Category = "CONNECT"
	CategoryNotFound   Category = "NOTFOUND"
	CategoryArgument   Category = "ARGUMENT"
	CategoryServer     Category = "SERVER"
	CategoryValidation Category = "VALIDATION"
)

// ConnectReason narrows a connection-level error.
type ConnectReason string

const (
	ReasonAuth    ConnectReason = "auth"
	ReasonNetwork ConnectReason = "network"
	ReasonVersion ConnectReason = "version-incompatible"
)

// ShellError represents a structured error in graphsh.
type ShellError struct {
	Code     ErrorCode
	Category Category
	Reason   ConnectReason // set for CategoryConnect only
	Message  string
	Detail   string
	Hint     string
	Cause    error
}

// Error implements the error interface.
func (e *ShellError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ERROR %d (%s): %s - %s", e.Code, e.Category, e.Message, e.Detail)
	}
	return fmt.Sprintf("ERROR %d (%s): %s", e.Code, e.Category, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ShellError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly error message for terminal display.
func (e *ShellError) UserMessage() string {
	msg := e.Message
	if e.Detail != "" {
		msg += fmt.Sprintf(" (%s)", e.Detail)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\nUsage: %s", e.Hint)
	}
	return msg
}

// WithDetail adds detail to the error.
func (e *ShellError) WithDetail(detail string) *ShellError {
	e.Detail = detail
	return e
}

// WithHint adds a usage hint to the error.
func (e *ShellError) WithHint(hint string) *ShellError {
	e.Hint = hint
	return e
}

// WithCause adds a cause to the error.
func (e *ShellError) WithCause(cause error) *ShellError {
	e.Cause = cause
	return e
}

// ============================================================================
// Connection Error Constructors
// ============================================================================

// ConnectFailed creates a connection-establishment error.
func ConnectFailed(reason ConnectReason, message string) *ShellError {
	code := ErrCodeConnect
	switch reason {
	case ReasonAuth:
		code = ErrCodeAuthFailed
	case ReasonNetwork:
		code = ErrCodeNetwork
	case ReasonVersion:
		code = ErrCodeVersionMismatch
	}
	return &ShellError{
		Code:     code,
		Category: CategoryConnect,
		Reason:   reason,
		Message:  message,
	}
}

// ConnectionLost creates an error for a connection that dropped mid-session.
func ConnectionLost(cause error) *ShellError {
	return &ShellError{
		Code:     ErrCodeConnectionLost,
		Category: CategoryConnect,
		Reason:   ReasonNetwork,
		Message:  "connection to the server was lost",
		Cause:    cause,
	}
}

// NotConnected creates the error handlers report when a command requires a
// live connection and none exists.
func NotConnected() *ShellError {
	return &ShellError{
		Code:     ErrCodeNotConnected,
		Category: CategoryConnect,
		Reason:   ReasonNetwork,
		Message:  "not connected to a server",
		Hint:     "connect [host[:port]]",
	}
}

// ============================================================================
// Not-Found Error Constructors
// ============================================================================

// FrameNotFound creates an error for a missing frame.
func FrameNotFound(name string) *ShellError {
	return &ShellError{
		Code:     ErrCodeFrameNotFound,
		Category: CategoryNotFound,
		Message:  fmt.Sprintf("Frame %s does not exist", name),
	}
}

// NamespaceNotFound creates an error for a missing namespace.
func NamespaceNotFound(name string) *ShellError {
	return &ShellError{
		Code:     ErrCodeNamespaceNotFound,
		Category: CategoryNotFound,
		Message:  fmt.Sprintf("Namespace %s does not exist", name),
	}
}

// NotFound creates a generic not-found error for a named object.
func NotFound(name string) *ShellError {
	return &ShellError{
		Code:     ErrCodeNotFound,
		Category: CategoryNotFound,
		Message:  fmt.Sprintf("%s does not exist", name),
	}
}

// ============================================================================
// Argument and Server Error Constructors
// ============================================================================

// BadArgument creates an error for malformed command arguments.
func BadArgument(message, usage string) *ShellError {
	return &ShellError{
		Code:     ErrCodeInvalidArgument,
		Category: CategoryArgument,
		Message:  message,
		Hint:     usage,
	}
}

// MissingArgument creates an error for a required argument that was omitted.
func MissingArgument(name, usage string) *ShellError {
	return &ShellError{
		Code:     ErrCodeMissingArgument,
		Category: CategoryArgument,
		Message:  fmt.Sprintf("missing required argument: %s", name),
		Hint:     usage,
	}
}

// UnknownCommand creates an error for an unrecognized command name.
func UnknownCommand(name string) *ShellError {
	return &ShellError{
		Code:     ErrCodeUnknownCommand,
		Category: CategoryArgument,
		Message:  fmt.Sprintf("unknown command: %s", name),
		Hint:     "help",
	}
}

// ServerFailure creates an error for a failure surfaced by the remote side.
func ServerFailure(message string) *ShellError {
	return &ShellError{
		Code:     ErrCodeServer,
		Category: CategoryServer,
		Message:  message,
	}
}

// ProtocolError creates an error for an unexpected wire response.
func ProtocolError(message string) *ShellError {
	return &ShellError{
		Code:     ErrCodeProtocolError,
		Category: CategoryServer,
		Message:  message,
	}
}

// InvalidFormat creates an error for an unsupported output format name.
func InvalidFormat(name string) *ShellError {
	return &ShellError{
		Code:     ErrCodeInvalidFormat,
		Category: CategoryValidation,
		Message:  fmt.Sprintf("invalid output format: %s", name),
		Hint:     "--format {table|json|csv}",
	}
}

// ============================================================================
// Predicates
// ============================================================================

// AsShellError is errors.As specialized to *ShellError.
func AsShellError(err error, target **ShellError) bool {
	return errors.As(err, target)
}

// categoryOf extracts the category from an error chain, or "" if the chain
// contains no ShellError.
func categoryOf(err error) Category {
	var se *ShellError
	if errors.As(err, &se) {
		return se.Category
	}
	return ""
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return categoryOf(err) == CategoryNotFound
}

// IsConnectionLevel reports whether err is connection-level: a failed
// connect, a lost connection, or a command issued while disconnected.
// Connection-level errors abort script-file execution.
func IsConnectionLevel(err error) bool {
	return categoryOf(err) == CategoryConnect
}

// IsArgument reports whether err is an argument error.
func IsArgument(err error) bool {
	return categoryOf(err) == CategoryArgument
}

// ReasonOf returns the connect reason of a connection-level error, or "".
func ReasonOf(err error) ConnectReason {
	var se *ShellError
	if errors.As(err, &se) && se.Category == CategoryConnect {
		return se.Reason
	}
	return ""
}
