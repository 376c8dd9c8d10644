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
Package shell implements the command core of graphsh: the command registry,
the dispatcher, tab completion, the interactive loop and the non-interactive
runner.

Every input line, interactive or scripted, goes through Dispatcher.Dispatch,
so the two modes cannot drift apart. Handlers receive the shared Env and
signal success or failure through their error return; only the dedicated
exit/quit commands can end the loop, and that decision is made by the
dispatcher, never by a handler.
*/
package shell

import (
	"io"
	"sort"
	"strings"

	"graphsh/internal/errors"
	"graphsh/internal/render"
	"graphsh/internal/session"
)

// Env is the shared state every command handler operates on. The shell is
// single-threaded: one line is fully dispatched before the next is read, so
// Env needs no locking.
type Env struct {
	Session *session.Session
	Out     io.Writer
	Errout  io.Writer

	Format             render.Format
	HasTabularRenderer bool
	Verbose            bool
	Debug              bool

	// scroll positions, keyed by frame name
	scrollOffsets map[string]int
}

// NewEnv creates an Env with the default table format and an aligned
// tabular renderer.
func NewEnv(sess *session.Session, out, errout io.Writer) *Env {
	return &Env{
		Session:            sess,
		Out:                out,
		Errout:             errout,
		Format:             render.FormatTable,
		HasTabularRenderer: true,
		scrollOffsets:      make(map[string]int),
	}
}

// formatter returns the output formatter for the Env's current settings.
func (e *Env) formatter() render.Formatter {
	return render.New(e.Format, e.HasTabularRenderer)
}

// Handler executes one command. args is everything after the command name,
// unparsed; each handler owns its own argument grammar.
type Handler func(env *Env, args string) error

// CompleteFunc produces argument completions for a partial token.
type CompleteFunc func(env *Env, partial string) []string

// Command is one named shell operation. The set of commands is fixed at
// startup; there is no dynamic registration.
type Command struct {
	Name     string
	Help     string
	Usage    string
	Handler  Handler
	Complete CompleteFunc

	// quit marks the commands that end the loop. Termination is decided by
	// the dispatcher from this flag, never by a handler.
	quit bool
}

// Registry maps command names to commands.
type Registry struct {
	commands map[string]*Command
	names    []string
}

func newRegistry(cmds []*Command) *Registry {
	r := &Registry{commands: make(map[string]*Command, len(cmds))}
	for _, c := range cmds {
		r.commands[c.Name] = c
		r.names = append(r.names, c.Name)
	}
	sort.Strings(r.names)
	return r
}

// Lookup returns the command with the given name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Names returns all command names in sorted order.
func (r *Registry) Names() []string {
	return r.names
}

// Outcome is the result of dispatching one line.
type Outcome struct {
	// Quit is set when the line requests loop termination.
	Quit bool
	// Err is the command-level or connection-level failure, nil on success.
	// The caller owns reporting it; the dispatcher never prints.
	Err error
}

// commentMarker starts a comment line; the rest of the line is ignored.
const commentMarker = "#"

// Dispatcher resolves input lines against the registry and runs handlers.
type Dispatcher struct {
	env *Env
	reg *Registry
}

// NewDispatcher creates a Dispatcher with the full built-in command set.
func NewDispatcher(env *Env) *Dispatcher {
	return &Dispatcher{env: env, reg: newRegistry(builtinCommands())}
}

// Registry exposes the dispatcher's command registry, used by completion
// and the help command.
func (d *Dispatcher) Registry() *Registry {
	return d.reg
}

// Dispatch runs one line of input. Empty lines and comments are no-ops.
// An unknown command name or a handler failure is returned in the Outcome;
// the loop continues in either case.
func (d *Dispatcher) Dispatch(line string) Outcome {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, commentMarker) {
		return Outcome{}
	}

	name, args := splitCommand(line)
	cmd, ok := d.reg.Lookup(name)
	if !ok {
		return Outcome{Err: errors.UnknownCommand(name)}
	}

	if cmd.quit {
		return Outcome{Quit: true}
	}

	err := cmd.Handler(d.env, args)
	if err != nil && isConnectionLost(err) {
		// The socket is gone; drop the dead session so later commands
		// report "not connected" instead of failing on a dead handle.
		d.env.Session.Drop()
	}
	return Outcome{Err: err}
}

// splitCommand separates the command name from its argument remainder. The
// remainder is passed to the handler verbatim.
func splitCommand(line string) (name, args string) {
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

// isConnectionLost reports whether err indicates a mid-session connection
// drop, as opposed to a failed connect attempt or a disconnected state.
func isConnectionLost(err error) bool {
	var se *errors.ShellError
	return errors.AsShellError(err, &se) && se.Code == errors.ErrCodeConnectionLost
}
