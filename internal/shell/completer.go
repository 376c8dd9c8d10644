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
	"sort"
	"strings"

	"graphsh/internal/client"
)

// Completer produces tab completions for the interactive loop. It is
// read-only over the Env and the server: completion never mutates state, so
// repeated calls with the same input and server state return the same
// candidates. Server lookups that fail (including a disconnected session)
// yield no candidates rather than an error.
type Completer struct {
	env *Env
	reg *Registry
}

// NewCompleter creates a Completer over a dispatcher's registry.
func NewCompleter(d *Dispatcher) *Completer {
	return &Completer{env: d.env, reg: d.reg}
}

// Complete returns the candidates for a partial argument of a named
// command. An empty commandName completes command names themselves.
func (c *Completer) Complete(commandName, partial string) []string {
	if commandName == "" {
		return prefixFilter(c.reg.Names(), partial)
	}
	cmd, ok := c.reg.Lookup(commandName)
	if !ok || cmd.Complete == nil {
		return nil
	}
	return cmd.Complete(c.env, partial)
}

// Do implements readline.AutoCompleter. It completes the command name while
// the first token is being typed and delegates to the command's completion
// provider afterwards.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])

	var candidates []string
	var partial string

	if i := strings.IndexAny(head, " \t"); i < 0 {
		partial = head
		candidates = c.Complete("", partial)
	} else {
		name := head[:i]
		rest := strings.TrimLeft(head[i:], " \t")
		// Complete only the token under the cursor.
		if j := strings.LastIndexAny(rest, " \t"); j >= 0 {
			partial = rest[j+1:]
		} else {
			partial = rest
		}
		candidates = c.Complete(name, partial)
	}

	out := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, []rune(cand[len(partial):]+" "))
	}
	// readline counts the replaced span in runes, not bytes.
	return out, len([]rune(partial))
}

// prefixFilter returns the sorted members of names that start with prefix.
func prefixFilter(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// completeNamespace completes against the server's namespace list.
func completeNamespace(env *Env, partial string) []string {
	conn, err := env.Session.Conn()
	if err != nil {
		return nil
	}
	namespaces, err := conn.Namespaces()
	if err != nil {
		return nil
	}
	return prefixFilter(namespaces, partial)
}

// completeFrame completes against the frames of the default namespace.
func completeFrame(env *Env, partial string) []string {
	conn, err := env.Session.Conn()
	if err != nil {
		return nil
	}
	ns, err := conn.DefaultNamespace()
	if err != nil {
		return nil
	}
	frames, err := listFrames(env, ns, client.FrameAny)
	if err != nil {
		return nil
	}
	var names []string
	for _, f := range frames {
		if env.visibleFrame(f.Name()) {
			names = append(names, f.Name())
		}
	}
	return prefixFilter(names, partial)
}

// completeConfig completes the "set" subcommand and configuration keys.
func completeConfig(env *Env, partial string) []string {
	candidates := []string{"set"}
	if conn, err := env.Session.Conn(); err == nil {
		if config, err := conn.Config(); err == nil {
			for k := range config {
				candidates = append(candidates, k)
			}
		}
	}
	return prefixFilter(candidates, partial)
}
