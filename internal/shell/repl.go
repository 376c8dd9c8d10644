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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"graphsh/internal/history"
	"graphsh/internal/style"
)

// REPL is the interactive read-eval-print loop. Line editing and tab
// completion come from readline; when readline cannot initialize (no
// terminal, unsupported platform) the loop degrades to a plain scanner
// with the same dispatch behavior.
type REPL struct {
	dispatcher *Dispatcher
	env        *Env
	hist       *history.Store
}

// NewREPL creates a REPL.
func NewREPL(d *Dispatcher, hist *history.Store) *REPL {
	return &REPL{dispatcher: d, env: d.env, hist: hist}
}

// prompt returns the prompt string for the current connection state.
func (r *REPL) prompt() string {
	if r.env.Session.IsConnected() {
		return style.Info("graph") + ">> "
	}
	return style.Info("graph") + style.Dimmed("(disconnected)") + ">> "
}

// Run drives the interactive loop until exit, quit, or end of input.
func (r *REPL) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              r.prompt(),
		AutoComplete:        NewCompleter(r.dispatcher),
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		style.PrintWarning("Advanced line editing unavailable: %v", err)
		return r.runSimple()
	}
	defer rl.Close()

	// The history store owns persistence; readline only gets the in-memory
	// seed for recall and search.
	for _, entry := range r.hist.Entries() {
		rl.SaveHistory(entry)
	}

	for {
		rl.SetPrompt(r.prompt())

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(r.env.Out, style.Dimmed("(Use exit to quit or Ctrl+D)"))
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(r.env.Out)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.hist.Append(line)

		out := r.dispatcher.Dispatch(line)
		if out.Err != nil {
			r.reportError(out.Err)
		}
		if out.Quit {
			return nil
		}
	}
}

// runSimple is the fallback loop without line editing or completion.
func (r *REPL) runSimple() error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(r.env.Out, r.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(r.env.Out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.hist.Append(line)

		out := r.dispatcher.Dispatch(line)
		if out.Err != nil {
			r.reportError(out.Err)
		}
		if out.Quit {
			return nil
		}
	}
}

// reportError prints a dispatch failure without ending the loop.
func (r *REPL) reportError(err error) {
	fmt.Fprintln(r.env.Errout, style.ErrorText("Error: ")+userMessage(err))
}

// filterInput drops control characters readline should not insert.
func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}
