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
	"os"

	"graphsh/internal/errors"
)

// Runner executes fixed input through the dispatcher: one query, one
// command, or a script file. All three feed the same Dispatch path as the
// interactive loop, so behavior is identical in both modes.
type Runner struct {
	dispatcher *Dispatcher
	env        *Env
}

// NewRunner creates a Runner over a dispatcher.
func NewRunner(d *Dispatcher) *Runner {
	return &Runner{dispatcher: d, env: d.env}
}

// RunQuery executes a single query and renders its results.
func (r *Runner) RunQuery(text string) error {
	return r.dispatcher.Dispatch("query " + text).Err
}

// RunCommand executes a single shell command line.
func (r *Runner) RunCommand(line string) error {
	return r.dispatcher.Dispatch(line).Err
}

// RunFile executes a script file line by line. Blank lines and comment
// lines are skipped. A failing line reports its error and execution
// continues, matching interactive recoverability, except for
// connection-level failures, which abort the remaining lines.
func (r *Runner) RunFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound(fmt.Sprintf("File %s", path))
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		out := r.dispatcher.Dispatch(scanner.Text())
		if out.Quit {
			break
		}
		if out.Err == nil {
			continue
		}
		fmt.Fprintf(r.env.Errout, "line %d: %s\n", lineNum, userMessage(out.Err))
		if errors.IsConnectionLevel(out.Err) {
			return out.Err
		}
	}
	return scanner.Err()
}

// userMessage extracts the display form of a dispatch error.
func userMessage(err error) string {
	var se *errors.ShellError
	if errors.AsShellError(err, &se) {
		return se.UserMessage()
	}
	return err.Error()
}
