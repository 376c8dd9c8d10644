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

// Package history persists the interactive command history across shell
// sessions. The store keeps the most recent entries in memory and appends
// accepted lines to a plain text file, one entry per line, so the file can
// be inspected or edited with ordinary tools.
//
// History persistence is best-effort: a missing or unwritable history file
// degrades the shell to in-memory history rather than failing startup.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"graphsh/internal/logging"
)

var log = logging.NewLogger("history")

// MaxEntries bounds both the in-memory history and the rewritten file.
// When the file holds more lines than this, only the newest are loaded.
const MaxEntries = 1000

// DefaultPath returns the default history file location,
// ~/.graphsh_history in the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".graphsh_history"
	}
	return filepath.Join(home, ".graphsh_history")
}

// Store is a line-oriented history backed by a file. A nil file handle
// means persistence is disabled and entries live only in memory.
type Store struct {
	path    string
	entries []string
	file    *os.File
}

// Open loads history from path and opens it for appending. If the file
// does not exist it is created on first append. Load errors other than
// "not exist" disable persistence but never fail the open.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	if err := s.load(); err != nil {
		log.Warn("failed to load history file", "path", path, "error", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.Warn("history persistence disabled", "path", path, "error", err)
		return s, nil
	}
	s.file = f
	return s, nil
}

// load reads the existing history file, keeping only the newest
// MaxEntries lines.
func (s *Store) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		s.entries = append(s.entries, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[len(s.entries)-MaxEntries:]
	}
	return nil
}

// Entries returns the history from oldest to newest. The returned slice
// is a copy; callers may not mutate the store through it.
func (s *Store) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries currently held.
func (s *Store) Len() int {
	return len(s.entries)
}

// Append records an accepted input line. Empty lines and exact
// repetitions of the most recent entry are skipped. The line is flushed
// to the history file immediately so a crash loses at most nothing.
func (s *Store) Append(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if n := len(s.entries); n > 0 && s.entries[n-1] == line {
		return
	}

	s.entries = append(s.entries, line)
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[len(s.entries)-MaxEntries:]
	}

	if s.file == nil {
		return
	}
	if _, err := fmt.Fprintln(s.file, line); err != nil {
		log.Warn("failed to append history entry", "path", s.path, "error", err)
		return
	}
	if err := s.file.Sync(); err != nil {
		log.Warn("failed to sync history file", "path", s.path, "error", err)
	}
}

// Close releases the underlying file. If the file has accumulated more
// than MaxEntries lines across sessions it is rewritten with just the
// newest entries so it cannot grow without bound.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil

	if trimErr := s.trimFile(); trimErr != nil {
		log.Warn("failed to trim history file", "path", s.path, "error", trimErr)
	}
	return err
}

// trimFile rewrites the history file when it exceeds the entry bound.
func (s *Store) trimFile() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	var count int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	f.Close()
	if err := scanner.Err(); err != nil {
		return err
	}
	if count <= MaxEntries {
		return nil
	}

	tmp := s.path + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	for _, line := range s.entries {
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path)
}
