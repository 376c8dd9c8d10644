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
Package style provides terminal text styling for graphsh.

All helpers honor a single global switch so that colored output can be
disabled once at startup (--no-color, the NO_COLOR convention, or a
non-terminal stdout) and every caller degrades to plain text.
*/
package style

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

var colorsEnabled atomic.Bool

func init() {
	colorsEnabled.Store(true)
}

// SetColorsEnabled toggles colored output globally.
func SetColorsEnabled(enabled bool) {
	colorsEnabled.Store(enabled)
}

// ColorsEnabled reports whether colored output is active.
func ColorsEnabled() bool {
	return colorsEnabled.Load()
}

var (
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimmedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	highlightStyle = lipgloss.NewStyle().Bold(true)
)

func render(s lipgloss.Style, text string) string {
	if !colorsEnabled.Load() {
		return text
	}
	return s.Render(text)
}

// Info styles informational text (blue).
func Info(text string) string { return render(infoStyle, text) }

// Success styles success text (green).
func Success(text string) string { return render(successStyle, text) }

// Warning styles warning text (yellow).
func Warning(text string) string { return render(warningStyle, text) }

// ErrorText styles error text (red).
func ErrorText(text string) string { return render(errorStyle, text) }

// Dimmed styles de-emphasized text (gray).
func Dimmed(text string) string { return render(dimmedStyle, text) }

// Highlight styles emphasized text (bold).
func Highlight(text string) string { return render(highlightStyle, text) }

// PrintError prints a formatted error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrorText("Error: ")+fmt.Sprintf(format, args...))
}

// PrintWarning prints a formatted warning message to stderr.
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, Warning("Warning: ")+fmt.Sprintf(format, args...))
}

// PrintInfo prints a formatted informational message to stdout.
func PrintInfo(format string, args ...any) {
	fmt.Println(Info(fmt.Sprintf(format, args...)))
}
