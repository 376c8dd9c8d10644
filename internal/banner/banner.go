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

// Package banner provides the interactive startup banner for graphsh.
//
// The ASCII art logo is embedded at compile time via //go:embed, so the
// binary carries no external file dependency.
package banner

import (
	_ "embed"
	"fmt"
	"io"

	"graphsh/internal/style"
)

//go:embed banner.txt
var banner string

// Version information for graphsh. Version is also what the version
// command reports as the client version.
const (
	Version   = "1.4.0"
	Copyright = "(c)2026 Firefly Software Solutions Inc"
	License   = "Licensed under Apache 2.0"
)

// Print writes the startup banner with version and copyright information.
// Shown once at interactive startup; non-interactive modes skip it so
// their stdout stays machine-consumable.
func Print(w io.Writer) {
	fmt.Fprintln(w, style.Info(banner))
	fmt.Fprintf(w, "%s\n", style.Highlight(fmt.Sprintf(":: graphsh ::  (v%s)", Version)))
	fmt.Fprintln(w, style.Dimmed(Copyright))
	fmt.Fprintln(w, style.Dimmed(License))
	fmt.Fprintln(w)
}
