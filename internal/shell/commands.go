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
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"graphsh/internal/banner"
	"graphsh/internal/client"
	"graphsh/internal/compat"
	"graphsh/internal/errors"
	"graphsh/internal/logging"
)

// systemFramePrefix marks server-internal frames, hidden from listings
// unless verbose is on.
const systemFramePrefix = "sys__"

// scrollPageSize is the number of rows fetched per scroll command.
const scrollPageSize = 20

// builtinCommands returns the full, fixed command set.
func builtinCommands() []*Command {
	return []*Command{
		{Name: "help", Help: "Show available commands, or help for one command", Usage: "help [<command>]", Handler: cmdHelp},
		{Name: "exit", Help: "Exit the shell", Usage: "exit", quit: true},
		{Name: "quit", Help: "Exit the shell", Usage: "quit", quit: true},

		{Name: "connect", Help: "Connect to a server, optionally changing the target", Usage: "connect [host[:port]]", Handler: cmdConnect},
		{Name: "disconnect", Help: "Close the current server connection", Usage: "disconnect", Handler: cmdDisconnect},

		{Name: "query", Help: "Run a query and print its results", Usage: "query <query-text>", Handler: cmdQuery},

		{Name: "show", Help: "Show frame statistics for a namespace", Usage: "show <namespace>", Handler: cmdShow, Complete: completeNamespace},
		{Name: "show_frames", Help: "Show all frames in the default namespace", Usage: "show_frames", Handler: cmdShowFrames},
		{Name: "schema", Help: "Show the schema of a frame", Usage: "schema <frame-name>", Handler: cmdSchema, Complete: completeFrame},
		{Name: "scroll", Help: "Page through frame data, 20 rows at a time", Usage: "scroll <frame-name>", Handler: cmdScroll, Complete: completeFrame},
		{Name: "drop", Help: "Drop a frame", Usage: "drop <frame-name>", Handler: cmdDrop, Complete: completeFrame},
		{Name: "zap", Help: "Drop every frame in a namespace", Usage: "zap <namespace>", Handler: cmdZap, Complete: completeNamespace},
		{Name: "save", Help: "Save a frame to a server-side file", Usage: "save <frame-name> <filename>", Handler: cmdSave, Complete: completeFrame},

		{Name: "namespaces", Help: "List namespaces", Usage: "namespaces", Handler: cmdNamespaces},
		{Name: "default_namespace", Help: "Show or set the default namespace", Usage: "default_namespace [<namespace>]", Handler: cmdDefaultNamespace, Complete: completeNamespace},

		{Name: "config", Help: "Show or set server configuration", Usage: "config [set <param> = <value>]", Handler: cmdConfig, Complete: completeConfig},

		{Name: "jobs", Help: "Show summary information on jobs", Usage: "jobs [<state>]", Handler: cmdJobs},
		{Name: "job", Help: "Show detail information on a job or range of jobs", Usage: "job <job-id> [<end-job-id>]", Handler: cmdJob},
		{Name: "cancel", Help: "Cancel a job", Usage: "cancel <job-id>", Handler: cmdCancel},

		{Name: "memory", Help: "Show server memory status", Usage: "memory", Handler: cmdMemory},
		{Name: "user_labels", Help: "Show the current user's security labels", Usage: "user_labels", Handler: cmdUserLabels},
		{Name: "version", Help: "Show client and server versions", Usage: "version", Handler: cmdVersion},
		{Name: "verbose", Help: "Turn verbose output on or off", Usage: "verbose [on|off]", Handler: cmdVerbose},
		{Name: "debug", Help: "Turn debug output on or off", Usage: "debug [on|off]", Handler: cmdDebug},
	}
}

// ----------------------------------------------------------------------------
// General commands

func cmdHelp(env *Env, args string) error {
	reg := newRegistry(builtinCommands())

	if args != "" {
		name := strings.Fields(args)[0]
		cmd, ok := reg.Lookup(name)
		if !ok {
			return errors.UnknownCommand(name)
		}
		fmt.Fprintf(env.Out, "%s\n  %s\n", cmd.Usage, cmd.Help)
		return nil
	}

	fmt.Fprintln(env.Out, "Available commands:")
	for _, name := range reg.Names() {
		cmd, _ := reg.Lookup(name)
		fmt.Fprintf(env.Out, "  %-18s %s\n", name, cmd.Help)
	}
	fmt.Fprintln(env.Out, "Type 'help <command>' for usage details.")
	return nil
}

func cmdConnect(env *Env, args string) error {
	host, port := "", 0
	if args != "" {
		target := strings.Fields(args)[0]
		if h, p, err := net.SplitHostPort(target); err == nil {
			n, convErr := strconv.Atoi(p)
			if convErr != nil || n < 1 || n > 65535 {
				return errors.BadArgument(fmt.Sprintf("invalid port: %s", p), "connect [host[:port]]")
			}
			host, port = h, n
		} else {
			host = target
		}
	}

	if err := env.Session.Connect(host, port); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Connected to %s\n", env.Session.Addr())
	return nil
}

func cmdDisconnect(env *Env, args string) error {
	if !env.Session.IsConnected() {
		fmt.Fprintln(env.Out, "Already disconnected")
		return nil
	}
	addr := env.Session.Addr()
	if err := env.Session.Disconnect(); err != nil {
		return errors.ServerFailure("error closing connection").WithCause(err)
	}
	fmt.Fprintf(env.Out, "Disconnected from %s\n", addr)
	return nil
}

func cmdVersion(env *Env, args string) error {
	fmt.Fprintf(env.Out, "Client version: %s\n", banner.Version)
	conn, err := env.Session.Conn()
	if err != nil {
		fmt.Fprintln(env.Out, "Server is not connected")
		return nil
	}
	v, err := conn.ServerVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Server version: %s\n", v)
	return nil
}

func cmdVerbose(env *Env, args string) error {
	env.Verbose = !strings.EqualFold(strings.TrimSpace(args), "off")
	return nil
}

func cmdDebug(env *Env, args string) error {
	env.Debug = strings.EqualFold(strings.TrimSpace(args), "on")
	if env.Debug {
		logging.SetGlobalLevel(logging.DEBUG)
	} else {
		logging.SetGlobalLevel(logging.WARN)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Query execution

func cmdQuery(env *Env, args string) error {
	if args == "" {
		return errors.MissingArgument("query text", "query <query-text>")
	}
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}

	job, err := conn.Execute(args)
	if err != nil {
		return err
	}
	rs, err := job.Data()
	if err != nil {
		return err
	}
	return env.formatter().Format(env.Out, rs)
}

// ----------------------------------------------------------------------------
// Frame inspection

// listFrames fetches frames of one type from a namespace using the call
// shape the connected server supports.
func listFrames(env *Env, ns string, ftype client.FrameType) ([]client.Frame, error) {
	conn, err := env.Session.Conn()
	if err != nil {
		return nil, err
	}
	resolver, err := env.Session.Resolver()
	if err != nil {
		return nil, err
	}

	if resolver.Resolve(compat.CapTypedFrameListing) == compat.VariantTypedListing {
		return conn.ListFrames(ns, ftype)
	}
	if ftype == client.FrameAny {
		var all []client.Frame
		for _, t := range []client.FrameType{client.FrameTable, client.FrameVertex, client.FrameEdge} {
			frames, err := conn.FramesByType(t, ns)
			if err != nil {
				return nil, err
			}
			all = append(all, frames...)
		}
		return all, nil
	}
	return conn.FramesByType(ftype, ns)
}

// visibleFrame reports whether a frame should appear in listings. System
// frames are hidden unless verbose is on.
func (e *Env) visibleFrame(name string) bool {
	if e.Verbose {
		return true
	}
	base := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		base = name[i+1:]
	}
	return !strings.HasPrefix(base, systemFramePrefix)
}

// frameLabelsSuffix returns the frame's CRUD access labels as a one-line
// suffix, or "" when the frame has none.
func frameLabelsSuffix(env *Env, conn client.Conn, name string) string {
	labels, err := conn.FrameLabels(name)
	if err != nil {
		if env.Debug {
			return fmt.Sprintf("  [Error retrieving labels: %v]", err)
		}
		return ""
	}
	var parts []string
	for _, op := range []string{"create", "read", "update", "delete"} {
		if vals := labels[op]; len(vals) > 0 {
			parts = append(parts, fmt.Sprintf("%s=%s", op, strings.Join(vals, ",")))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("  [ACLs: %s]", strings.Join(parts, "; "))
}

// frameKindName returns the display name of a frame type, e.g. "TableFrame".
func frameKindName(t client.FrameType) string {
	switch t {
	case client.FrameTable:
		return "TableFrame"
	case client.FrameVertex:
		return "VertexFrame"
	case client.FrameEdge:
		return "EdgeFrame"
	}
	return "Frame"
}

// rowNoun returns what a frame of the given type counts, e.g. "vertices".
func rowNoun(t client.FrameType) string {
	switch t {
	case client.FrameVertex:
		return "vertices"
	case client.FrameEdge:
		return "edges"
	}
	return "rows"
}

func cmdShow(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	fields := strings.Fields(args)
	if len(fields) < 1 {
		return errors.MissingArgument("namespace", "show <namespace>")
	}
	ns := fields[0]

	for _, t := range []client.FrameType{client.FrameTable, client.FrameVertex, client.FrameEdge} {
		frames, err := listFrames(env, ns, t)
		if err != nil {
			return err
		}
		var total int64
		for _, f := range frames {
			if !env.visibleFrame(f.Name()) {
				continue
			}
			total += f.RowCount()
			fmt.Fprintf(env.Out, "%s %s has %s %s%s\n",
				frameKindName(t), f.Name(), comma(f.RowCount()), rowNoun(t),
				frameLabelsSuffix(env, conn, f.Name()))
		}
		fmt.Fprintf(env.Out, "Total %s over all frames: %s\n", rowNoun(t), comma(total))
	}
	return nil
}

func cmdShowFrames(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	ns, err := conn.DefaultNamespace()
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "Frames in namespace '%s':\n\n", ns)

	any := false
	for _, t := range []client.FrameType{client.FrameTable, client.FrameVertex, client.FrameEdge} {
		frames, err := listFrames(env, ns, t)
		if err != nil {
			return err
		}
		var shown []client.Frame
		for _, f := range frames {
			if env.visibleFrame(f.Name()) {
				shown = append(shown, f)
			}
		}
		if len(shown) == 0 {
			continue
		}
		any = true
		fmt.Fprintf(env.Out, "%s Frames:\n", strings.TrimSuffix(frameKindName(t), "Frame"))
		for _, f := range shown {
			fmt.Fprintf(env.Out, "  %s (%s %s)\n", f.Name(), comma(f.RowCount()), rowNoun(t))
		}
	}
	if !any {
		fmt.Fprintln(env.Out, "  No frames found")
	}
	return nil
}

func cmdSchema(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.MissingArgument("frame name", "schema <frame-name>")
	}

	frame, err := conn.GetFrame(name)
	if err != nil {
		return err
	}

	rs := &client.ResultSet{Columns: []string{"column", "type"}}
	for _, col := range frame.Schema() {
		rs.Rows = append(rs.Rows, []any{col.Name, col.Type})
	}
	if err := env.formatter().Format(env.Out, rs); err != nil {
		return err
	}

	if frame.Type() == client.FrameEdge {
		fmt.Fprintf(env.Out, "Source frame: %s, Target frame: %s\n", frame.Source(), frame.Target())
	}
	return nil
}

func cmdScroll(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.MissingArgument("frame name", "scroll <frame-name>")
	}

	frame, err := conn.GetFrame(name)
	if err != nil {
		return err
	}

	offset := env.scrollOffsets[name]
	rs, err := frame.Rows(offset, scrollPageSize)
	if err != nil {
		return err
	}

	if rs.Empty() && offset > 0 {
		// Past the end; wrap to the beginning on the next call.
		env.scrollOffsets[name] = 0
		fmt.Fprintf(env.Out, "End of frame %s\n", name)
		return nil
	}

	fmt.Fprintf(env.Out, "Rows %d-%d of %s:\n", offset, offset+rs.Len()-1, name)
	if err := env.formatter().Format(env.Out, rs); err != nil {
		return err
	}

	if rs.Len() < scrollPageSize {
		env.scrollOffsets[name] = 0
	} else {
		env.scrollOffsets[name] = offset + rs.Len()
	}
	return nil
}

// ----------------------------------------------------------------------------
// Frame mutation

func cmdDrop(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.MissingArgument("frame name", "drop <frame-name>")
	}
	if err := conn.DropFrame(name); err != nil {
		return err
	}
	delete(env.scrollOffsets, name)
	fmt.Fprintf(env.Out, "Dropped frame %s\n", name)
	return nil
}

func cmdZap(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	resolver, err := env.Session.Resolver()
	if err != nil {
		return err
	}
	fields := strings.Fields(args)
	if len(fields) < 1 {
		return errors.MissingArgument("namespace", "zap <namespace>")
	}
	ns := fields[0]

	var deleted int
	switch resolver.Resolve(compat.CapBulkFrameDrop) {
	case compat.VariantBulkDrop:
		frames, err := listFrames(env, ns, client.FrameAny)
		if err != nil {
			return err
		}
		names := make([]string, len(frames))
		for i, f := range frames {
			names[i] = f.Name()
		}
		if err := conn.DropFrames(names); err != nil {
			return err
		}
		deleted = len(names)

	default:
		// Older servers drop one frame at a time. Edges go first since
		// they reference vertex frames, with a metrics barrier before the
		// dependent types.
		edges, err := listFrames(env, ns, client.FrameEdge)
		if err != nil {
			return err
		}
		for _, f := range edges {
			if err := conn.DropFrame(f.Name()); err != nil {
				return err
			}
			if env.Verbose {
				fmt.Fprintf(env.Out, "EdgeFrame %s deleted\n", f.Name())
			}
		}
		if err := conn.WaitForMetrics(); err != nil {
			return err
		}
		for _, t := range []client.FrameType{client.FrameTable, client.FrameVertex} {
			frames, err := listFrames(env, ns, t)
			if err != nil {
				return err
			}
			for _, f := range frames {
				if err := conn.DropFrame(f.Name()); err != nil {
					return err
				}
				if env.Verbose {
					fmt.Fprintf(env.Out, "%s %s deleted\n", frameKindName(t), f.Name())
				}
			}
			deleted += len(frames)
		}
		deleted += len(edges)
	}

	fmt.Fprintf(env.Out, "Deleted %d frames in namespace %s\n", deleted, ns)
	return nil
}

func cmdSave(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return errors.MissingArgument("frame name and filename", "save <frame-name> <filename>")
	}
	name, filename := fields[0], fields[1]

	frame, err := conn.GetFrame(name)
	if err != nil {
		return err
	}
	if err := frame.Save(filename); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Saved frame %s to %s\n", name, filename)
	return nil
}

// ----------------------------------------------------------------------------
// Namespaces

func cmdNamespaces(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	namespaces, err := conn.Namespaces()
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Out, strings.Join(namespaces, ", "))
	return nil
}

func cmdDefaultNamespace(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	ns := strings.TrimSpace(args)
	if ns == "" {
		current, err := conn.DefaultNamespace()
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Out, "Default namespace: %s\n", current)
		return nil
	}
	return conn.SetDefaultNamespace(ns)
}

// ----------------------------------------------------------------------------
// Server configuration

func cmdConfig(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	fields := strings.Fields(args)

	if len(fields) == 0 {
		config, err := conn.Config()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(env.Out, "%s = %v\n", k, config[k])
		}
		return nil
	}

	if fields[0] == "set" && len(fields) == 4 && fields[2] == "=" {
		return conn.SetConfig(fields[1], coerceConfigValue(fields[3]))
	}
	return errors.BadArgument(fmt.Sprintf("unknown config parameters: %v", fields),
		"config [set <param> = <value>]")
}

// coerceConfigValue turns a literal token into a typed value: booleans and
// integers are recognized, everything else stays a string.
func coerceConfigValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

// ----------------------------------------------------------------------------
// Jobs

func cmdJobs(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	jobs, err := conn.Jobs()
	if err != nil {
		return err
	}
	state := strings.TrimSpace(args)

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	for _, job := range jobs {
		if state != "" && job.Status != state {
			continue
		}
		line := fmt.Sprintf("%3d: user=%s status=%s", job.ID, job.User, job.Status)
		if job.Description != "" {
			line += " " + job.Description
		}
		fmt.Fprintln(env.Out, line)
	}
	return nil
}

func cmdJob(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	const usage = "job <job-id> [<end-job-id>]"
	fields := strings.Fields(args)
	if len(fields) < 1 || len(fields) > 2 {
		return errors.BadArgument("expected a job id or a job id range", usage)
	}
	start, err := strconv.Atoi(fields[0])
	if err != nil {
		return errors.BadArgument("job id must be an integer", usage)
	}
	end := start
	if len(fields) == 2 {
		end, err = strconv.Atoi(fields[1])
		if err != nil {
			return errors.BadArgument("job id must be an integer", usage)
		}
	}

	jobs, err := conn.Jobs()
	if err != nil {
		return err
	}
	byID := make(map[int]client.JobInfo, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	for id := start; id <= end; id++ {
		job, ok := byID[id]
		if !ok {
			continue
		}
		fmt.Fprintf(env.Out, "Job #%d, username: %s, status %s:\n", job.ID, job.User, job.Status)
		switch job.Status {
		case "running":
			fmt.Fprintf(env.Out, "  start time: %s\n", job.StartTime)
		case "scheduled":
		default:
			fmt.Fprintf(env.Out, "    start time: %s\n", job.StartTime)
			fmt.Fprintf(env.Out, "      end time: %s\n", job.EndTime)
			fmt.Fprintf(env.Out, "      duration: %s\n", job.EndTime.Sub(job.StartTime))
		}
		if job.Description != "" {
			fmt.Fprintf(env.Out, "   description: %s\n", job.Description)
		}
		if len(job.Schema) > 0 {
			cols := make([]string, len(job.Schema))
			for i, c := range job.Schema {
				cols[i] = fmt.Sprintf("%s:%s", c.Name, c.Type)
			}
			fmt.Fprintf(env.Out, "        schema: %s\n", strings.Join(cols, ", "))
		}
	}
	return nil
}

func cmdCancel(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	const usage = "cancel <job-id>"
	fields := strings.Fields(args)
	if len(fields) < 1 {
		return errors.MissingArgument("job id", usage)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return errors.BadArgument("job id must be an integer", usage)
	}
	return conn.CancelJob(id)
}

// ----------------------------------------------------------------------------
// Server status

func cmdMemory(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	mem, err := conn.Memory()
	if err != nil {
		return err
	}
	footprint := mem.MaxUserGiB - mem.FreeUserGiB
	fmt.Fprintf(env.Out, "Current RAM footprint: %.3f GiB used out of %.3f GiB available.\n",
		footprint, mem.MaxUserGiB)
	return nil
}

func cmdUserLabels(env *Env, args string) error {
	conn, err := env.Session.Conn()
	if err != nil {
		return err
	}
	labels, err := conn.UserLabels()
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		fmt.Fprintln(env.Out, "User has no security labels")
		return nil
	}
	fmt.Fprintln(env.Out, "User security labels:")
	for _, label := range labels {
		fmt.Fprintf(env.Out, "  %s\n", label)
	}
	return nil
}

// comma formats an integer with thousands separators.
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
