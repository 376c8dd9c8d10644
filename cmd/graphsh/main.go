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

// Command graphsh is an interactive and scriptable shell for a remote
// graph database server.
//
// Interactive use:
//
//	graphsh --host graph.internal -u analyst
//
// Non-interactive use (exactly one of -q, -c, -f):
//
//	graphsh -q 'MATCH (v) RETURN count(v)' --format json
//	graphsh -c 'show_frames'
//	graphsh -f ./setup.gsh
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"graphsh/internal/banner"
	"graphsh/internal/client"
	"graphsh/internal/client/wire"
	"graphsh/internal/config"
	"graphsh/internal/errors"
	"graphsh/internal/history"
	"graphsh/internal/logging"
	"graphsh/internal/render"
	"graphsh/internal/session"
	"graphsh/internal/shell"
	"graphsh/internal/style"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		style.PrintError("%s", errorText(err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "graphsh",
		Usage:           "command shell for a remote graph database",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "connect to this host name"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "connect to this port"},
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "username to use for the connection"},
			&cli.StringFlag{Name: "password", Aliases: []string{"pw"}, Usage: "password for basic authentication"},
			&cli.StringFlag{Name: "namespace", Aliases: []string{"n"}, Usage: "set the default namespace before executing commands"},
			&cli.StringFlag{Name: "format", Usage: "output format for query results (table, json, csv)"},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "execute a single query and exit"},
			&cli.StringFlag{Name: "command", Aliases: []string{"c"}, Usage: "execute a single shell command and exit"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "execute commands from a file and exit"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "show detailed information"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "show debug information"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
			&cli.BoolFlag{Name: "plain", Usage: "render tables as plain record blocks"},
			&cli.StringFlag{Name: "config", Usage: "configuration file path"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	modes := 0
	for _, name := range []string{"query", "command", "file"} {
		if c.String(name) != "" {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("only one of -q, -c and -f may be given")
	}
	interactive := modes == 0

	if cfg.NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		style.SetColorsEnabled(false)
	}
	if cfg.Debug {
		logging.SetGlobalLevel(logging.DEBUG)
	}

	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	sess := session.New(session.Options{
		Dialer:    wire.Dial,
		Host:      cfg.Host,
		Port:      cfg.Port,
		Creds:     client.Credentials{Username: cfg.User, Password: cfg.Password},
		Namespace: cfg.Namespace,
	})
	env := shell.NewEnv(sess, os.Stdout, os.Stderr)
	env.Format = format
	env.HasTabularRenderer = !cfg.PlainTables
	env.Verbose = cfg.Verbose
	env.Debug = cfg.Debug
	dispatcher := shell.NewDispatcher(env)

	connectErr := sess.Connect("", 0)

	if !interactive {
		// A non-interactive run cannot do anything useful disconnected.
		if connectErr != nil {
			return connectErr
		}
		defer sess.Disconnect()

		runner := shell.NewRunner(dispatcher)
		switch {
		case c.String("query") != "":
			return runner.RunQuery(c.String("query"))
		case c.String("command") != "":
			return runner.RunCommand(c.String("command"))
		default:
			return runner.RunFile(c.String("file"))
		}
	}

	banner.Print(os.Stdout)
	if connectErr != nil {
		style.PrintWarning("%s", errorText(connectErr))
		fmt.Println("Use 'connect' to retry once the server is reachable.")
	} else {
		fmt.Printf("Connected to %s as %s\n", sess.Addr(), sess.Username())
	}
	fmt.Println("Type 'help' for available commands, 'exit' to quit.")
	fmt.Println()

	histPath := cfg.HistoryFile
	if histPath == "" {
		histPath = history.DefaultPath()
	}
	hist, err := history.Open(histPath)
	if err != nil {
		return err
	}
	defer hist.Close()
	defer sess.Disconnect()

	return shell.NewREPL(dispatcher, hist).Run()
}

// applyFlags overrides config values with explicitly supplied flags.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("user") {
		cfg.User = c.String("user")
	}
	if c.IsSet("password") {
		cfg.Password = c.String("password")
	}
	if c.IsSet("namespace") {
		cfg.Namespace = c.String("namespace")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("verbose") {
		cfg.Verbose = c.Bool("verbose")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("no-color") {
		cfg.NoColor = c.Bool("no-color")
	}
	if c.IsSet("plain") {
		cfg.PlainTables = c.Bool("plain")
	}
}

// errorText renders an error for terminal display, preferring the shell
// error's user message when one is present.
func errorText(err error) string {
	var se *errors.ShellError
	if errors.AsShellError(err, &se) {
		return se.UserMessage()
	}
	return err.Error()
}
