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
Package config provides configuration management for the graphsh client.

The configuration system supports multiple sources with clear precedence:
 1. Command-line flags (highest priority)
 2. Environment variables
 3. Configuration file
 4. Default values (lowest priority)

Configuration File Format:
The configuration file uses YAML and lives at ~/.graphsh/config.yaml by
default.

Example configuration file:

	host: graph.internal
	port: 4367
	user: analyst
	namespace: fraud
	format: table
	plain_tables: false
	no_color: false

Environment Variables:
  - GRAPHSH_HOST: Server host name
  - GRAPHSH_PORT: Server port
  - GRAPHSH_USER: Username for the connection
  - GRAPHSH_PASSWORD: Password for basic authentication
  - GRAPHSH_NAMESPACE: Default namespace applied after connecting
  - GRAPHSH_FORMAT: Output format (table, json, csv)
  - GRAPHSH_HISTORY_FILE: History file path
  - NO_COLOR: Disable colored output
*/
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variable names for configuration.
const (
	EnvHost        = "GRAPHSH_HOST"
	EnvPort        = "GRAPHSH_PORT"
	EnvUser        = "GRAPHSH_USER"
	EnvPassword    = "GRAPHSH_PASSWORD"
	EnvNamespace   = "GRAPHSH_NAMESPACE"
	EnvFormat      = "GRAPHSH_FORMAT"
	EnvHistoryFile = "GRAPHSH_HISTORY_FILE"
)

// DefaultPort is the default graph server port.
const DefaultPort = 4367

// Config holds all client configuration.
type Config struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Namespace   string `yaml:"namespace"`
	Format      string `yaml:"format"`
	PlainTables bool   `yaml:"plain_tables"`
	NoColor     bool   `yaml:"no_color"`
	HistoryFile string `yaml:"history_file"`
	Verbose     bool   `yaml:"verbose"`
	Debug       bool   `yaml:"debug"`

	// ConfigFile records where the file-level values came from, "" when
	// only defaults and environment were used.
	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:   "localhost",
		Port:   DefaultPort,
		User:   currentUsername(),
		Format: "table",
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".graphsh", "config.yaml")
}

// Load builds a Config from defaults, an optional YAML file and the
// environment, in that precedence order. An empty path means the default
// location; a missing default file is not an error, a missing explicit file
// is.
//
// Load does not validate: command-line flags outrank file and environment
// values, so the caller validates after merging them in.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
			}
			cfg.ConfigFile = path
		case os.IsNotExist(err) && !explicit:
			// No config file is fine.
		default:
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides file-level values with environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv(EnvUser); v != "" {
		cfg.User = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv(EnvNamespace); v != "" {
		cfg.Namespace = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv(EnvHistoryFile); v != "" {
		cfg.HistoryFile = v
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	switch c.Format {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("invalid format: %q (must be table, json or csv)", c.Format)
	}
	return nil
}

// currentUsername returns the login name of the invoking user, falling back
// to the USER environment variable.
func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
