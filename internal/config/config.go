package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/homelab-core/dispatchrr/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfigPath = "DISPATCHRR_CONFIG"
	envRepo       = "DISPATCHRR_REPO"
	envVerbose    = "DISPATCHRR_VERBOSE"
	envTrace      = "DISPATCHRR_TRACE"
	envLogFile    = "DISPATCHRR_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("dispatchrr", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configPath := fs.String("config", envOrDefault(env, envConfigPath, ""), "path to the config file (overrides the user config directory)")
	repo := fs.String("repo", envOrDefault(env, envRepo, ""), "owner/name of a repository to select on startup")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "log successful actions as well as failures")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			ConfigPath: *configPath,
			Repo:       *repo,
			Verbose:    *verbose,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"config":  *configPath,
			"repo":    *repo,
			"trace":   strconv.FormatBool(*trace),
			"verbose": strconv.FormatBool(*verbose),
			"logFile": *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if repo := strings.TrimSpace(cfg.App.Repo); repo != "" {
		parts := strings.Split(repo, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("repo must be owner/name (got %q)", repo)
		}
	}
	return nil
}
