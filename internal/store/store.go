// Package store persists the user's repositories and saved replays as a
// small YAML document in the user config directory.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/homelab-core/dispatchrr/internal/logging/events"
	"gopkg.in/yaml.v3"
)

// Config is the persisted document.
type Config struct {
	Repos []Repo `yaml:"repos"`
}

// Repo is one tracked repository, identified by its owner/name slug.
type Repo struct {
	Name    string   `yaml:"name"`
	Replays []Replay `yaml:"replays,omitempty"`
}

// Replay is a saved set of workflow input values that can be dispatched again.
type Replay struct {
	Workflow    string        `yaml:"workflow"`
	Description string        `yaml:"description"`
	Inputs      []ReplayInput `yaml:"inputs"`
}

type ReplayInput struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// SaveError wraps a failed write with the path it targeted.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save config %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Names returns the repo names in declaration order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Repos))
	for i, repo := range c.Repos {
		names[i] = repo.Name
	}
	return names
}

// RepoIndex returns the position of the repo with the given name, or -1.
func (c *Config) RepoIndex(name string) int {
	for i, repo := range c.Repos {
		if repo.Name == name {
			return i
		}
	}
	return -1
}

// AddRepo appends a repo entry. It reports false when the name is already
// present.
func (c *Config) AddRepo(name string) bool {
	if c.RepoIndex(name) >= 0 {
		return false
	}
	c.Repos = append(c.Repos, Repo{Name: name})
	return true
}

// ReplaysFor returns the replays saved for the named repo.
func (c *Config) ReplaysFor(name string) []Replay {
	if i := c.RepoIndex(name); i >= 0 {
		return c.Repos[i].Replays
	}
	return nil
}

// AddReplay appends a replay to the named repo. Unknown repos are ignored.
func (c *Config) AddReplay(name string, replay Replay) {
	if i := c.RepoIndex(name); i >= 0 {
		c.Repos[i].Replays = append(c.Repos[i].Replays, replay)
	}
}

// DeleteReplay removes the replay at position idx for the named repo.
func (c *Config) DeleteReplay(name string, idx int) {
	i := c.RepoIndex(name)
	if i < 0 {
		return
	}
	replays := c.Repos[i].Replays
	if idx < 0 || idx >= len(replays) {
		return
	}
	c.Repos[i].Replays = append(replays[:idx], replays[idx+1:]...)
}

// Store reads and writes the config document at a fixed path.
type Store struct {
	path string
}

// DefaultPath resolves the per-user config file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "dispatchrr", "config.yml"), nil
}

// New returns a store bound to path, or to the default location when path is
// empty.
func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

// Load reads the config document. It never fails: a missing or unreadable
// file yields the zero config so the application always starts.
func (s *Store) Load() Config {
	data, err := os.ReadFile(s.path)
	if err != nil {
		events.Store.LoadFallback(s.path, err)
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		events.Store.LoadFallback(s.path, err)
		return Config{}
	}
	events.Store.Loaded(s.path, len(cfg.Repos))
	return cfg
}

// Save writes the config document, creating the parent directory when
// missing.
func (s *Store) Save(cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		events.Store.SaveError(s.path, err)
		return &SaveError{Path: s.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		events.Store.SaveError(s.path, err)
		return &SaveError{Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		events.Store.SaveError(s.path, err)
		return &SaveError{Path: s.path, Err: err}
	}
	events.Store.Saved(s.path, len(cfg.Repos))
	return nil
}
