// Package config loads the board's settings from a YAML file in the XDG config directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matt-steen/todo-board/pkg/model"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo-board"

	// FileName is the config file looked up in the config directory.
	FileName = "config.yaml"
)

// Config holds everything the composition root needs.
type Config struct {
	DataFile string  `yaml:"data_file"`
	LogFile  string  `yaml:"log_file"`
	LogLevel string  `yaml:"log_level"`
	Storage  Storage `yaml:"storage"`
	Board    Board   `yaml:"board"`
}

// Storage selects and tunes the persistence backend.
type Storage struct {
	Key          string        `yaml:"key"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Ephemeral    bool          `yaml:"ephemeral"`
	Redis        Redis         `yaml:"redis"`
}

// Redis configures the synced backend. An empty Addr disables it.
type Redis struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	Prefix      string        `yaml:"prefix"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// Board holds the domain defaults.
type Board struct {
	DueDatePolicy string `yaml:"due_date_policy"`
	Assignment    string `yaml:"assignment"`
	UserName      string `yaml:"user_name"`
	Background    string `yaml:"background"`
	Users         []User `yaml:"users"`
	Links         []Link `yaml:"links"`
}

// User is a local user entry.
type User struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// Link is a default quick link.
type Link struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// DefaultDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}

	return filepath.Join(home, ".config", AppName)
}

// Default returns the settings used when no file is present.
func Default(dir string) *Config {
	return &Config{
		DataFile: filepath.Join(dir, "board.sqlite"),
		LogFile:  filepath.Join(dir, "debug.log"),
		LogLevel: "info",
		Storage: Storage{
			Key:          "team-todo-storage",
			WriteTimeout: 5 * time.Second,
			Redis: Redis{
				Prefix:      "todo-board:",
				DialTimeout: 2 * time.Second,
			},
		},
		Board: Board{
			DueDatePolicy: "none",
			Assignment:    "routed",
			Background:    "/background.png",
			Users: []User{
				{ID: "u1", Name: "Owner", Role: "admin"},
				{ID: "u2", Name: "Partner", Role: "member"},
			},
			Links: []Link{
				{Title: "Google", URL: "https://google.com"},
				{Title: "YouTube", URL: "https://youtube.com"},
			},
		},
	}
}

// Load reads path over the defaults. An empty path means DefaultDir()/config.yaml; a missing file
// is not an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	dir := DefaultDir()
	if path == "" {
		path = filepath.Join(dir, FileName)
	} else {
		dir = filepath.Dir(path)
	}

	cfg := Default(dir)

	data, err := os.ReadFile(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TODO_BOARD_REDIS_ADDR"); v != "" {
		c.Storage.Redis.Addr = v
	}

	if v := os.Getenv("TODO_BOARD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv("TODO_BOARD_DATA"); v != "" {
		c.DataFile = v
	}
}

// Validate checks the values a file can get wrong.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	switch c.Board.DueDatePolicy {
	case "none", "now":
	default:
		return fmt.Errorf("invalid due_date_policy %q (want none or now)", c.Board.DueDatePolicy)
	}

	switch c.Board.Assignment {
	case "routed", "self":
	default:
		return fmt.Errorf("invalid assignment %q (want routed or self)", c.Board.Assignment)
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key must not be empty")
	}

	seen := map[string]bool{}

	for _, u := range c.Board.Users {
		if u.ID == "" {
			return fmt.Errorf("user %q has no id", u.Name)
		}

		if seen[u.ID] {
			return fmt.Errorf("duplicate user id %q", u.ID)
		}

		seen[u.ID] = true

		if _, err := model.ParseRole(u.Role); err != nil {
			return fmt.Errorf("user %s: %w", u.ID, err)
		}
	}

	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}

	return level
}

// AssignmentPolicy returns the configured assignment policy.
func (c *Config) AssignmentPolicy() model.AssignmentPolicy {
	if c.Board.Assignment == "self" {
		return model.SelfAssignment{}
	}

	return model.RoutedAssignment{}
}

// Users converts the configured users. Call Validate first.
func (c *Config) Users() []model.User {
	users := make([]model.User, 0, len(c.Board.Users))

	for _, u := range c.Board.Users {
		role, _ := model.ParseRole(u.Role)
		users = append(users, model.User{ID: u.ID, Name: u.Name, Role: role})
	}

	return users
}

// Links converts the default quick links, giving each a stable id.
func (c *Config) Links() []model.Link {
	links := make([]model.Link, 0, len(c.Board.Links))

	for i, l := range c.Board.Links {
		links = append(links, model.Link{
			ID:    fmt.Sprintf("l%d", i+1),
			Title: l.Title,
			URL:   model.NormalizeURL(l.URL),
		})
	}

	return links
}
