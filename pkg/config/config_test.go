package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matt-steen/todo-board/pkg/config"
	"github.com/matt-steen/todo-board/pkg/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("TODO_BOARD_REDIS_ADDR", "")
	t.Setenv("TODO_BOARD_LOG_LEVEL", "")
	t.Setenv("TODO_BOARD_DATA", "")

	dir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(filepath.Join(dir, "board.sqlite"), cfg.DataFile)
	assert.Equal("team-todo-storage", cfg.Storage.Key)
	assert.Equal(zerolog.InfoLevel, cfg.Level())
	assert.Equal("", cfg.Storage.Redis.Addr)

	users := cfg.Users()
	assert.Len(users, 2)
	assert.Equal(model.RoleAdmin, users[0].Role)
	assert.Equal(model.RoleMember, users[1].Role)

	assert.Equal(model.RoutedAssignment{}, cfg.AssignmentPolicy())

	links := cfg.Links()
	assert.Equal("l1", links[0].ID)
	assert.Equal("https://google.com", links[0].URL)
}

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("TODO_BOARD_REDIS_ADDR", "")
	t.Setenv("TODO_BOARD_LOG_LEVEL", "")
	t.Setenv("TODO_BOARD_DATA", "")

	path := writeConfig(t, `
data_file: /tmp/other.sqlite
log_level: debug
storage:
  key: my-board
  write_timeout: 750ms
  redis:
    addr: localhost:6379
    db: 3
board:
  due_date_policy: now
  assignment: self
  user_name: Alex
  users:
    - id: a
      name: Alex
      role: Admin
  links:
    - title: Docs
      url: docs.example
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal("/tmp/other.sqlite", cfg.DataFile)
	assert.Equal(zerolog.DebugLevel, cfg.Level())
	assert.Equal("my-board", cfg.Storage.Key)
	assert.Equal(750*time.Millisecond, cfg.Storage.WriteTimeout)
	assert.Equal("localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(3, cfg.Storage.Redis.DB)
	assert.Equal("todo-board:", cfg.Storage.Redis.Prefix)
	assert.Equal("now", cfg.Board.DueDatePolicy)
	assert.Equal(model.SelfAssignment{}, cfg.AssignmentPolicy())
	assert.Equal("Alex", cfg.Board.UserName)
	assert.Equal([]model.User{{ID: "a", Name: "Alex", Role: model.RoleAdmin}}, cfg.Users())
	assert.Equal([]model.Link{{ID: "l1", Title: "Docs", URL: "https://docs.example"}}, cfg.Links())
}

func TestEnvOverrides(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("TODO_BOARD_REDIS_ADDR", "redis:6379")
	t.Setenv("TODO_BOARD_LOG_LEVEL", "warn")
	t.Setenv("TODO_BOARD_DATA", "/data/board.sqlite")

	cfg, err := config.Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)

	assert.Equal("redis:6379", cfg.Storage.Redis.Addr)
	assert.Equal(zerolog.WarnLevel, cfg.Level())
	assert.Equal("/data/board.sqlite", cfg.DataFile)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("TODO_BOARD_REDIS_ADDR", "")
	t.Setenv("TODO_BOARD_LOG_LEVEL", "")
	t.Setenv("TODO_BOARD_DATA", "")

	cases := map[string]string{
		"bad yaml":       "board: [",
		"bad level":      "log_level: loud\n",
		"bad due policy": "board:\n  due_date_policy: tomorrow\n",
		"bad role":       "board:\n  users:\n    - id: a\n      role: owner\n",
		"duplicate user": "board:\n  users:\n    - id: a\n      role: admin\n    - id: a\n      role: member\n",
		"missing id":     "board:\n  users:\n    - name: nobody\n      role: admin\n",
		"empty key":      "storage:\n  key: \" \"\n",
		"bad assignment": "board:\n  assignment: random\n",
	}

	for name, body := range cases {
		_, err := config.Load(writeConfig(t, body))
		assert.NotNil(t, err, name)
	}
}

func TestDefaultDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, filepath.Join("/xdg", config.AppName), config.DefaultDir())
}
