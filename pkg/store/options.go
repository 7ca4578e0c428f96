package store

import (
	"time"

	"github.com/matt-steen/todo-board/pkg/model"
)

const defaultWriteTimeout = 5 * time.Second

// Option configures a Store.
type Option func(*Store)

// WithKey changes the key the board is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithUsers sets the local users. The first one is current until SwitchUser is called.
func WithUsers(users []model.User) Option {
	return func(s *Store) {
		s.users = append([]model.User(nil), users...)
	}
}

// WithAssignmentPolicy replaces the default RoutedAssignment.
func WithAssignmentPolicy(policy model.AssignmentPolicy) Option {
	return func(s *Store) {
		s.policy = policy
	}
}

// WithDueDatePolicy sets how AddTask fills in a missing due date.
func WithDueDatePolicy(policy DueDatePolicy) Option {
	return func(s *Store) {
		s.dueDates = policy
	}
}

// WithDefaults seeds a board that has never been saved.
func WithDefaults(defaults Defaults) Option {
	return func(s *Store) {
		s.defaults = defaults
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithWriteTimeout bounds each background write.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.writeTimeout = timeout
	}
}
