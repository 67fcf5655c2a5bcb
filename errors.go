package hlod

import (
	"errors"
	"fmt"
)

var (
	ErrNoSplitter          = errors.New("hlod: no space splitter configured")
	ErrNoTargets           = errors.New("hlod: no objects to include")
	ErrTooManyRoots        = errors.New("hlod: too many sub trees")
	ErrUnknownCollaborator = errors.New("hlod: unknown collaborator type")
	ErrInvalidConfig       = errors.New("hlod: invalid configuration")
)

// ConfigError aborts a bake before any work is done. Title and Message are
// meant for the user.
type ConfigError struct {
	Title   string
	Message string
	Err     error
}

func newConfigError(err error, title, message string) *ConfigError {
	return &ConfigError{Title: title, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }
