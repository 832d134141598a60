package lightsail

import (
	"errors"
	"fmt"
	"strings"
)

// ErrServiceNotFound is returned when the container service lookup comes back empty.
var ErrServiceNotFound = errors.New("container service not found")

// CommandError is a failed invocation of the platform CLI.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	op := "command"
	if len(e.Args) > 1 {
		op = e.Args[1]
	}
	return fmt.Sprintf("aws %s failed: %s", op, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsAlreadyExists reports whether err is the platform rejecting a create
// because the resource is already there, usually a race with an earlier run.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exist")
}
