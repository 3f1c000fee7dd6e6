package cli

import (
	"errors"

	"studyledger/internal/core"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitStore = 2
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage) && usage.Help:
		return ExitOK
	case errors.Is(err, core.ErrStore):
		return ExitStore
	default:
		return ExitError
	}
}
