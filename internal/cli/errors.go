package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tartampluch/hpde-analytics/internal/auth"
	"github.com/tartampluch/hpde-analytics/internal/config"
)

// ErrConfiguration marks settings that could not be loaded.
var ErrConfiguration = errors.New(config.ErrConfiguration)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return config.ExitCodeSuccess
	case errors.Is(err, context.Canceled):
		return config.ExitCodeCancelled
	default:
		return config.ExitCodeError
	}
}

// PrintError writes the user-facing line for err.
func PrintError(w io.Writer, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(w, "\n"+styles.Warn.Render(config.TextCancelled))
	case errors.Is(err, ErrConfiguration), errors.Is(err, auth.ErrNoCredentials):
		_, _ = fmt.Fprintln(w, styles.Error.Render(fmt.Sprintf(config.TextConfigError, err)))
	default:
		_, _ = fmt.Fprintln(w, styles.Error.Render(fmt.Sprintf(config.TextError, err)))
	}
}
