package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/depotlink/gatectl/internal/gate"
)

// Process exit codes, one per failure class.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitConfig    = 3
	ExitTransport = 4
	ExitAPI       = 5
)

// usageError is a missing or invalid argument, mode or flag. It is reported
// together with the usage line of the command that rejected it.
type usageError struct {
	msg   string
	usage string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(cmd *cobra.Command, format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...), usage: cmd.UseLine()}
}

// optionsError is an invalid option value or an unreadable config file.
type optionsError struct {
	err error
}

func (e *optionsError) Error() string { return e.err.Error() }
func (e *optionsError) Unwrap() error { return e.err }

// ExitCode maps an error returned by the gatectl command to a process exit
// code.
func ExitCode(err error) int {
	var (
		usageErr  *usageError
		optsErr   *optionsError
		configErr *gate.ConfigError
		transErr  *gate.TransportError
		apiErr    *gate.APIError
		validErr  *gate.ValidationError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usageErr), errors.As(err, &validErr):
		return ExitUsage
	case errors.As(err, &optsErr), errors.As(err, &configErr):
		return ExitConfig
	case errors.As(err, &transErr):
		return ExitTransport
	case errors.As(err, &apiErr):
		return ExitAPI
	default:
		return ExitFailure
	}
}

// Report writes err for the user. Usage and API errors go to stdout, the way
// the gate tool always printed them; everything else goes to stderr.
func Report(stdout, stderr io.Writer, err error) {
	var (
		usageErr *usageError
		apiErr   *gate.APIError
		transErr *gate.TransportError
	)
	switch {
	case err == nil:
	case errors.As(err, &usageErr):
		fmt.Fprintf(stdout, "Error: %s\n", usageErr.msg)
		fmt.Fprintf(stdout, "Usage: %s\n", usageErr.usage)
	case errors.As(err, &apiErr):
		fmt.Fprintf(stdout, "Error: %s\n", apiErr.Status)
		fmt.Fprintf(stdout, "Error Content: %s\n", apiErr.Body)
	case errors.As(err, &transErr) && transErr.CertificateRejected():
		fmt.Fprintf(stderr, "Error: server certificate rejected: %v\n", err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
}

// Execute runs cmd and returns the process exit code.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	Report(cmd.OutOrStdout(), cmd.ErrOrStderr(), err)
	return ExitCode(err)
}
