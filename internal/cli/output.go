package cli

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit statuses of the changeset command.
const (
	ExitSuccess      = 0
	ExitDiffers      = 1 // diff found storages that differ
	ExitCommandError = 2 // bad flag, unreadable fixture or database
)

// ErrorCode classifies a command error in text and JSON output.
type ErrorCode string

const (
	ErrCodeGeneric     ErrorCode = "E001"
	ErrCodeNotFound    ErrorCode = "E005" // fixture path does not exist
	ErrCodeFixture     ErrorCode = "E101" // fixture could not be parsed or applied
	ErrCodeBackend     ErrorCode = "E201" // database could not be opened or read
	ErrCodeBadArgument ErrorCode = "E301"
)

// ExitError is a failed command. Status is the process exit status; Code is
// empty when the command ran but its result is a failure (storages differ).
type ExitError struct {
	Status int
	Code   ErrorCode
	Err    error
}

func (e *ExitError) Error() string {
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// commandError classifies err as a command error.
func commandError(code ErrorCode, err error) *ExitError {
	return &ExitError{Status: ExitCommandError, Code: code, Err: err}
}

// differError reports that n storages differ.
func differError(n int) *ExitError {
	return &ExitError{Status: ExitDiffers, Err: fmt.Errorf("%d storage(s) differ", n)}
}

// ExitStatus maps an error returned by a command to the process exit
// status. Errors raised before a command runs (flag parsing, --format) are
// command errors.
func ExitStatus(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Status
	}
	return ExitCommandError
}

// Response is the JSON envelope of every command result.
type Response struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError is the error part of a Response.
type ResponseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Output writes command results in the format chosen by --format. Results
// go to Out; verbose diagnostics and logs go to Log so JSON stays parseable.
type Output struct {
	Format  string
	Out     io.Writer
	Log     io.Writer
	Verbose bool
}

func newOutput(opts *RootOptions, cmd *cobra.Command) *Output {
	return &Output{
		Format:  opts.Format,
		Out:     cmd.OutOrStdout(),
		Log:     cmd.ErrOrStderr(),
		Verbose: opts.Verbose,
	}
}

// Result writes data as a JSON envelope, or text as a single line.
func (o *Output) Result(data any, text string) error {
	if o.Format == "json" {
		return json.NewEncoder(o.Out).Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(o.Out, text)
	return err
}

// Fail writes err and returns it as an *ExitError. Errors that were not
// classified yet get ErrCodeGeneric.
func (o *Output) Fail(err error) error {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		exitErr = commandError(ErrCodeGeneric, err)
	}
	code := exitErr.Code
	if code == "" {
		code = ErrCodeGeneric
	}

	if o.Format == "json" {
		_ = json.NewEncoder(o.Out).Encode(Response{
			Status: "error",
			Error:  &ResponseError{Code: code, Message: exitErr.Err.Error()},
		})
	} else {
		fmt.Fprintf(o.Out, "Error [%s]: %v\n", code, exitErr.Err)
	}
	return exitErr
}

// Verbosef writes a diagnostic line when --verbose is set.
func (o *Output) Verbosef(format string, args ...any) {
	if o.Verbose {
		fmt.Fprintf(o.Log, format+"\n", args...)
	}
}

// Logger logs to Log at Debug when verbose and discards everything
// otherwise.
func (o *Output) Logger() *zap.Logger {
	if !o.Verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(o.Log),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}
