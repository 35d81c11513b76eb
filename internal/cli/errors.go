package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/aidanlsb/setlist/internal/plandoc"
	"github.com/aidanlsb/setlist/internal/planner"
	"github.com/aidanlsb/setlist/internal/vcs"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	ErrConfigInvalid = "CONFIG_INVALID"

	// Document errors
	ErrFileNotFound      = "FILE_NOT_FOUND"
	ErrFileReadError     = "FILE_READ_ERROR"
	ErrFileWriteError    = "FILE_WRITE_ERROR"
	ErrBlockNotFound     = "BLOCK_NOT_FOUND"
	ErrFieldNotFound     = "FIELD_NOT_FOUND"
	ErrMalformedDocument = "MALFORMED_DOCUMENT"

	// Git errors
	ErrGitCommandFailed = "GIT_COMMAND_FAILED"

	// History errors
	ErrDatabaseError = "DATABASE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	ErrInternal = "INTERNAL_ERROR"
)

// classifyError maps an editor error to its code and a suggestion.
func classifyError(err error) (code, suggestion string) {
	var cmdErr *vcs.CommandError
	switch {
	case errors.Is(err, planner.ErrMissingFile):
		return ErrFileNotFound, "Pass --file or set planner_file in config.toml"
	case errors.Is(err, planner.ErrNoAliasMatch),
		errors.Is(err, plandoc.ErrBlockNotFound),
		errors.Is(err, plandoc.ErrNoBlocks):
		return ErrBlockNotFound, "Check block titles with 'setlist show'"
	case errors.Is(err, plandoc.ErrFieldNotFound):
		return ErrFieldNotFound, ""
	case errors.Is(err, plandoc.ErrMalformedArray):
		return ErrMalformedDocument, ""
	case errors.Is(err, planner.ErrInvalidDeliverable):
		return ErrInvalidInput, ""
	case errors.Is(err, planner.ErrInvalidValue):
		return ErrInvalidInput, "Pass the value on a single line"
	case errors.As(err, &cmdErr):
		return ErrGitCommandFailed, ""
	default:
		return ErrInternal, ""
	}
}

// handleEditorError reports an error from the planner. In text mode a failed
// git command's captured output is echoed first.
func handleEditorError(err error) error {
	code, suggestion := classifyError(err)

	var details interface{}
	var cmdErr *vcs.CommandError
	var aliasErr *planner.AliasError
	switch {
	case errors.As(err, &cmdErr):
		if jsonOutput {
			details = map[string]interface{}{
				"args":      cmdErr.Args,
				"exit_code": cmdErr.ExitCode,
				"stdout":    cmdErr.Stdout,
				"stderr":    cmdErr.Stderr,
			}
		} else {
			fmt.Fprint(os.Stdout, cmdErr.Stdout)
			fmt.Fprint(os.Stderr, cmdErr.Stderr)
		}
	case errors.As(err, &aliasErr):
		details = map[string]interface{}{"titles": aliasErr.Titles}
	}

	return handleErrorWithDetails(code, err.Error(), suggestion, details)
}
