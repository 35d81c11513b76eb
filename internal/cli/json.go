package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Global JSON output flag
var jsonOutput bool

// errAlreadyReported marks an error that was already written as a JSON
// envelope. It still makes the process exit non-zero.
var errAlreadyReported = errors.New("error already reported")

// Response is the standard JSON envelope for all CLI output.
type Response struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error *ErrorInfo  `json:"error,omitempty"`
	Meta  *Meta       `json:"meta,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Meta contains metadata about the response.
type Meta struct {
	Count int `json:"count,omitempty"`
}

// outputJSON outputs the response as JSON to stdout.
func outputJSON(resp Response) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

// outputSuccess outputs a successful JSON response.
func outputSuccess(data interface{}, meta *Meta) {
	outputJSON(Response{
		OK:   true,
		Data: data,
		Meta: meta,
	})
}

// outputError outputs an error JSON response.
func outputError(code, message string, details interface{}, suggestion string) {
	outputJSON(Response{
		OK: false,
		Error: &ErrorInfo{
			Code:       code,
			Message:    message,
			Details:    details,
			Suggestion: suggestion,
		},
	})
}

// isJSONOutput returns true if JSON output is enabled.
func isJSONOutput() bool {
	return jsonOutput
}

// handleError handles an error appropriately based on output mode.
// In JSON mode, outputs a JSON error. In text mode, returns the error for Cobra.
func handleError(code string, err error, suggestion string) error {
	return handleErrorWithDetails(code, err.Error(), suggestion, nil)
}

// handleErrorMsg handles an error message appropriately based on output mode.
func handleErrorMsg(code, message, suggestion string) error {
	return handleErrorWithDetails(code, message, suggestion, nil)
}

// handleErrorWithDetails handles an error with structured details.
func handleErrorWithDetails(code, message, suggestion string, details interface{}) error {
	if jsonOutput {
		outputError(code, message, details, suggestion)
		return errAlreadyReported
	}
	if suggestion != "" {
		return fmt.Errorf("%s\n\n%s", message, suggestion)
	}
	return fmt.Errorf("%s", message)
}
