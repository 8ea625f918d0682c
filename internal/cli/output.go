// internal/cli/output.go
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/colebanman/grabbit-cli/internal/api"
	"github.com/colebanman/grabbit-cli/internal/capture"
)

// Exit codes
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1 // General errors
	ExitCodeUsage   = 2 // Usage errors (invalid command, missing args, etc.)
)

// UsageError represents a usage/input error (exit code 2)
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// NewUsageError creates a new usage error
func NewUsageError(msg string) error {
	return &UsageError{Message: msg}
}

// ExitError carries an exit code whose cause has already been reported,
// usually by grabbit-browse itself.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// OutputJSON outputs data as JSON
func OutputJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ErrorResponse is the JSON error format
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// Error codes
const (
	ErrCodeUsage        = "USAGE_ERROR"
	ErrCodeUser         = "USER_ERROR"
	ErrCodeWaitlisted   = "WAITLISTED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeAPI          = "API_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// OutputError reports err on stderr, or as JSON on stdout with --json.
func OutputError(err error) {
	if flagJSON {
		writeErrorJSON(os.Stdout, err)
		return
	}
	writeError(os.Stderr, err)
}

func writeError(w io.Writer, err error) {
	var exitErr *ExitError
	if err == nil || errors.As(err, &exitErr) {
		return
	}

	if isWaitlisted(err) {
		fmt.Fprintln(w, "Error: Account is waitlisted")
		fmt.Fprintln(w, "Check the waitlist page or contact support.")
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
	if hint := remediation(err); hint != "" {
		fmt.Fprintln(w, hint)
	}
}

func writeErrorJSON(w io.Writer, err error) {
	var exitErr *ExitError
	if err == nil || errors.As(err, &exitErr) {
		return
	}
	_ = OutputJSON(w, ErrorResponse{
		Error: ErrorDetail{
			Code:    getErrorCode(err),
			Message: err.Error(),
			Hint:    remediation(err),
		},
	})
}

func remediation(err error) string {
	var r interface{ Remediation() string }
	if errors.As(err, &r) {
		return r.Remediation()
	}
	return ""
}

func isWaitlisted(err error) bool {
	var apiErr *api.APIError
	return errors.As(err, &apiErr) && apiErr.IsWaitlisted()
}

// GetExitCode returns the appropriate exit code for an error
func GetExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Check for usage errors
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitCodeUsage
	}

	// Check for cobra usage errors (unknown command, missing args, etc.)
	if isCobraUsageError(err) {
		return ExitCodeUsage
	}

	return ExitCodeError
}

func isCobraUsageError(err error) bool {
	errMsg := err.Error()
	return strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "unknown flag") ||
		strings.Contains(errMsg, "unknown shorthand flag") ||
		strings.Contains(errMsg, "requires at least") ||
		strings.Contains(errMsg, "accepts at most") ||
		strings.Contains(errMsg, "flag needs an argument") ||
		strings.Contains(errMsg, "accepts ") || // Matches "accepts X arg(s), received Y"
		strings.Contains(errMsg, "invalid argument")
}

func getErrorCode(err error) string {
	var usageErr *UsageError
	if errors.As(err, &usageErr) || isCobraUsageError(err) {
		return ErrCodeUsage
	}

	var userErr *capture.UserError
	if errors.As(err, &userErr) {
		return ErrCodeUser
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsWaitlisted():
			return ErrCodeWaitlisted
		case apiErr.StatusCode == 401:
			return ErrCodeUnauthorized
		}
		return ErrCodeAPI
	}

	return ErrCodeInternal
}
