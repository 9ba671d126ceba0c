package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/roach88/matchup/internal/engine"
	"github.com/roach88/matchup/internal/record"
	"github.com/roach88/matchup/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Contradictory observations, failed scenarios, non-deterministic replay
	ExitCommandError = 2 // Command error (unknown names, missing group, bad record file, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string      `json:"status"`             // "ok" or "error"
	Data    interface{} `json:"data,omitempty"`     // success payload
	Error   *CLIError   `json:"error,omitempty"`    // error details
	TraceID string      `json:"trace_id,omitempty"` // optional trace correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "UNKNOWN_PARTICIPANT", "GROUP_NOT_FOUND", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Error codes for failures that do not come from the engine.
const (
	CodeGroupNotFound = "GROUP_NOT_FOUND"
	CodeGroupExists   = "GROUP_EXISTS"
	CodeInvalidRecord = "INVALID_RECORD"
	CodeInvalidArgs   = "INVALID_ARGS"
	CodeSeqConflict   = "SEQ_CONFLICT"
	CodeInternal      = "INTERNAL"
)

// errInvalidArgs marks malformed command-line input.
var errInvalidArgs = errors.New("invalid arguments")

// errorCode classifies err for CLIError.Code.
func errorCode(err error) string {
	var engErr *engine.Error
	var invalid *record.InvalidError
	switch {
	case errors.As(err, &engErr):
		return string(engErr.Code)
	case errors.Is(err, store.ErrGroupNotFound):
		return CodeGroupNotFound
	case errors.Is(err, store.ErrGroupExists):
		return CodeGroupExists
	case errors.Is(err, store.ErrSeqOutOfOrder):
		return CodeSeqConflict
	case errors.As(err, &invalid):
		return CodeInvalidRecord
	case errors.Is(err, errInvalidArgs):
		return CodeInvalidArgs
	default:
		return CodeInternal
	}
}

// errorDetails returns structured context for err, if it has any.
func errorDetails(err error) interface{} {
	var engErr *engine.Error
	if errors.As(err, &engErr) && engErr.Code == engine.ErrCodeUnknownParticipant {
		return map[string]interface{}{
			"side":  engErr.Side,
			"name":  engErr.Name,
			"valid": engErr.Valid,
		}
	}
	var invalid *record.InvalidError
	if errors.As(err, &invalid) {
		return invalid.Errors
	}
	return nil
}

// exitCodeFor maps err to a process exit code. Contradictions are data
// failures; everything else is a command error.
func exitCodeFor(err error) int {
	if engine.IsImpossibleScenario(err) {
		return ExitFailure
	}
	return ExitCommandError
}

// fail reports err through f and returns the ExitError the command should
// return. In JSON mode the error envelope is written to f.Writer.
func (f *OutputFormatter) fail(message string, err error) error {
	if f.Format == "json" {
		if encErr := f.Error(errorCode(err), fmt.Sprintf("%s: %v", message, err), errorDetails(err)); encErr != nil {
			return encErr
		}
	}
	return WrapExitError(exitCodeFor(err), message, err)
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	tableNameStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCertain     = tableCellStyle.Foreground(lipgloss.Color("42"))
	tableExcluded    = tableCellStyle.Foreground(lipgloss.Color("240"))
)

// formatProbability renders p with four decimal places.
func formatProbability(p float64) string {
	return strconv.FormatFloat(p, 'f', 4, 64)
}

// renderTable draws t with A-side names down the left and B-side names
// across the top. Certain matches and ruled-out pairs are styled apart
// from the rest.
func renderTable(t *engine.Table) string {
	namesA := t.ParticipantsA()
	headers := append([]string{""}, t.ParticipantsB()...)
	values := t.Rows()

	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, namesA[i])
		for _, p := range row {
			cells = append(cells, formatProbability(p))
		}
		rows[i] = cells
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return tableNameStyle
			}
			switch values[row][col-1] {
			case 1:
				return tableCertain
			case 0:
				return tableExcluded
			}
			return tableCellStyle
		}).
		String()
}
