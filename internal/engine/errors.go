package engine

import (
	"errors"
	"fmt"
)

// Error represents a failure reported by the engine.
//
// Engine errors include:
//   - Unknown participant: a supplied name is not registered on its side
//   - Invalid query: a hypothetical query with nothing to try
//   - Impossible scenario: probabilities requested over an empty candidate set
//   - Invalid participants: construction with unusable name lists
//   - Invalid observation: a malformed count-match or history record
//
// Validation errors are raised before any state changes.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Side names the participant side for unknown-participant errors.
	Side Side

	// Name is the offending participant name, if any.
	Name string

	// Valid lists the registered names of Side for unknown-participant errors.
	Valid []string
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeUnknownParticipant indicates a name that is not registered.
	ErrCodeUnknownParticipant ErrorCode = "UNKNOWN_PARTICIPANT"

	// ErrCodeInvalidQuery indicates a hypothetical query with no pairs.
	ErrCodeInvalidQuery ErrorCode = "INVALID_QUERY"

	// ErrCodeImpossibleScenario indicates no candidate scenario remains.
	ErrCodeImpossibleScenario ErrorCode = "IMPOSSIBLE_SCENARIO"

	// ErrCodeInvalidParticipants indicates unusable participant lists.
	ErrCodeInvalidParticipants ErrorCode = "INVALID_PARTICIPANTS"

	// ErrCodeInvalidObservation indicates a malformed observation.
	ErrCodeInvalidObservation ErrorCode = "INVALID_OBSERVATION"
)

// Side identifies one of the two participant groups.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsUnknownParticipant reports whether err is an unknown-participant error.
// Uses errors.As to handle wrapped errors.
func IsUnknownParticipant(err error) bool { return hasCode(err, ErrCodeUnknownParticipant) }

// IsInvalidQuery reports whether err is an invalid-query error.
func IsInvalidQuery(err error) bool { return hasCode(err, ErrCodeInvalidQuery) }

// IsImpossibleScenario reports whether err signals contradictory observations.
func IsImpossibleScenario(err error) bool { return hasCode(err, ErrCodeImpossibleScenario) }

// IsInvalidParticipants reports whether err is a construction error.
func IsInvalidParticipants(err error) bool { return hasCode(err, ErrCodeInvalidParticipants) }

// IsInvalidObservation reports whether err rejects a malformed observation.
func IsInvalidObservation(err error) bool { return hasCode(err, ErrCodeInvalidObservation) }

// NewUnknownParticipantError creates an Error for a name missing from side.
// The message enumerates the valid names in registration order.
func NewUnknownParticipantError(side Side, name string, valid []string) *Error {
	return &Error{
		Code:    ErrCodeUnknownParticipant,
		Message: fmt.Sprintf("unknown name %s, must be one of %v", name, valid),
		Side:    side,
		Name:    name,
		Valid:   append([]string(nil), valid...),
	}
}

// NewImpossibleScenarioError creates an Error for an empty candidate set.
func NewImpossibleScenarioError() *Error {
	return &Error{
		Code:    ErrCodeImpossibleScenario,
		Message: "impossible scenario provided, did you enter contradictory data?",
	}
}

// NewInvalidQueryError creates an Error for a hypothetical with no pairs.
func NewInvalidQueryError() *Error {
	return &Error{
		Code:    ErrCodeInvalidQuery,
		Message: "either matches, non-matches, or both must be provided",
	}
}

func newInvalidParticipantsError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidParticipants, Message: fmt.Sprintf(format, args...)}
}

func newInvalidObservationError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidObservation, Message: fmt.Sprintf(format, args...)}
}
