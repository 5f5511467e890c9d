/*
errors.go - Centralized error types for the request engine

PURPOSE:
  All error types in one place. Rule failures are values, never panics: each
  one carries a human-readable reason string suitable for direct display, and
  no failure leaves partial state behind.

ERROR CATEGORIES (the full taxonomy):
  MissingField          Required input absent
  InvalidRange          Inverted date order or out-of-window date
  LimitExceeded         Text length, zero/negative computed duration
  InsufficientCredit    Leave balance exceeded; carries the remaining amount
  MissingDependentField COE without a template name

USAGE:
  Callers branch with errors.Is / errors.As:

    var credErr *engine.InsufficientCreditError
    if errors.As(err, &credErr) {
        show(credErr.Remaining)
    }

SEE ALSO:
  - rules.go: The only producer of rule errors
  - lifecycle.go: Produces ErrNotEditable / ErrRequestNotFound
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("required field missing")

	// ErrInvalidRange is returned for inverted start/end pairs and for dates
	// outside an allowed window (7-day backfill limit, past date-needed).
	ErrInvalidRange = errors.New("invalid date range")

	// ErrLimitExceeded is returned for over-length text and for computed
	// durations that come out zero or negative.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrInsufficientCredit is returned when a leave request exceeds the
	// remaining credit pool for its category.
	ErrInsufficientCredit = errors.New("insufficient leave credits")

	// ErrMissingDependentField is returned when a conditionally required
	// field is absent (COE without template).
	ErrMissingDependentField = errors.New("dependent field missing")

	// ErrLeaveTypeUnavailable is returned when the selected leave type is not
	// offered to the submitting profile.
	ErrLeaveTypeUnavailable = errors.New("leave type not available for profile")

	// ErrNotEditable is returned when the mutability window has closed or the
	// record reached a terminal status.
	ErrNotEditable = errors.New("request is no longer editable")

	// ErrRequestNotFound is returned when an edit targets an unknown id.
	ErrRequestNotFound = errors.New("request not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RuleError is a validation failure with a display-ready message.
type RuleError struct {
	Kind    error  // one of the sentinels above
	Field   string // offending field, when there is a single one
	Message string // shown to the employee as-is
}

func (e *RuleError) Error() string { return e.Message }
func (e *RuleError) Unwrap() error { return e.Kind }

// InsufficientCreditError reports a credit shortage with the remaining pool.
type InsufficientCreditError struct {
	LeaveType LeaveType
	Remaining int
	Requested int
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("Insufficient credits. You only have %d credits remaining for %s.",
		e.Remaining, e.LeaveType)
}

func (e *InsufficientCreditError) Unwrap() error { return ErrInsufficientCredit }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRuleError reports whether err is a rejected submission (recoverable by
// the caller) rather than a store or lifecycle failure.
func IsRuleError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrLimitExceeded) ||
		errors.Is(err, ErrInsufficientCredit) ||
		errors.Is(err, ErrMissingDependentField) ||
		errors.Is(err, ErrLeaveTypeUnavailable)
}

func missing(field, message string) error {
	return &RuleError{Kind: ErrMissingField, Field: field, Message: message}
}

func invalidRange(field, message string) error {
	return &RuleError{Kind: ErrInvalidRange, Field: field, Message: message}
}

func limitExceeded(field, message string) error {
	return &RuleError{Kind: ErrLimitExceeded, Field: field, Message: message}
}
