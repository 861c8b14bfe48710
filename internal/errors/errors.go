package errors

import (
	stdErrors "errors"
	"fmt"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	CodeConfig   = "E100"
	CodeDelivery = "E300"
	CodeInternal = "E900"
)

// AppError classifies a failure for reporting. It never carries a user-facing message:
// failures are reported, not translated into replies.
type AppError struct {
	Code     string
	Message  string
	Severity Severity
	cause    error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewConfigError reports invalid startup configuration, such as a non-https web app URL.
func NewConfigError(msg string, cause error) *AppError {
	return &AppError{
		Code:     CodeConfig,
		Message:  msg,
		Severity: SeverityCritical,
		cause:    cause,
	}
}

// NewDeliveryError wraps a failure returned by the Telegram platform while sending a reply.
func NewDeliveryError(method string, cause error) *AppError {
	return &AppError{
		Code:     CodeDelivery,
		Message:  fmt.Sprintf("telegram %s failed", method),
		Severity: SeverityHigh,
		cause:    cause,
	}
}

// NewInternalError reports an unexpected failure inside the bot, such as a recovered panic.
func NewInternalError(cause error) *AppError {
	return &AppError{
		Code:     CodeInternal,
		Message:  "internal error",
		Severity: SeverityCritical,
		cause:    cause,
	}
}

// CodeOf returns the AppError code found in err's chain, or an empty string.
func CodeOf(err error) string {
	var appErr *AppError
	if stdErrors.As(err, &appErr) && appErr != nil {
		return appErr.Code
	}
	return ""
}
