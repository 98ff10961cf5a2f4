// Package fault defines the error taxonomy shared by every layer of the
// orchestration core. Failures carry a stable code plus a human readable
// message so callers can branch on kind without string matching.
package fault

import (
	"context"
	"errors"
	"fmt"
)

// Code categorizes a generation failure.
type Code string

const (
	ProviderNotFound      Code = "provider_not_found"
	UnsupportedCapability Code = "unsupported_capability"
	ConfigurationMissing  Code = "configuration_missing"
	TransientAPI          Code = "transient_api_error"
	ProviderFailure       Code = "provider_reported_failure"
	QuotaExceeded         Code = "quota_exceeded"
	StreamInterrupted     Code = "stream_interrupted"
	PollingExhausted      Code = "polling_exhausted"
	Timeout               Code = "timeout"
	Cancelled             Code = "cancelled"
)

// Error is the one failure type that crosses layer boundaries.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// New builds an Error explicitly.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under code, preserving the original for
// errors.Is/As chains. An err that already carries a classification keeps
// it, the proposed code is ignored.
func Wrap(err error, code Code) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{Code: code, Message: err.Error(), wrapped: err}
}

// Override classifies err under code even when it already carries a
// different classification. The original error stays in the chain.
func Override(err error, code Code) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: err.Error(), wrapped: err}
}

// CodeOf returns the classification of err, or the zero Code when err was
// never classified.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

func classify(code Code) func(error) bool {
	return func(err error) bool {
		if err == nil {
			return false
		}
		var fe *Error
		if errors.As(err, &fe) {
			return fe.Code == code
		}
		return false
	}
}

// Helper predicates for the common branches.
var (
	IsProviderNotFound  = classify(ProviderNotFound)
	IsUnsupported       = classify(UnsupportedCapability)
	IsConfigMissing     = classify(ConfigurationMissing)
	IsTransient         = classify(TransientAPI)
	IsProviderFailure   = classify(ProviderFailure)
	IsQuotaExceeded     = classify(QuotaExceeded)
	IsStreamInterrupted = classify(StreamInterrupted)
	IsPollingExhausted  = classify(PollingExhausted)
	IsTimeout           = classify(Timeout)
	IsCancelled         = classify(Cancelled)
)

// Retryable reports whether retrying the failed operation could help.
// Only transient transport faults qualify. Quota and provider-reported
// failures never do, retrying those wastes the caller's budget.
func Retryable(err error) bool {
	return IsTransient(err)
}

// FromContext maps a context termination to its taxonomy code. Returns
// nil when err is not a context error.
func FromContext(err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: Timeout, Message: "deadline exceeded", wrapped: err}
	case errors.Is(err, context.Canceled):
		return &Error{Code: Cancelled, Message: "cancelled by caller", wrapped: err}
	default:
		return nil
	}
}

// Coerce guarantees a classified error: already classified errors pass
// through, context terminations map to Timeout/Cancelled, and anything
// else is treated as a transient backend fault.
func Coerce(err error) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	if ce := FromContext(err); ce != nil {
		return ce
	}
	return &Error{Code: TransientAPI, Message: err.Error(), wrapped: err}
}
