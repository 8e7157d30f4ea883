package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures surfaced to portal users
type ErrorKind string

const (
	KindInputTooLarge    ErrorKind = "input_too_large"
	KindExtractionFailed ErrorKind = "extraction_failed"
	KindValidationFailed ErrorKind = "validation_failed"
	KindStorageFailed    ErrorKind = "storage_failed"
	KindUnsupportedType  ErrorKind = "unsupported_type"
	KindNotFound         ErrorKind = "not_found"
	KindUnauthorized     ErrorKind = "unauthorized"
)

// ErrNoReadableText means a file was accepted but yielded no text to analyze
var ErrNoReadableText = errors.New("no readable text found")

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("not found")

// PortalError carries a kind, a user facing message and optional field level details
type PortalError struct {
	Kind    ErrorKind
	Message string
	Fields  []string
	Err     error
}

func (e *PortalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PortalError) Unwrap() error {
	return e.Err
}

// NewInputTooLarge reports a file above the size cap, with its actual size in MB
func NewInputTooLarge(size, limit int64) *PortalError {
	return &PortalError{
		Kind: KindInputTooLarge,
		Message: fmt.Sprintf("File too large: %.2f MB (maximum %d MB)",
			float64(size)/(1024*1024), limit/(1024*1024)),
	}
}

// NewUnsupportedType reports an upload extension outside the allow-list
func NewUnsupportedType(ext string, allowed []string) *PortalError {
	return &PortalError{
		Kind:    KindUnsupportedType,
		Message: fmt.Sprintf("Unsupported file type %q (allowed: %s)", ext, strings.Join(allowed, ", ")),
	}
}

// NewExtractionFailed wraps an OCR, PDF or decode failure. The user sees the underlying reason.
func NewExtractionFailed(err error) *PortalError {
	msg := "Could not read text from the file"
	switch {
	case errors.Is(err, ErrNoReadableText):
		msg = "No readable text was found in the file"
	case err != nil:
		msg += ": " + err.Error()
	}
	return &PortalError{Kind: KindExtractionFailed, Message: msg, Err: err}
}

// NewValidationFailed lists every missing or invalid field at once
func NewValidationFailed(fields []string) *PortalError {
	return &PortalError{
		Kind:    KindValidationFailed,
		Message: "Please correct the highlighted fields",
		Fields:  fields,
	}
}

// NewStorageFailed wraps a persistence error
func NewStorageFailed(err error) *PortalError {
	return &PortalError{
		Kind:    KindStorageFailed,
		Message: "Your submission could not be saved, please try again",
		Err:     err,
	}
}

// NewNotFound reports a missing resource
func NewNotFound(what string) *PortalError {
	return &PortalError{Kind: KindNotFound, Message: what + " not found", Err: ErrNotFound}
}

// KindOf returns the kind of a PortalError anywhere in the chain, or "" if there is none
func KindOf(err error) ErrorKind {
	var pe *PortalError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// NewUnauthorized reports a missing or invalid admin credential
func NewUnauthorized(reason string) *PortalError {
	return &PortalError{Kind: KindUnauthorized, Message: reason}
}
