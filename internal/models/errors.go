package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-checkable category of a RecordError.
type ErrorKind string

const (
	KindEmptyField          ErrorKind = "EmptyField"
	KindFormatError         ErrorKind = "FormatError"
	KindOutOfRange          ErrorKind = "OutOfRange"
	KindInvalidChoice       ErrorKind = "InvalidChoice"
	KindDuplicateKey        ErrorKind = "DuplicateKey"
	KindNotFound            ErrorKind = "NotFound"
	KindStorageUnavailable  ErrorKind = "StorageUnavailable"
	KindConstraintViolation ErrorKind = "ConstraintViolation"
	KindNoRecords           ErrorKind = "NoRecords"
)

// Base errors usable with errors.Is().
var (
	ErrEmptyField          = errors.New("field is empty")
	ErrFormat              = errors.New("invalid format")
	ErrOutOfRange          = errors.New("value out of range")
	ErrInvalidChoice       = errors.New("invalid choice")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrNotFound            = errors.New("record not found")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrNoRecords           = errors.New("no records")
)

var kindErrors = map[ErrorKind]error{
	KindEmptyField:          ErrEmptyField,
	KindFormatError:         ErrFormat,
	KindOutOfRange:          ErrOutOfRange,
	KindInvalidChoice:       ErrInvalidChoice,
	KindDuplicateKey:        ErrDuplicateKey,
	KindNotFound:            ErrNotFound,
	KindStorageUnavailable:  ErrStorageUnavailable,
	KindConstraintViolation: ErrConstraintViolation,
	KindNoRecords:           ErrNoRecords,
}

// RecordError is returned by every store, validation and import/export failure.
type RecordError struct {
	Kind    ErrorKind
	Op      string // e.g. "Create", "Update", "Import"
	Field   string // failing field, empty when not field specific
	Message string // human-readable explanation
	Err     error  // underlying cause (optional)
}

func (e *RecordError) Error() string {
	prefix := string(e.Kind)
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Is matches the base error of the kind, so errors.Is(err, ErrDuplicateKey) works.
func (e *RecordError) Is(target error) bool {
	base, ok := kindErrors[e.Kind]
	return ok && base == target
}

func NewRecordError(kind ErrorKind, op, field, message string) *RecordError {
	return &RecordError{Kind: kind, Op: op, Field: field, Message: message}
}

// NewStorageError wraps an engine failure as StorageUnavailable.
func NewStorageError(op, message string, err error) *RecordError {
	return &RecordError{Kind: KindStorageUnavailable, Op: op, Message: message, Err: err}
}

// KindOf extracts the kind of a RecordError anywhere in the chain, or "" when
// err carries none.
func KindOf(err error) ErrorKind {
	var re *RecordError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// FieldOf returns the failing field of a RecordError in the chain.
func FieldOf(err error) string {
	var re *RecordError
	if errors.As(err, &re) {
		return re.Field
	}
	return ""
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsValidation reports whether err can be fixed by supplying corrected input.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindEmptyField, KindFormatError, KindOutOfRange, KindInvalidChoice, KindDuplicateKey:
		return true
	}
	return false
}
