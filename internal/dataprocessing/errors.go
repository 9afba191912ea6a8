package dataprocessing

import (
	"errors"
	"fmt"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// ErrUnknownPlatform is returned when an import names a platform that is not registered.
var ErrUnknownPlatform = errors.New("unknown platform")

// FormatError reports input that is structurally unusable. It aborts the import.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// ValidationError reports a row that could not be normalized. Imports collect
// these and keep going.
type ValidationError struct {
	Row     int
	Column  string
	Message string
	Data    domain.Row
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ImportError converts the failure into its result form.
func (e *ValidationError) ImportError() domain.ImportError {
	data := e.Data
	return domain.ImportError{
		Row:     e.Row,
		Column:  e.Column,
		Message: e.Message,
		Data:    &data,
	}
}
