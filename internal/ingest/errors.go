package ingest

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

var (
	// ErrEmptyInput is returned when the upload contains no rows at all.
	ErrEmptyInput = errors.New("empty CSV")

	// ErrMalformedInput is returned when the upload cannot be tokenized even
	// with lenient quoting.
	ErrMalformedInput = errors.New("malformed input")

	// ErrMissingKeyColumn matches any *MissingKeyColumnError.
	ErrMissingKeyColumn = errors.New("issue key column not found")

	// ErrWriteFailure matches any *WriteFailureError.
	ErrWriteFailure = errors.New("write failure")
)

// MissingKeyColumnError reports that no header resolved to the issue key role.
type MissingKeyColumnError struct {
	Headers []string
}

func (e *MissingKeyColumnError) Error() string {
	return fmt.Sprintf("%s; headers: [%s]", ErrMissingKeyColumn, strings.Join(e.Headers, ", "))
}

func (e *MissingKeyColumnError) Is(target error) bool {
	return target == ErrMissingKeyColumn
}

// WriteFailureError wraps an error returned by the Writer. The canonical
// table is left as it was before the run.
type WriteFailureError struct {
	Err error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("%s: %v", ErrWriteFailure, e.Err)
}

func (e *WriteFailureError) Is(target error) bool {
	return target == ErrWriteFailure
}

func (e *WriteFailureError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err was caused by the uploaded content
// rather than by storage.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrMissingKeyColumn)
}
