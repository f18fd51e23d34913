package location

import (
	"errors"
	"fmt"
)

// Error kinds returned by Lifecycle. Match them with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrUpload      = errors.New("image upload failed")
	ErrRecordWrite = errors.New("record write failed")
	ErrDelete      = errors.New("delete failed")
)

// OpError is a blocking failure of a lifecycle operation.
type OpError struct {
	Kind error
	Op   string
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func opError(kind error, op string, err error) *OpError {
	return &OpError{Kind: kind, Op: op, Err: err}
}

func validationError(op, msg string) *OpError {
	return &OpError{Kind: ErrValidation, Op: op, Err: errors.New(msg)}
}

// CleanupError is a best-effort step that failed. It is logged, never returned.
type CleanupError struct {
	Op   string
	Blob string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("%s: cleanup of %q failed: %v", e.Op, e.Blob, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
