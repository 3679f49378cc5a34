package docqa

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks client-supplied data that failed validation. The
// caller can recover by correcting the input.
var ErrInvalidInput = errors.New("invalid input")

// ProviderError wraps a failure from an external capability (extraction,
// embedding, generation or vector-index I/O) with the operation that failed.
// Provider errors are not retried.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
