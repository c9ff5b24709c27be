package machine

import (
	"errors"
	"fmt"

	"gobf/pkg/program"
)

var (
	ErrPointerUnderflow = errors.New("data pointer moved left of cell 0")
	ErrTapeLimit        = errors.New("tape size limit exceeded")
	ErrIO               = errors.New("stream i/o failed")
)

// RuntimeError aborts a run. Tape contents written before the failure
// are left as they were.
type RuntimeError struct {
	Op  program.Op
	IP  int
	DP  int
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%v at instruction %d (%s), cell %d", e.Err, e.IP, e.Op, e.DP)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func ioFailure(cause error) error {
	return fmt.Errorf("%w: %w", ErrIO, cause)
}
