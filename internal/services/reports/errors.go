package reports

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownCategory = errors.New("unknown report category")
	ErrNotFound        = errors.New("report not found")
)

// TooManyReportsError tells the caller when the submission window reopens.
type TooManyReportsError struct {
	retryAfterSec int64
}

func (e *TooManyReportsError) Error() string {
	return fmt.Sprintf("too many reports, retry after %ds", e.retryAfterSec)
}

func (e *TooManyReportsError) RetryAfter() int64 {
	return e.retryAfterSec
}

func IsTooManyReports(err error) (*TooManyReportsError, bool) {
	var target *TooManyReportsError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// TempUnavailableError is returned when the rate store cannot be reached.
// Submission fails closed rather than skipping the limit.
type TempUnavailableError struct {
	retryAfterSec int64
}

func (e *TempUnavailableError) Error() string {
	return fmt.Sprintf("temporarily unavailable, retry after %ds", e.retryAfterSec)
}

func (e *TempUnavailableError) RetryAfter() int64 {
	return e.retryAfterSec
}

func IsTempUnavailable(err error) (*TempUnavailableError, bool) {
	var target *TempUnavailableError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
