package cycles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinMinutes = 1
	MaxMinutes = 60
)

var (
	ErrTaskRequired   = errors.New("enter a task")
	ErrMinutesTooLow  = fmt.Errorf("a cycle must be at least %d minute", MinMinutes)
	ErrMinutesTooHigh = fmt.Errorf("a cycle must be at most %d minutes", MaxMinutes)
	ErrMinutesNotInt  = errors.New("duration must be a whole number of minutes")
)

// NewCycleInput is what the new-cycle form collects.
type NewCycleInput struct {
	Task          string
	MinutesAmount int
}

// FieldError ties a validation failure to a form field.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e FieldError) Unwrap() error { return e.Err }

// ValidationErrors holds one entry per failing field.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match any of the field errors.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// Validate checks a form submission. The returned error is a
// ValidationErrors when any field fails.
func Validate(in NewCycleInput) error {
	var errs ValidationErrors
	if err := ValidateTask(in.Task); err != nil {
		errs = append(errs, FieldError{Field: "task", Err: err})
	}
	if err := ValidateMinutes(in.MinutesAmount); err != nil {
		errs = append(errs, FieldError{Field: "minutesAmount", Err: err})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func ValidateTask(task string) error {
	if strings.TrimSpace(task) == "" {
		return ErrTaskRequired
	}
	return nil
}

func ValidateMinutes(m int) error {
	if m < MinMinutes {
		return ErrMinutesTooLow
	}
	if m > MaxMinutes {
		return ErrMinutesTooHigh
	}
	return nil
}

// ParseMinutes converts form text into a validated minute count.
func ParseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMinutesTooLow
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrMinutesNotInt
	}
	if err := ValidateMinutes(n); err != nil {
		return 0, err
	}
	return n, nil
}
