// Package continuity chains a sequence of named steps that stop running
// the moment one of them fails. It is used by dictbuild's write pipeline,
// where a blob is assembled in several ordered passes (sort, build
// indexes, pack arenas, emit sections) and the first pass to fail should
// short-circuit the rest while still reporting which step it was.
package continuity

import (
	"fmt"
	"strings"
)

// StepChain accumulates the errors of a sequence of named steps, running
// each step only if every step before it succeeded.
type StepChain struct {
	failed []stepError
}

type stepError struct {
	step string
	err  error
}

func (e stepError) Error() string {
	return fmt.Sprintf("%s: %v", e.step, e.err)
}

// chainError is the aggregate error returned by Err when one or more
// steps failed.
type chainError []stepError

func (e chainError) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	parts := make([]string, len(e))
	for i, se := range e {
		parts[i] = se.Error()
	}
	return "multiple steps failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is/errors.As see through to the first failing step,
// which is the one that actually halted the chain.
func (e chainError) Unwrap() error {
	if len(e) == 0 {
		return nil
	}
	return e[0].err
}

// New starts a fresh, empty step chain.
func New() *StepChain {
	return new(StepChain)
}

// Step runs f under the given name, unless an earlier step already
// failed. A non-nil return from f halts every subsequent Step and Check
// call on this chain.
func (c *StepChain) Step(name string, f func() error) *StepChain {
	if len(c.failed) > 0 {
		return c
	}
	if err := f(); err != nil {
		c.failed = append(c.failed, stepError{step: name, err: err})
	}
	return c
}

// Check records any non-nil errs under the given step name, unless an
// earlier step already failed. Useful for folding a batch of independent
// validation errors into one named step instead of wrapping each in its
// own closure.
func (c *StepChain) Check(name string, errs ...error) *StepChain {
	if len(c.failed) > 0 {
		return c
	}
	for _, err := range errs {
		if err != nil {
			c.failed = append(c.failed, stepError{step: name, err: err})
		}
	}
	return c
}

// Err returns nil if every step succeeded, or the recorded failure(s)
// otherwise, each tagged with the name of the step it happened in.
func (c *StepChain) Err() error {
	if len(c.failed) == 0 {
		return nil
	}
	return chainError(c.failed)
}
