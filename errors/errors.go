// Package errors provides formatted errors that keep their error arguments
// reachable through Unwrap, plus the error kinds raised by the planner and
// the reasoner.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Kinds are comparable, so they may be used as
// targets for Is.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	// UnsafeRule is raised when a rule variable is not bound by any positive conjunct.
	UnsafeRule Kind = "unsafe rule"
	// InvalidPlan is raised when strategies don't partition the plan variables consistently.
	InvalidPlan Kind = "invalid plan"
	// IncompleteGraph is raised when a spanning arborescence can't reach some node.
	IncompleteGraph Kind = "incomplete graph"
	// MaxRounds is raised when forward chaining doesn't reach a fixpoint in time.
	MaxRounds Kind = "maximum rounds reached"
	// Unstratifiable is raised when a form depends on its own negation.
	Unstratifiable Kind = "unstratifiable rules"
)

type err struct {
	msg  string
	args []interface{}
}

func (err err) Error() string {
	return fmt.Sprintf(err.msg, err.args...)
}

func (err err) Unwrap() error {
	for _, arg := range err.args {
		if wrapped, ok := arg.(error); ok {
			return wrapped
		}
	}
	return nil
}

// New returns an error formatted with msg and args. The first arg that is an
// error is returned by Unwrap.
func New(msg string, args ...interface{}) error {
	return err{msg, args}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
