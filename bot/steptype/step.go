// Package steptype defines the contract every ticket question type implements,
// the registry that maps type names to producers, and Prompt, a reusable
// implementation of the question lifecycle.
package steptype

import (
	"fmt"
)

// State is the lifecycle position of a step instance.
type State int

const (
	Created State = iota
	Asking
	AwaitingAnswer
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Asking:
		return "asking"
	case AwaitingAnswer:
		return "awaiting_answer"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Callback receives the parsed answer. Its dynamic type is fixed per step type
// (string, bool, int64, ...).
type Callback func(value any)

// Typed adapts a typed answer handler to a Callback. Answers of another type are
// dropped.
func Typed[T any](fn func(T)) Callback {
	return func(value any) {
		if v, ok := value.(T); ok {
			fn(v)
		}
	}
}

// Step is one question asked in one channel.
//
// The driver calls Init once, then Ask. The step calls the callback at most
// once, after which it releases its resources through Cleanup. Cancel aborts
// an unanswered question without calling the callback.
type Step interface {
	Init(channelID int64, question, description string, callback Callback, options Options) error
	Ask()
	Cleanup()
	Cancel()
	State() State
}
