// Package steps contains the step types every ticket script can use without
// loading an extension.
package steps

import (
	"fmt"

	"TicketBot/bot/steptype"
)

// Messages holds the user-facing error strings of the built-in step types.
type Messages struct {
	TooLong      string
	NotBoolean   string
	NotInteger   string
	OutOfRange   string
	InvalidPhone string
}

// Builtins returns the descriptors of the built-in step types.
func Builtins(msg Messages) []steptype.Descriptor {
	return []steptype.Descriptor{
		{
			Name:        "String",
			Description: "Free text answer. Options: maximumLength (int, default unlimited).",
			Producer:    func(env *steptype.Env) steptype.Step { return NewString(env, msg.TooLong) },
		},
		{
			Name:        "Boolean",
			Description: "Yes or no answer.",
			Producer:    func(env *steptype.Env) steptype.Step { return NewBoolean(env, msg.NotBoolean) },
		},
		{
			Name:        "Integer",
			Description: "Whole number. Options: minimum, maximum (int).",
			Producer: func(env *steptype.Env) steptype.Step {
				return NewInteger(env, msg.NotInteger, msg.OutOfRange)
			},
		},
		{
			Name:        "Phone",
			Description: "Phone number in international format, normalized to +digits.",
			Producer:    func(env *steptype.Env) steptype.Step { return NewPhone(env, msg.InvalidPhone) },
		},
	}
}

// Register adds the built-in step types to r.
func Register(r *steptype.Registry, msg Messages) error {
	for _, d := range Builtins(msg) {
		if err := r.Register(d); err != nil {
			return fmt.Errorf("registering built-in %s: %w", d.Name, err)
		}
	}
	return nil
}
