package steps

import (
	"math"
	"unicode/utf8"

	"TicketBot/bot/steptype"
)

// NewString creates a free text question. Option maximumLength limits the
// answer length in characters.
func NewString(env *steptype.Env, tooLong string) *steptype.Prompt[string] {
	return steptype.NewPrompt(env, func(text string, opts steptype.Options) (string, error) {
		if utf8.RuneCountInString(text) > opts.Int("maximumLength", math.MaxInt) {
			return "", steptype.Invalid(tooLong)
		}
		return text, nil
	})
}
