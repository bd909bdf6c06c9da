package example

import (
	"math"
	"unicode/utf8"

	"TicketBot/bot/steptype"
)

// Step asks for free text. Options:
//
//	maximumLength (int): longest accepted answer in characters, unlimited by default.
type Step struct {
	*steptype.Prompt[string]
	tooLong string
}

func NewStep(env *steptype.Env, tooLong string) *Step {
	s := &Step{tooLong: tooLong}
	s.Prompt = steptype.NewPrompt(env, s.parse)
	return s
}

func (s *Step) parse(text string, opts steptype.Options) (string, error) {
	maximumLength := opts.Int("maximumLength", math.MaxInt)
	if utf8.RuneCountInString(text) > maximumLength {
		return "", steptype.Invalid(s.tooLong)
	}
	return text, nil
}
