package steps

import (
	"strings"

	"TicketBot/bot/steptype"
)

var booleanWords = map[string]bool{
	"yes":   true,
	"y":     true,
	"true":  true,
	"так":   true,
	"no":    false,
	"n":     false,
	"false": false,
	"ні":    false,
}

// ParseBoolean accepts yes/no style answers in any case.
func ParseBoolean(text string) (bool, bool) {
	v, ok := booleanWords[strings.ToLower(strings.TrimSpace(text))]
	return v, ok
}

func NewBoolean(env *steptype.Env, notBoolean string) *steptype.Prompt[bool] {
	return steptype.NewPrompt(env, func(text string, _ steptype.Options) (bool, error) {
		v, ok := ParseBoolean(text)
		if !ok {
			return false, steptype.Invalid(notBoolean)
		}
		return v, nil
	})
}
