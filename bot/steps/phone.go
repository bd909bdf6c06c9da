package steps

import (
	"TicketBot/bot/chat"
	"TicketBot/bot/steptype"
)

func NewPhone(env *steptype.Env, invalidPhone string) *steptype.Prompt[string] {
	return steptype.NewPrompt(env, func(text string, _ steptype.Options) (string, error) {
		if !chat.IsValidPhone(text) {
			return "", steptype.Invalid(invalidPhone)
		}
		return chat.NormalizePhone(text), nil
	})
}
