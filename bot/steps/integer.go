package steps

import (
	"math"
	"strconv"
	"strings"

	"TicketBot/bot/steptype"
)

// NewInteger creates a whole number question bounded by the minimum and
// maximum options (inclusive, unbounded by default).
func NewInteger(env *steptype.Env, notInteger, outOfRange string) *steptype.Prompt[int64] {
	return steptype.NewPrompt(env, func(text string, opts steptype.Options) (int64, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return 0, steptype.Invalid(notInteger)
		}
		if n < int64(opts.Int("minimum", math.MinInt)) || n > int64(opts.Int("maximum", math.MaxInt)) {
			return 0, steptype.Invalid(outOfRange)
		}
		return n, nil
	})
}
