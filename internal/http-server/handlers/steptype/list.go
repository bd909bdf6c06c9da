package steptype

import (
	"log/slog"
	"net/http"

	"TicketBot/bot/steptype"
	"TicketBot/internal/lib/api/response"

	"github.com/go-chi/render"
)

type Core interface {
	StepTypes() []steptype.Descriptor
}

func List(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler == nil {
			render.JSON(w, r, response.Error("step type registry not available"))
			return
		}
		render.JSON(w, r, response.Ok(handler.StepTypes()))
	}
}
