package ticket

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	bot "TicketBot/bot/ticket"
	"TicketBot/internal/lib/api/cont"
	"TicketBot/internal/lib/api/response"
	"TicketBot/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func CancelTicket(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.ticket")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("ticket service not available")
			render.JSON(w, r, response.Error("ticket service not available"))
			return
		}

		channelID, err := strconv.ParseInt(chi.URLParam(r, "channel"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid channel id"))
			return
		}

		username := ""
		if op := cont.GetOperator(r.Context()); op != nil {
			username = op.Username
		}

		err = handler.CancelTicket(username, channelID)
		if errors.Is(err, bot.ErrNoActiveFlow) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("No ticket in progress in this channel"))
			return
		}
		if err != nil {
			logger.Error("failed to cancel ticket", sl.Err(err))
			render.JSON(w, r, response.Error("Failed to cancel ticket"))
			return
		}

		logger.Debug("ticket cancelled", slog.Int64("channel_id", channelID), slog.String("user", username))
		render.JSON(w, r, response.Ok("Ticket cancelled"))
	}
}
