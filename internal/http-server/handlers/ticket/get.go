package ticket

import (
	"fmt"
	"log/slog"
	"net/http"

	"TicketBot/internal/lib/api/response"
	"TicketBot/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func GetTicket(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.ticket")

		id := chi.URLParam(r, "id")
		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("ticket_id", id),
		)

		if handler == nil {
			logger.Error("ticket service not available")
			render.JSON(w, r, response.Error("ticket service not available"))
			return
		}

		ticket, err := handler.GetTicket(id)
		if err != nil {
			logger.Error("failed to get ticket", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to get ticket: %v", err)))
			return
		}
		if ticket == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Ticket not found"))
			return
		}

		render.JSON(w, r, response.Ok(ticket))
	}
}
