package ticket

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"TicketBot/entity"
	"TicketBot/internal/lib/api/response"
	"TicketBot/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const defaultLimit = 100

func ListTickets(log *slog.Logger, handler Core) http.HandlerFunc {
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

		query := r.URL.Query()
		status := query.Get("status")
		switch entity.TicketStatus(status) {
		case "", entity.TicketCompleted, entity.TicketCancelled:
		default:
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Unknown status: %s", status)))
			return
		}

		limit := int64(defaultLimit)
		if raw := query.Get("limit"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n <= 0 {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("limit must be a positive number"))
				return
			}
			limit = n
		}

		tickets, err := handler.ListTickets(status, query.Get("type"), limit)
		if err != nil {
			logger.Error("failed to list tickets", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to list tickets: %v", err)))
			return
		}

		logger.Debug("tickets listed", slog.Int("count", len(tickets)))
		render.JSON(w, r, response.Ok(tickets))
	}
}

func ListActive(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler == nil {
			render.JSON(w, r, response.Error("ticket service not available"))
			return
		}
		render.JSON(w, r, response.Ok(handler.ActiveTickets()))
	}
}

func ListTypes(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler == nil {
			render.JSON(w, r, response.Error("ticket service not available"))
			return
		}
		render.JSON(w, r, response.Ok(handler.TicketTypes()))
	}
}
