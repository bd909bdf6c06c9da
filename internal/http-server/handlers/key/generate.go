package key

import (
	"log/slog"
	"net/http"

	"TicketBot/entity"
	"TicketBot/internal/lib/api/response"
	"TicketBot/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	GenerateApiKey(username string) (string, error)
}

// Generate issues an operator API key stored in the database.
func Generate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.key")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.KeyRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("invalid key request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request: username is required"))
			return
		}

		key, err := handler.GenerateApiKey(req.Username)
		if err != nil {
			logger.Error("failed to generate api key", sl.Err(err))
			render.JSON(w, r, response.Error("Failed to generate api key"))
			return
		}

		logger.With(
			slog.String("username", req.Username),
			sl.Secret("key", key),
		).Info("api key generated")
		render.JSON(w, r, response.Ok(map[string]string{"key": key}))
	}
}
