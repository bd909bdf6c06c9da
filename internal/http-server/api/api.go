package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"TicketBot/internal/config"
	httperrors "TicketBot/internal/http-server/handlers/errors"
	"TicketBot/internal/http-server/handlers/key"
	"TicketBot/internal/http-server/handlers/steptype"
	"TicketBot/internal/http-server/handlers/ticket"
	"TicketBot/internal/http-server/middleware/authenticate"
	"TicketBot/internal/lib/sl"
	"TicketBot/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	ws.Authenticator
	ticket.Core
	steptype.Core
	key.Core
}

// New builds the operator API. The hub may be nil, then /ws is not served.
func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  NewRouter(log, handler, hub),
		ErrorLog: httpLog,
	}
	return server
}

func NewRouter(log *slog.Logger, handler Handler, hub *ws.Hub) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(httperrors.NotFound(log))
	router.MethodNotAllowed(httperrors.NotAllowed(log))

	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, handler, log, w, r)
		})
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(5 * time.Second))
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(authenticate.New(log, handler))

		r.Route("/api/v1", func(v1 chi.Router) {
			v1.Route("/tickets", func(r chi.Router) {
				r.Get("/", ticket.ListTickets(log, handler))
				r.Get("/active", ticket.ListActive(log, handler))
				r.Get("/types", ticket.ListTypes(log, handler))
				r.Get("/{id}", ticket.GetTicket(log, handler))
				r.Post("/{channel}/cancel", ticket.CancelTicket(log, handler))
			})
			v1.Get("/steptypes", steptype.List(log, handler))
			v1.Route("/key", func(r chi.Router) {
				r.Post("/new", key.Generate(log, handler))
			})
		})
	})

	return router
}

// Start blocks serving requests until Shutdown.
func (s *Server) Start() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))

	err = s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
