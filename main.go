package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TicketBot/bot"
	"TicketBot/bot/chat/telegram"
	"TicketBot/bot/extension"
	"TicketBot/bot/extensions/example"
	"TicketBot/bot/steps"
	"TicketBot/bot/steptype"
	"TicketBot/bot/ticket"
	"TicketBot/impl/core"
	"TicketBot/internal/config"
	repository "TicketBot/internal/database"
	"TicketBot/internal/http-server/api"
	"TicketBot/internal/lib/logger"
	"TicketBot/internal/lib/sl"
	"TicketBot/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting ticketbot", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	if !conf.Telegram.Enabled {
		lg.Error("telegram is disabled, no chat gateway to serve tickets on")
		os.Exit(1)
	}

	accent, err := conf.AccentColor()
	if err != nil {
		lg.Error("invalid accent color", slog.String("value", conf.Tickets.AccentColor), sl.Err(err))
		os.Exit(1)
	}

	tgBot, err := bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
	if err != nil {
		lg.Error("failed to initialize telegram bot", sl.Err(err))
		os.Exit(1)
	}
	// Set up Telegram handler for the logger
	lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelWarn)
	lg.With(
		slog.String("bot_name", conf.Telegram.BotName),
		sl.Secret("api_key", conf.Telegram.ApiKey),
	).Info("telegram bot initialized")

	gateway := telegram.NewGateway(tgBot.API(), telegram.Options{
		AutoDelete: conf.Tickets.AutoDeleteMessages,
		ErrorTTL:   conf.Tickets.ErrorTTL,
	}, lg)

	registry := steptype.NewRegistry(&steptype.Env{
		Gateway:       gateway,
		Log:           lg,
		AutoDelete:    conf.Tickets.AutoDeleteMessages,
		AccentColor:   accent,
		InvalidAnswer: conf.Tickets.Messages.InvalidAnswer,
	})
	msg := conf.Tickets.Messages
	if err = steps.Register(registry, steps.Messages{
		TooLong:      msg.TooLong,
		NotBoolean:   msg.NotBoolean,
		NotInteger:   msg.NotInteger,
		OutOfRange:   msg.OutOfRange,
		InvalidPhone: msg.InvalidPhone,
	}); err != nil {
		lg.Error("registering built-in step types", sl.Err(err))
		os.Exit(1)
	}

	host := extension.NewHost(registry, conf.Extensions.Dir, lg)
	if err = host.Enable(example.New()); err != nil {
		// failing extensions are skipped, the rest keep running
		lg.Error("enabling extensions", sl.Err(err))
	}
	defer host.DisableAll()

	script, err := ticket.LoadScript(conf.Tickets.Script)
	if err != nil {
		lg.Error("loading ticket script", slog.String("path", conf.Tickets.Script), sl.Err(err))
		os.Exit(1)
	}
	if err = script.Check(registry); err != nil {
		lg.Error("ticket script uses unknown step types", sl.Err(err))
		os.Exit(1)
	}

	manager := ticket.NewManager(registry, script, lg)
	defer manager.CancelAll()

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetTicketManager(manager)
	handler.SetStepTypeRegistry(registry)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		manager.SetStore(db)
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tgBot.SetTicketService(manager)
	tgBot.SetStepTypes(registry)
	tgBot.SetInboundHandler(gateway.HandleMessage)
	tgBot.SetMessages(bot.Messages{
		FlowActive:     msg.FlowActive,
		UnknownTicket:  msg.UnknownTicket,
		TicketCanceled: msg.TicketCanceled,
		NoActiveTicket: msg.NoActiveTicket,
	})
	if err = tgBot.Start(); err != nil {
		lg.Error("telegram bot error", sl.Err(err))
		return
	}
	defer tgBot.Stop()

	var server *api.Server
	if conf.Listen.Enabled {
		hub := ws.NewHub(lg)
		hub.SetHandler(handler)
		manager.SetListener(hub)
		go hub.Run(ctx)

		server = api.New(conf, lg, handler, hub)
		go func() {
			if err := server.Start(); err != nil {
				lg.Error("server start", sl.Err(err))
				stop()
			}
		}()
	}

	<-ctx.Done()
	lg.Info("shutting down")

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("server shutdown", sl.Err(err))
		}
	}
}
