package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"TicketBot/bot/chat"
	"TicketBot/bot/steptype"
	"TicketBot/bot/ticket"
	"TicketBot/entity"
	"TicketBot/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

// TicketService is the part of the ticket manager driven by chat commands.
type TicketService interface {
	Open(channelID int64, user chat.Author, name string) (*entity.Ticket, error)
	Cancel(channelID int64) (*entity.Ticket, error)
	Types() []ticket.Type
}

// StepTypes lists the registered step types.
type StepTypes interface {
	List() []steptype.Descriptor
}

// Messages are the command replies shown to users.
type Messages struct {
	FlowActive     string
	UnknownTicket  string
	TicketCanceled string
	NoActiveTicket string
}

type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	updater     *ext.Updater
	botUsername string
	adminId     int64
	tickets     TicketService
	stepTypes   StepTypes
	inbound     func(b *tgbotapi.Bot, ctx *ext.Context) error
	messages    Messages
}

func NewTgBot(botName, apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		adminId:     adminId,
		botUsername: botName,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %w", err)
	}
	tgBot.api = api

	return tgBot, nil
}

// API exposes the underlying client for the chat gateway.
func (t *TgBot) API() *tgbotapi.Bot {
	return t.api
}

func (t *TgBot) SetTicketService(tickets TicketService) {
	t.tickets = tickets
}

func (t *TgBot) SetStepTypes(types StepTypes) {
	t.stepTypes = types
}

func (t *TgBot) SetMessages(messages Messages) {
	t.messages = messages
}

// SetInboundHandler sets the handler every non-command text message goes to.
func (t *TgBot) SetInboundHandler(h func(b *tgbotapi.Bot, ctx *ext.Context) error) {
	t.inbound = h
}

// Start begins polling for updates. It returns once polling is running.
func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		// If an error is returned by a handler, log it and continue going.
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	t.updater = ext.NewUpdater(dispatcher, nil)

	// commands share a group with the text handler so they never reach open steps
	dispatcher.AddHandler(handlers.NewCommand("ticket", t.handleTicket))
	dispatcher.AddHandler(handlers.NewCommand("cancel", t.handleCancel))
	dispatcher.AddHandler(handlers.NewCommand("types", t.handleTypes))
	if t.inbound != nil {
		dispatcher.AddHandler(handlers.NewMessage(message.Text, t.inbound))
	}

	err := t.updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	t.log.Info("ticket bot started", slog.String("username", t.botUsername))
	return nil
}

// Stop ends polling.
func (t *TgBot) Stop() {
	if t.updater == nil {
		return
	}
	if err := t.updater.Stop(); err != nil {
		t.log.Warn("stopping updater", sl.Err(err))
	}
}

func (t *TgBot) handleTicket(_ *tgbotapi.Bot, ctx *ext.Context) error {
	reply := t.openTicket(ctx.EffectiveChat.Id, sender(ctx), commandArgs(ctx.EffectiveMessage.Text))
	if reply != "" {
		t.plainResponse(ctx.EffectiveChat.Id, reply)
	}
	return nil
}

func (t *TgBot) handleCancel(_ *tgbotapi.Bot, ctx *ext.Context) error {
	t.plainResponse(ctx.EffectiveChat.Id, t.cancelTicket(ctx.EffectiveChat.Id))
	return nil
}

func (t *TgBot) handleTypes(_ *tgbotapi.Bot, ctx *ext.Context) error {
	t.plainResponse(ctx.EffectiveChat.Id, t.stepTypesText())
	return nil
}

// openTicket starts the ticket named in args and returns the reply to show,
// empty when the first question itself is the reply.
func (t *TgBot) openTicket(chatId int64, user chat.Author, args []string) string {
	if t.tickets == nil {
		return t.messages.UnknownTicket
	}
	if len(args) == 0 {
		return t.ticketTypesText()
	}

	_, err := t.tickets.Open(chatId, user, args[0])
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ticket.ErrFlowActive):
		return t.messages.FlowActive
	case errors.Is(err, ticket.ErrUnknownTicketType):
		return t.messages.UnknownTicket + "\n\n" + t.ticketTypesText()
	default:
		t.log.With(
			slog.Int64("id", chatId),
			slog.String("ticket", args[0]),
		).Error("opening ticket", sl.Err(err))
		return t.messages.UnknownTicket
	}
}

func (t *TgBot) cancelTicket(chatId int64) string {
	if t.tickets == nil {
		return t.messages.NoActiveTicket
	}
	if _, err := t.tickets.Cancel(chatId); err != nil {
		return t.messages.NoActiveTicket
	}
	return t.messages.TicketCanceled
}

func (t *TgBot) ticketTypesText() string {
	if t.tickets == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("Available tickets:")
	for _, kind := range t.tickets.Types() {
		b.WriteString("\n/ticket ")
		b.WriteString(kind.Name)
		if kind.Title != "" {
			b.WriteString(" - ")
			b.WriteString(kind.Title)
		}
	}
	return b.String()
}

func (t *TgBot) stepTypesText() string {
	if t.stepTypes == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("Step types:")
	for _, d := range t.stepTypes.List() {
		b.WriteString("\n")
		if d.Emoji != "" {
			b.WriteString(d.Emoji)
			b.WriteString(" ")
		}
		b.WriteString(d.Name)
		if d.Description != "" {
			b.WriteString(": ")
			b.WriteString(d.Description)
		}
	}
	return b.String()
}

func sender(ctx *ext.Context) chat.Author {
	u := ctx.EffectiveUser
	if u == nil {
		return chat.Author{}
	}
	name := u.Username
	if name == "" {
		name = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	return chat.Author{ID: u.Id, Name: name, IsBot: u.IsBot}
}

// commandArgs drops the command word, "/ticket support" -> ["support"].
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

// SendMessage forwards a log record to the admin chat.
func (t *TgBot) SendMessage(msg string) {
	if t.adminId == 0 {
		return
	}
	t.plainResponse(t.adminId, msg)
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	sanitized := sanitize(text)
	if sanitized == "" {
		t.log.With(
			slog.Int64("id", chatId),
		).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(
				slog.Int64("id", chatId),
			).Error("sending safe message", sl.Err(err))
		}
	}
}

// sanitize escapes the MarkdownV2 reserved characters.
func sanitize(input string) string {
	const reservedChars = "\\`_*{}#+-.!|()[]~>=<"
	var b strings.Builder
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
