package telegram

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"TicketBot/bot/chat"
	"TicketBot/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// TelegramAPI defines the Telegram bot methods needed by the gateway.
// This avoids importing the concrete bot type and prevents circular imports.
type TelegramAPI interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
	DeleteMessage(chatId int64, messageId int64, opts *tgbotapi.DeleteMessageOpts) (bool, error)
}

// Options controls how error replies are handled.
type Options struct {
	AutoDelete bool
	ErrorTTL   time.Duration
}

// Gateway implements chat.Gateway on top of the Telegram Bot API.
// Sends and deletes run on their own goroutines and report back through
// the supplied callbacks.
type Gateway struct {
	*chat.Bus
	api  TelegramAPI
	opts Options
	log  *slog.Logger
}

// NewGateway creates a new Telegram Gateway.
func NewGateway(api TelegramAPI, opts Options, log *slog.Logger) *Gateway {
	return &Gateway{
		Bus:  chat.NewBus(),
		api:  api,
		opts: opts,
		log:  log.With(sl.Module("telegram")),
	}
}

func (g *Gateway) SendEmbed(channelID int64, embed chat.Embed, done chat.SendCallback) {
	go g.send(channelID, renderEmbed(embed), done)
}

func (g *Gateway) SendText(channelID int64, text string, done chat.SendCallback) {
	go g.send(channelID, html.EscapeString(text), done)
}

// SendError replies with a warning. With auto-delete enabled the warning is
// removed after ErrorTTL.
func (g *Gateway) SendError(channelID int64, text string) {
	go g.send(channelID, "⚠️ "+html.EscapeString(text), func(messageID int64, err error) {
		if err != nil || !g.opts.AutoDelete || g.opts.ErrorTTL <= 0 {
			return
		}
		time.AfterFunc(g.opts.ErrorTTL, func() {
			g.DeleteMessage(channelID, messageID, nil)
		})
	})
}

func (g *Gateway) DeleteMessage(channelID, messageID int64, done chat.DeleteCallback) {
	go func() {
		_, err := g.api.DeleteMessage(channelID, messageID, nil)
		if err != nil {
			g.log.With(
				slog.Int64("id", channelID),
				slog.Int64("message_id", messageID),
			).Debug("deleting message", sl.Err(err))
			err = fmt.Errorf("delete message %d: %w", messageID, err)
		}
		if done != nil {
			done(err)
		}
	}()
}

func (g *Gateway) send(chatID int64, text string, done chat.SendCallback) {
	var messageID int64
	msg, err := g.api.SendMessage(chatID, text, &tgbotapi.SendMessageOpts{
		ParseMode: "HTML",
	})
	if err != nil {
		g.log.With(
			slog.Int64("id", chatID),
		).Warn("sending message", sl.Err(err))
		err = fmt.Errorf("send message: %w", err)
	} else if msg != nil {
		messageID = msg.MessageId
	}
	if done != nil {
		done(messageID, err)
	}
}

// HandleMessage is a dispatcher callback that publishes text messages to
// every subscriber.
func (g *Gateway) HandleMessage(_ *tgbotapi.Bot, ctx *ext.Context) error {
	g.Receive(ctx.EffectiveMessage)
	return nil
}

// Receive converts msg and publishes it. Messages without text are dropped.
func (g *Gateway) Receive(msg *tgbotapi.Message) {
	if msg == nil || msg.Text == "" {
		return
	}
	g.Publish(chat.Message{
		ChannelID: msg.Chat.Id,
		MessageID: msg.MessageId,
		Author:    author(msg),
		Text:      msg.Text,
	})
}

func author(msg *tgbotapi.Message) chat.Author {
	if msg.From == nil {
		// channel posts carry no user
		if msg.SenderChat != nil {
			return chat.Author{ID: msg.SenderChat.Id, Name: msg.SenderChat.Title}
		}
		return chat.Author{}
	}
	name := msg.From.Username
	if name == "" {
		name = strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	}
	return chat.Author{ID: msg.From.Id, Name: name, IsBot: msg.From.IsBot}
}

// renderEmbed turns an embed into HTML. Telegram has no embed colour.
func renderEmbed(e chat.Embed) string {
	var b strings.Builder
	if e.Title != "" {
		b.WriteString("<b>")
		b.WriteString(html.EscapeString(e.Title))
		b.WriteString("</b>")
	}
	if e.Description != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(html.EscapeString(e.Description))
	}
	return b.String()
}
