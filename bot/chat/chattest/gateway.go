// Package chattest provides an in-memory chat.Gateway for tests.
package chattest

import (
	"sync"

	"TicketBot/bot/chat"
)

// Kind tells what an outbound message was sent as.
type Kind int

const (
	KindEmbed Kind = iota
	KindText
	KindError
)

// Sent is one outbound message recorded by the gateway.
type Sent struct {
	Kind      Kind
	ChannelID int64
	MessageID int64
	Embed     chat.Embed
	Text      string
}

// Deleted is one delete request recorded by the gateway.
type Deleted struct {
	ChannelID int64
	MessageID int64
}

// Gateway records sends and deletes and publishes inbound messages through an
// embedded chat.Bus. Completions run synchronously unless Hold is set, in which
// case they are queued until Flush.
type Gateway struct {
	*chat.Bus

	mu      sync.Mutex
	nextID  int64
	sent    []Sent
	deleted []Deleted
	pending []func()

	SendErr   error
	DeleteErr error
	Hold      bool
}

// New returns an empty gateway. Message ids start at 1000.
func New() *Gateway {
	return &Gateway{Bus: chat.NewBus(), nextID: 1000}
}

func (g *Gateway) record(s Sent, done chat.SendCallback) {
	g.mu.Lock()
	g.nextID++
	s.MessageID = g.nextID
	if g.SendErr != nil {
		s.MessageID = 0
	}
	err := g.SendErr
	g.sent = append(g.sent, s)
	g.mu.Unlock()

	if done == nil {
		return
	}
	g.complete(func() { done(s.MessageID, err) })
}

func (g *Gateway) complete(fn func()) {
	g.mu.Lock()
	if g.Hold {
		g.pending = append(g.pending, fn)
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()
	fn()
}

// Flush runs completions queued while Hold was set.
func (g *Gateway) Flush() {
	g.mu.Lock()
	pending := g.pending
	g.pending = nil
	g.Hold = false
	g.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func (g *Gateway) SendEmbed(channelID int64, embed chat.Embed, done chat.SendCallback) {
	g.record(Sent{Kind: KindEmbed, ChannelID: channelID, Embed: embed}, done)
}

func (g *Gateway) SendText(channelID int64, text string, done chat.SendCallback) {
	g.record(Sent{Kind: KindText, ChannelID: channelID, Text: text}, done)
}

func (g *Gateway) SendError(channelID int64, text string) {
	g.record(Sent{Kind: KindError, ChannelID: channelID, Text: text}, nil)
}

func (g *Gateway) DeleteMessage(channelID, messageID int64, done chat.DeleteCallback) {
	g.mu.Lock()
	g.deleted = append(g.deleted, Deleted{ChannelID: channelID, MessageID: messageID})
	err := g.DeleteErr
	g.mu.Unlock()
	if done != nil {
		g.complete(func() { done(err) })
	}
}

// Say publishes a message from a human user and returns its id.
func (g *Gateway) Say(channelID, userID int64, text string) int64 {
	return g.publish(channelID, chat.Author{ID: userID, Name: "user"}, text)
}

// SayAsBot publishes a message authored by a bot.
func (g *Gateway) SayAsBot(channelID int64, text string) int64 {
	return g.publish(channelID, chat.Author{ID: 1, Name: "bot", IsBot: true}, text)
}

func (g *Gateway) publish(channelID int64, author chat.Author, text string) int64 {
	g.mu.Lock()
	g.nextID++
	id := g.nextID
	g.mu.Unlock()
	g.Publish(chat.Message{ChannelID: channelID, MessageID: id, Author: author, Text: text})
	return id
}

// Sent returns a copy of every recorded outbound message.
func (g *Gateway) Sent() []Sent {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Sent(nil), g.sent...)
}

// SentOfKind filters Sent by kind.
func (g *Gateway) SentOfKind(kind Kind) []Sent {
	var out []Sent
	for _, s := range g.Sent() {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Errors returns the texts of every SendError call.
func (g *Gateway) Errors() []string {
	var out []string
	for _, s := range g.SentOfKind(KindError) {
		out = append(out, s.Text)
	}
	return out
}

// Deleted returns a copy of every recorded delete request.
func (g *Gateway) Deleted() []Deleted {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Deleted(nil), g.deleted...)
}

// WasDeleted reports whether messageID was ever deleted.
func (g *Gateway) WasDeleted(messageID int64) bool {
	for _, d := range g.Deleted() {
		if d.MessageID == messageID {
			return true
		}
	}
	return false
}
