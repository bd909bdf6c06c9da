package steptype

import (
	"errors"
	"log/slog"
	"sync"

	"TicketBot/bot/chat"
	"TicketBot/internal/lib/sl"
)

// Parser turns the raw text of an answer into a typed value. A ValidationError
// keeps the question open and its message is shown to the user.
type Parser[T any] func(text string, options Options) (T, error)

// Prompt implements Step for any question answered by a single text message.
// Concrete step types supply only a Parser.
type Prompt[T any] struct {
	env   *Env
	parse Parser[T]
	log   *slog.Logger

	mu          sync.Mutex
	state       State
	initialized bool
	released    bool
	channelID   int64
	question    string
	description string
	callback    Callback
	options     Options
	messageID   int64
	hasMessage  bool
	sub         chat.Subscription
}

// NewPrompt creates an uninitialized prompt.
func NewPrompt[T any](env *Env, parse Parser[T]) *Prompt[T] {
	return &Prompt[T]{
		env:   env,
		parse: parse,
		log:   env.logger().With(sl.Module("steptype.prompt")),
	}
}

// Init stores the question and subscribes to the gateway. The subscription is
// not filtered: handle discards messages from other channels.
func (p *Prompt[T]) Init(channelID int64, question, description string, callback Callback, options Options) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || p.released {
		return ErrAlreadyInitialized
	}
	if options == nil {
		options = Options{}
	}
	p.initialized = true
	p.channelID = channelID
	p.question = question
	p.description = description
	p.callback = callback
	p.options = options
	p.sub = p.env.Gateway.Subscribe(p.handle)
	return nil
}

// Ask sends the question. The send is not awaited; the message id is recorded
// when the gateway reports it.
func (p *Prompt[T]) Ask() {
	p.mu.Lock()
	if !p.initialized || p.state != Created {
		p.mu.Unlock()
		return
	}
	p.state = Asking
	channelID := p.channelID
	embed := chat.Embed{
		Title:       p.question,
		Description: p.description,
		Color:       p.env.AccentColor,
	}
	p.mu.Unlock()

	p.env.Gateway.SendEmbed(channelID, embed, p.recordQuestion)

	p.mu.Lock()
	if p.state == Asking {
		p.state = AwaitingAnswer
	}
	p.mu.Unlock()
}

func (p *Prompt[T]) recordQuestion(messageID int64, err error) {
	p.mu.Lock()
	channelID := p.channelID
	if err != nil {
		p.mu.Unlock()
		p.log.Warn("sending question", slog.Int64("channel_id", channelID), sl.Err(err))
		return
	}
	p.messageID = messageID
	p.hasMessage = true
	late := p.released
	p.mu.Unlock()

	// The question was cleaned up before the send completed.
	if late && p.env.AutoDelete {
		p.delete(channelID, messageID, "question")
	}
}

func (p *Prompt[T]) handle(msg chat.Message) {
	p.mu.Lock()
	if p.state != AwaitingAnswer || msg.ChannelID != p.channelID || msg.Author.IsBot {
		p.mu.Unlock()
		return
	}
	options := p.options
	p.mu.Unlock()

	if p.env.AutoDelete {
		p.delete(msg.ChannelID, msg.MessageID, "answer")
	}

	value, err := p.parse(msg.Text, options)
	if err != nil {
		p.reject(msg.ChannelID, err)
		return
	}

	p.mu.Lock()
	if p.state != AwaitingAnswer {
		p.mu.Unlock()
		return
	}
	p.state = Completed
	callback := p.callback
	p.mu.Unlock()

	if callback != nil {
		callback(value)
	}
	p.Cleanup()
}

func (p *Prompt[T]) reject(channelID int64, err error) {
	message := p.env.InvalidAnswer
	var verr *ValidationError
	if errors.As(err, &verr) {
		message = verr.Message
	} else {
		p.log.Warn("parsing answer", slog.Int64("channel_id", channelID), sl.Err(err))
	}
	if message == "" {
		message = err.Error()
	}
	p.env.Gateway.SendError(channelID, message)
}

func (p *Prompt[T]) delete(channelID, messageID int64, what string) {
	p.env.Gateway.DeleteMessage(channelID, messageID, func(err error) {
		if err != nil {
			p.log.Debug("deleting "+what,
				slog.Int64("channel_id", channelID),
				slog.Int64("message_id", messageID),
				sl.Err(err),
			)
		}
	})
}

// Cleanup unsubscribes and, with auto-delete on, removes the question message.
// Calling it more than once has no further effect.
func (p *Prompt[T]) Cleanup() {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return
	}
	p.released = true
	if p.state != Completed {
		p.state = Cancelled
	}
	sub := p.sub
	p.sub = nil
	channelID, messageID, hasMessage := p.channelID, p.messageID, p.hasMessage
	p.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if p.env.AutoDelete && hasMessage {
		p.delete(channelID, messageID, "question")
	}
}

// Cancel aborts an unanswered question. The callback is never called afterwards.
func (p *Prompt[T]) Cancel() {
	p.mu.Lock()
	if p.state == Completed {
		p.mu.Unlock()
		return
	}
	p.state = Cancelled
	p.mu.Unlock()
	p.Cleanup()
}

func (p *Prompt[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ChannelID returns the channel the question is asked in.
func (p *Prompt[T]) ChannelID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channelID
}

// MessageID returns the id of the question message once the send has completed.
func (p *Prompt[T]) MessageID() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messageID, p.hasMessage
}

// Options returns the options passed to Init.
func (p *Prompt[T]) Options() Options {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.options
}
