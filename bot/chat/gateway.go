package chat

// Author identifies who wrote an inbound message.
type Author struct {
	ID    int64
	Name  string
	IsBot bool
}

// Message is an inbound message event. Gateways deliver every message to every
// listener; filtering by channel is the listener's job.
type Message struct {
	ChannelID int64
	MessageID int64
	Author    Author
	Text      string
}

// Embed is a formatted outbound message: a title, a body and an accent colour.
// How it is rendered is up to the gateway.
type Embed struct {
	Title       string
	Description string
	Color       int
}

// Listener receives inbound messages.
type Listener func(msg Message)

// Subscription is the handle returned by Subscribe. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// SendCallback reports the id of a sent message, or the transport error.
type SendCallback func(messageID int64, err error)

// DeleteCallback reports the outcome of a delete.
type DeleteCallback func(err error)

// Gateway is the messaging transport used by step instances and the ticket driver.
// Send and delete calls return immediately; completion callbacks may be nil and
// may run on another goroutine.
type Gateway interface {
	Subscribe(l Listener) Subscription

	SendEmbed(channelID int64, embed Embed, done SendCallback)
	SendText(channelID int64, text string, done SendCallback)

	// SendError shows a user-facing error in the channel, respecting the
	// auto-delete and styling defaults of the host.
	SendError(channelID int64, text string)

	DeleteMessage(channelID, messageID int64, done DeleteCallback)
}
