package entity

import "time"

type TicketStatus string

const (
	TicketOpen      TicketStatus = "open"
	TicketCompleted TicketStatus = "completed"
	TicketCancelled TicketStatus = "cancelled"
)

// Answer is one answered question of a ticket.
type Answer struct {
	Key      string `json:"key" bson:"key"`
	Question string `json:"question" bson:"question"`
	StepType string `json:"step_type" bson:"step_type"`
	Value    any    `json:"value" bson:"value"`
}

// Ticket is one run of a ticket script in a chat.
type Ticket struct {
	ID        string       `json:"id" bson:"_id"`
	Type      string       `json:"type" bson:"type"`
	Title     string       `json:"title" bson:"title"`
	ChannelID int64        `json:"channel_id" bson:"channel_id"`
	UserID    int64        `json:"user_id" bson:"user_id"`
	UserName  string       `json:"user_name" bson:"user_name"`
	Status    TicketStatus `json:"status" bson:"status"`
	Answers   []Answer     `json:"answers" bson:"answers"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	ClosedAt  *time.Time   `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// Answer returns the value answered for key.
func (t *Ticket) Answer(key string) (any, bool) {
	for _, a := range t.Answers {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// Clone returns a copy that shares no slices with t.
func (t *Ticket) Clone() *Ticket {
	c := *t
	c.Answers = append([]Answer(nil), t.Answers...)
	if t.ClosedAt != nil {
		closed := *t.ClosedAt
		c.ClosedAt = &closed
	}
	return &c
}
