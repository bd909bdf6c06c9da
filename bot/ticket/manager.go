// Package ticket drives ticket scripts: it asks each scripted question through
// the step type registry, collects the answers and records the finished ticket.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"TicketBot/bot/chat"
	"TicketBot/bot/steptype"
	"TicketBot/entity"
	"TicketBot/internal/lib/sl"

	"github.com/google/uuid"
)

var (
	ErrFlowActive        = errors.New("a ticket is already in progress in this channel")
	ErrUnknownTicketType = errors.New("unknown ticket type")
	ErrNoActiveFlow      = errors.New("no ticket in progress in this channel")
)

const (
	EventOpened    = "ticket_opened"
	EventAnswered  = "ticket_answered"
	EventCompleted = "ticket_completed"
	EventCancelled = "ticket_cancelled"
)

const saveTimeout = 10 * time.Second

// Store persists closed tickets.
type Store interface {
	SaveTicket(ctx context.Context, t *entity.Ticket) error
}

// Listener is told about every ticket event.
type Listener interface {
	BroadcastTicket(event string, t *entity.Ticket)
}

// Manager runs at most one ticket per channel. Each question is asked only from
// the answer callback of the previous one, so a channel never has two open
// questions.
type Manager struct {
	registry *steptype.Registry
	script   *Script
	store    Store
	listener Listener
	log      *slog.Logger

	mu    sync.Mutex
	flows map[int64]*flow
}

type flow struct {
	mu     sync.Mutex
	ticket *entity.Ticket
	kind   Type
	index  int
	step   steptype.Step
	closed bool
}

func NewManager(registry *steptype.Registry, script *Script, log *slog.Logger) *Manager {
	return &Manager{
		registry: registry,
		script:   script,
		log:      log.With(sl.Module("ticket.manager")),
		flows:    make(map[int64]*flow),
	}
}

func (m *Manager) SetStore(store Store) {
	m.store = store
}

func (m *Manager) SetListener(listener Listener) {
	m.listener = listener
}

// Types returns the ticket types users can open.
func (m *Manager) Types() []Type {
	return append([]Type(nil), m.script.Tickets...)
}

func (m *Manager) gateway() chat.Gateway {
	return m.registry.Env().Gateway
}

// Open starts ticket type name in channelID and asks its first question.
func (m *Manager) Open(channelID int64, user chat.Author, name string) (*entity.Ticket, error) {
	kind, ok := m.script.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTicketType, name)
	}

	f := &flow{
		kind: kind,
		ticket: &entity.Ticket{
			ID:        uuid.NewString(),
			Type:      kind.Name,
			Title:     kind.Title,
			ChannelID: channelID,
			UserID:    user.ID,
			UserName:  user.Name,
			Status:    entity.TicketOpen,
			Answers:   make([]entity.Answer, 0, len(kind.Questions)),
			CreatedAt: time.Now(),
		},
	}

	m.mu.Lock()
	if _, busy := m.flows[channelID]; busy {
		m.mu.Unlock()
		return nil, ErrFlowActive
	}
	m.flows[channelID] = f
	m.mu.Unlock()

	m.log.Info("ticket opened",
		slog.String("ticket_id", f.ticket.ID),
		slog.String("type", kind.Name),
		slog.Int64("channel_id", channelID),
		slog.Int64("user_id", user.ID),
	)

	f.mu.Lock()
	opened := f.ticket.Clone()
	err := m.ask(f)
	f.mu.Unlock()

	m.emit(EventOpened, opened)
	if err != nil {
		m.close(f, entity.TicketCancelled)
		return nil, err
	}
	return opened, nil
}

// ask starts the question at f.index. f.mu must be held.
func (m *Manager) ask(f *flow) error {
	q := f.kind.Questions[f.index]
	step, err := m.registry.New(q.Type)
	if err != nil {
		return fmt.Errorf("question %s: %w", q.Key, err)
	}
	if err := step.Init(f.ticket.ChannelID, q.Question, q.Description, m.answered(f, q), q.Options); err != nil {
		step.Cleanup()
		return fmt.Errorf("question %s: %w", q.Key, err)
	}
	f.step = step
	step.Ask()
	return nil
}

func (m *Manager) answered(f *flow, q Question) steptype.Callback {
	return func(value any) {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return
		}
		f.ticket.Answers = append(f.ticket.Answers, entity.Answer{
			Key:      q.Key,
			Question: q.Question,
			StepType: q.Type,
			Value:    value,
		})
		f.index++
		f.step = nil
		snapshot := f.ticket.Clone()

		var err error
		done := f.index == len(f.kind.Questions)
		if !done {
			err = m.ask(f)
		}
		f.mu.Unlock()

		m.emit(EventAnswered, snapshot)
		switch {
		case err != nil:
			m.log.Error("asking next question",
				slog.String("ticket_id", snapshot.ID),
				sl.Err(err),
			)
			m.gateway().SendError(snapshot.ChannelID, m.registry.Env().InvalidAnswer)
			m.close(f, entity.TicketCancelled)
		case done:
			m.close(f, entity.TicketCompleted)
		}
	}
}

// Cancel aborts the ticket running in channelID.
func (m *Manager) Cancel(channelID int64) (*entity.Ticket, error) {
	m.mu.Lock()
	f, ok := m.flows[channelID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNoActiveFlow
	}
	t := m.close(f, entity.TicketCancelled)
	if t == nil {
		return nil, ErrNoActiveFlow
	}
	return t, nil
}

// close finishes f once and returns the final ticket, or nil if f was already closed.
func (m *Manager) close(f *flow, status entity.TicketStatus) *entity.Ticket {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	now := time.Now()
	f.ticket.Status = status
	f.ticket.ClosedAt = &now
	step := f.step
	f.step = nil
	t := f.ticket.Clone()
	kind := f.kind
	f.mu.Unlock()

	m.mu.Lock()
	if m.flows[t.ChannelID] == f {
		delete(m.flows, t.ChannelID)
	}
	m.mu.Unlock()

	if step != nil {
		step.Cancel()
	}

	m.log.Info("ticket closed",
		slog.String("ticket_id", t.ID),
		slog.String("status", string(status)),
		slog.Int("answers", len(t.Answers)),
	)

	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := m.store.SaveTicket(ctx, t); err != nil {
			m.log.Error("saving ticket", slog.String("ticket_id", t.ID), sl.Err(err))
		}
		cancel()
	}

	if status == entity.TicketCompleted {
		m.emit(EventCompleted, t)
		m.gateway().SendEmbed(t.ChannelID, summary(kind, t, m.registry.Env().AccentColor), func(_ int64, err error) {
			if err != nil {
				m.log.Warn("sending ticket summary", slog.String("ticket_id", t.ID), sl.Err(err))
			}
		})
	} else {
		m.emit(EventCancelled, t)
	}
	return t
}

func summary(kind Type, t *entity.Ticket, color int) chat.Embed {
	title := kind.Completed
	if title == "" {
		title = "Ticket submitted"
	}
	var sb strings.Builder
	for i, a := range t.Answers {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(a.Question)
		sb.WriteString(": ")
		sb.WriteString(fmt.Sprint(a.Value))
	}
	return chat.Embed{Title: title, Description: sb.String(), Color: color}
}

func (m *Manager) emit(event string, t *entity.Ticket) {
	if m.listener != nil {
		m.listener.BroadcastTicket(event, t)
	}
}

// Active returns the ticket running in channelID.
func (m *Manager) Active(channelID int64) (*entity.Ticket, bool) {
	m.mu.Lock()
	f, ok := m.flows[channelID]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticket.Clone(), true
}

// ActiveTickets returns every running ticket.
func (m *Manager) ActiveTickets() []*entity.Ticket {
	m.mu.Lock()
	flows := make([]*flow, 0, len(m.flows))
	for _, f := range m.flows {
		flows = append(flows, f)
	}
	m.mu.Unlock()

	tickets := make([]*entity.Ticket, 0, len(flows))
	for _, f := range flows {
		f.mu.Lock()
		tickets = append(tickets, f.ticket.Clone())
		f.mu.Unlock()
	}
	return tickets
}

// CancelAll aborts every running ticket, e.g. on shutdown.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	channels := make([]int64, 0, len(m.flows))
	for ch := range m.flows {
		channels = append(channels, ch)
	}
	m.mu.Unlock()
	for _, ch := range channels {
		_, _ = m.Cancel(ch)
	}
}
