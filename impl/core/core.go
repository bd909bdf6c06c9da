package core

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"TicketBot/bot/steptype"
	"TicketBot/bot/ticket"
	"TicketBot/entity"
	repository "TicketBot/internal/database"
	"TicketBot/internal/lib/sl"
)

const (
	adminUsername  = "admin"
	requestTimeout = 10 * time.Second
)

type Repository interface {
	CheckApiKey(key string) (string, error)
	GenerateApiKey(username string) (string, error)

	GetTicket(ctx context.Context, id string) (*entity.Ticket, error)
	ListTickets(ctx context.Context, filter repository.TicketFilter) ([]entity.Ticket, error)
}

// TicketManager is the running ticket flow driver.
type TicketManager interface {
	ActiveTickets() []*entity.Ticket
	Cancel(channelID int64) (*entity.Ticket, error)
	Types() []ticket.Type
}

type StepTypeRegistry interface {
	List() []steptype.Descriptor
}

type Core struct {
	repo     Repository
	tickets  TicketManager
	registry StepTypeRegistry
	authKey  string
	log      *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

func (c *Core) SetTicketManager(tickets TicketManager) {
	c.tickets = tickets
}

func (c *Core) SetStepTypeRegistry(registry StepTypeRegistry) {
	c.registry = registry
}

// AuthenticateByToken accepts the configured admin key or an operator key
// stored in the database.
func (c *Core) AuthenticateByToken(token string) (*entity.Operator, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	if c.authKey != "" && subtle.ConstantTimeCompare([]byte(token), []byte(c.authKey)) == 1 {
		return &entity.Operator{Username: adminUsername, Token: token}, nil
	}
	if c.repo == nil {
		return nil, fmt.Errorf("invalid token")
	}
	username, err := c.repo.CheckApiKey(token)
	if err != nil {
		return nil, fmt.Errorf("check api key: %w", err)
	}
	return &entity.Operator{Username: username, Token: token}, nil
}

// ValidateToken authenticates websocket clients.
func (c *Core) ValidateToken(token string) (string, error) {
	operator, err := c.AuthenticateByToken(token)
	if err != nil {
		return "", err
	}
	return operator.Username, nil
}

func (c *Core) GenerateApiKey(username string) (string, error) {
	if c.repo == nil {
		return "", fmt.Errorf("database not available")
	}
	return c.repo.GenerateApiKey(username)
}

func (c *Core) ListTickets(status, ticketType string, limit int64) ([]entity.Ticket, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("ticket store not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return c.repo.ListTickets(ctx, repository.TicketFilter{
		Type:   ticketType,
		Status: entity.TicketStatus(status),
		Limit:  limit,
	})
}

func (c *Core) ActiveTickets() []*entity.Ticket {
	if c.tickets == nil {
		return []*entity.Ticket{}
	}
	return c.tickets.ActiveTickets()
}

// GetTicket looks in the running flows first, then in the store. A missing
// ticket is reported as nil without error.
func (c *Core) GetTicket(id string) (*entity.Ticket, error) {
	for _, t := range c.ActiveTickets() {
		if t.ID == id {
			return t, nil
		}
	}
	if c.repo == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return c.repo.GetTicket(ctx, id)
}

func (c *Core) CancelTicket(username string, channelID int64) error {
	if c.tickets == nil {
		return ticket.ErrNoActiveFlow
	}
	t, err := c.tickets.Cancel(channelID)
	if err != nil {
		if !errors.Is(err, ticket.ErrNoActiveFlow) {
			c.log.With(
				slog.Int64("channel_id", channelID),
				sl.Err(err),
			).Error("cancel ticket")
		}
		return err
	}
	c.log.With(
		slog.String("username", username),
		slog.String("ticket_id", t.ID),
		slog.Int64("channel_id", channelID),
	).Info("ticket cancelled by operator")
	return nil
}

func (c *Core) TicketTypes() []ticket.Type {
	if c.tickets == nil {
		return []ticket.Type{}
	}
	return c.tickets.Types()
}

func (c *Core) StepTypes() []steptype.Descriptor {
	if c.registry == nil {
		return []steptype.Descriptor{}
	}
	return c.registry.List()
}
