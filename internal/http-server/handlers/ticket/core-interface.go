package ticket

import (
	bot "TicketBot/bot/ticket"
	"TicketBot/entity"
)

type Core interface {
	ListTickets(status, ticketType string, limit int64) ([]entity.Ticket, error)
	ActiveTickets() []*entity.Ticket
	GetTicket(id string) (*entity.Ticket, error)
	CancelTicket(username string, channelID int64) error
	TicketTypes() []bot.Type
}
