package repository

import (
	"context"
	"errors"
	"fmt"

	"TicketBot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TicketFilter narrows ListTickets. Zero values match everything.
type TicketFilter struct {
	Type      string
	Status    entity.TicketStatus
	ChannelID int64
	Limit     int64
}

func (f TicketFilter) query() bson.D {
	query := bson.D{}
	if f.Type != "" {
		query = append(query, bson.E{Key: "type", Value: f.Type})
	}
	if f.Status != "" {
		query = append(query, bson.E{Key: "status", Value: f.Status})
	}
	if f.ChannelID != 0 {
		query = append(query, bson.E{Key: "channel_id", Value: f.ChannelID})
	}
	return query
}

// SaveTicket upserts a closed ticket by id.
func (m *MongoDB) SaveTicket(ctx context.Context, ticket *entity.Ticket) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ticketsCollection)

	filter := bson.D{{"_id", ticket.ID}}
	update := bson.D{{"$set", ticket}}
	opts := options.Update().SetUpsert(true)

	if _, err = collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("mongodb update error: %w", err)
	}
	return nil
}

// GetTicket returns nil without error when no ticket has that id.
func (m *MongoDB) GetTicket(ctx context.Context, id string) (*entity.Ticket, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ticketsCollection)

	var ticket entity.Ticket
	err = collection.FindOne(ctx, bson.D{{"_id", id}}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, m.findError(err)
	}
	return &ticket, nil
}

// ListTickets returns stored tickets, newest first.
func (m *MongoDB) ListTickets(ctx context.Context, filter TicketFilter) ([]entity.Ticket, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ticketsCollection)

	opts := options.Find().SetSort(bson.D{{"created_at", -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := collection.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, m.findError(err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	tickets := make([]entity.Ticket, 0)
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return tickets, nil
}
