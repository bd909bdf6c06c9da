package repository

import (
	"log/slog"
	"testing"

	"TicketBot/entity"
	"TicketBot/internal/config"

	"go.mongodb.org/mongo-driver/bson"
)

func TestTicketFilterQuery(t *testing.T) {
	if q := (TicketFilter{}).query(); len(q) != 0 {
		t.Fatalf("empty filter = %v", q)
	}

	q := TicketFilter{Type: "support", Status: entity.TicketCompleted, ChannelID: 42, Limit: 5}.query()
	want := bson.D{
		{Key: "type", Value: "support"},
		{Key: "status", Value: entity.TicketCompleted},
		{Key: "channel_id", Value: int64(42)},
	}
	if len(q) != len(want) {
		t.Fatalf("query = %v, want %v", q, want)
	}
	for i := range want {
		if q[i] != want[i] {
			t.Errorf("query[%d] = %v, want %v", i, q[i], want[i])
		}
	}
}

func TestNewMongoClientDisabled(t *testing.T) {
	conf := &config.Config{}
	db, err := NewMongoClient(conf, slog.New(slog.DiscardHandler))
	if err != nil || db != nil {
		t.Fatalf("disabled client = %v, %v", db, err)
	}

	conf.Mongo.Enabled = true
	conf.Mongo.Host = "127.0.0.1"
	conf.Mongo.Port = "27017"
	conf.Mongo.Database = "tickets"
	db, err = NewMongoClient(conf, slog.New(slog.DiscardHandler))
	if err != nil || db == nil {
		t.Fatalf("enabled client = %v, %v", db, err)
	}
	if db.database != "tickets" {
		t.Errorf("database = %q", db.database)
	}
}
