package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TicketBot/entity"

	"github.com/gorilla/websocket"
)

type tokenAuth string

func (a tokenAuth) ValidateToken(token string) (string, error) {
	if token != string(a) {
		return "", errors.New("bad token")
	}
	return "operator", nil
}

type cancelCall struct {
	username  string
	channelID int64
}

type recordingHandler chan cancelCall

func (h recordingHandler) CancelTicket(username string, channelID int64) error {
	h <- cancelCall{username, channelID}
	return nil
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, tokenAuth("secret"), log, w, r)
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	return websocket.DefaultDialer.Dial(url, nil)
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", hub.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeWsRejectsBadToken(t *testing.T) {
	_, srv := startHub(t)
	_, resp, err := dial(t, srv, "wrong")
	if err == nil {
		t.Fatal("dial with a bad token succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("response = %v", resp)
	}
}

func TestBroadcastTicket(t *testing.T) {
	hub, srv := startHub(t)
	conn, _, err := dial(t, srv, "secret")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	waitClients(t, hub, 1)

	hub.BroadcastTicket("ticket_completed", &entity.Ticket{ID: "t-1", Status: entity.TicketCompleted})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var event struct {
		Type string        `json:"type"`
		Data entity.Ticket `json:"data"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatal(err)
	}
	if event.Type != "ticket_completed" || event.Data.ID != "t-1" {
		t.Fatalf("event = %+v", event)
	}
}

func TestClientCancelTicket(t *testing.T) {
	hub, srv := startHub(t)
	calls := make(recordingHandler, 1)
	hub.SetHandler(calls)

	conn, _, err := dial(t, srv, "secret")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	msg := `{"type":"cancel_ticket","data":{"channel_id":42}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-calls:
		if c.username != "operator" || c.channelID != 42 {
			t.Fatalf("call = %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancel_ticket not handled")
	}
}

func TestHandleClientMessageIgnoresGarbage(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	calls := make(recordingHandler, 1)
	hub.SetHandler(calls)

	hub.HandleClientMessage("op", []byte("not json"))
	hub.HandleClientMessage("op", []byte(`{"type":"cancel_ticket","data":{}}`))
	hub.HandleClientMessage("op", []byte(`{"type":"other"}`))

	if len(calls) != 0 {
		t.Fatalf("handler called %d times", len(calls))
	}
}
