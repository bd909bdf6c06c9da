package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

type recordingSender struct {
	messages []string
}

func (s *recordingSender) SendMessage(msg string) {
	s.messages = append(s.messages, msg)
}

func TestTelegramHandlerForwardsAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sender := &recordingSender{}

	log := SetupTelegramHandler(base, sender, slog.LevelWarn).With(slog.String("module", "test"))
	log.Info("routine")
	log.Error("broken", slog.String("ticket", "42"))

	if len(sender.messages) != 1 {
		t.Fatalf("forwarded %d messages, want 1", len(sender.messages))
	}
	got := sender.messages[0]
	for _, want := range []string{"ERROR: broken", "module: test", "ticket: 42"} {
		if !strings.Contains(got, want) {
			t.Errorf("forwarded message %q missing %q", got, want)
		}
	}
	if !strings.Contains(buf.String(), "routine") {
		t.Error("records below the forwarding level must still reach the base handler")
	}
}
