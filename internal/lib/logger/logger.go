package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger returns a text logger on stdout for local runs and a JSON logger
// writing to <logPath>/ticketbot.log otherwise.
func SetupLogger(env, logPath string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		logger = slog.New(slog.NewJSONHandler(openLogFile(logPath), &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		logger = slog.New(slog.NewJSONHandler(openLogFile(logPath), &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return logger
}

func openLogFile(logPath string) io.Writer {
	path := filepath.Join(logPath, "ticketbot.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file %s: %v, falling back to stdout\n", path, err)
		return os.Stdout
	}
	return f
}

// AdminSender delivers a plain text notice to the bot administrator.
type AdminSender interface {
	SendMessage(msg string)
}

// TelegramHandler mirrors records at or above level to the administrator chat.
type TelegramHandler struct {
	next   slog.Handler
	sender AdminSender
	level  slog.Level
	attrs  []slog.Attr
}

// SetupTelegramHandler wraps the logger so that records at or above level are
// also forwarded to the administrator.
func SetupTelegramHandler(log *slog.Logger, sender AdminSender, level slog.Level) *slog.Logger {
	return slog.New(&TelegramHandler{
		next:   log.Handler(),
		sender: sender,
		level:  level,
	})
}

func (h *TelegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *TelegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level && h.sender != nil {
		h.sender.SendMessage(format(r, h.attrs))
	}
	return h.next.Handle(ctx, r)
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TelegramHandler{
		next:   h.next.WithAttrs(attrs),
		sender: h.sender,
		level:  h.level,
		attrs:  merged,
	}
}

func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	return &TelegramHandler{
		next:   h.next.WithGroup(name),
		sender: h.sender,
		level:  h.level,
		attrs:  h.attrs,
	}
}

func format(r slog.Record, attrs []slog.Attr) string {
	var sb strings.Builder
	sb.WriteString(r.Level.String())
	sb.WriteString(": ")
	sb.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		sb.WriteString("\n")
		sb.WriteString(a.Key)
		sb.WriteString(": ")
		sb.WriteString(a.Value.String())
		return true
	}
	for _, a := range attrs {
		write(a)
	}
	r.Attrs(write)
	return sb.String()
}
