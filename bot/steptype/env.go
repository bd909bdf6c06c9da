package steptype

import (
	"log/slog"

	"TicketBot/bot/chat"
)

// Env carries the host services and global defaults every step instance needs.
// One Env lives from process start to extension disable and is shared by the
// registry with every instance it produces.
type Env struct {
	Gateway     chat.Gateway
	Log         *slog.Logger
	AutoDelete  bool
	AccentColor int

	// InvalidAnswer is shown when a parser fails with something other than a
	// ValidationError.
	InvalidAnswer string
}

func (e *Env) logger() *slog.Logger {
	if e.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Log
}
