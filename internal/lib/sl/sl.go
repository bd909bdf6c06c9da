package sl

import (
	"log/slog"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("")}
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

func Module(mod string) slog.Attr {
	return slog.Attr{
		Key:   "module",
		Value: slog.StringValue(mod),
	}
}

// Secret logs only the edges of a sensitive value.
func Secret(key, value string) slog.Attr {
	if len(value) <= 8 {
		return slog.String(key, "***")
	}
	return slog.String(key, value[:4]+"***"+value[len(value)-4:])
}
