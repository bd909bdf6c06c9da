// Package extension loads independently written components that add step
// types to the bot.
package extension

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"TicketBot/bot/steptype"
	"TicketBot/internal/lib/sl"
)

const settingsFile = "config.yml"

// Extension is enabled once at startup and disabled at shutdown.
type Extension interface {
	Name() string
	OnEnable(ctx *Context) error
	OnDisable()
}

// Host enables extensions and records which step types each one registered.
type Host struct {
	registry *steptype.Registry
	dir      string
	log      *slog.Logger

	mu      sync.Mutex
	enabled []*Context
}

// NewHost creates a host registering into registry. Extension settings live in
// dir/<extension name>/config.yml.
func NewHost(registry *steptype.Registry, dir string, log *slog.Logger) *Host {
	return &Host{
		registry: registry,
		dir:      dir,
		log:      log.With(sl.Module("extension.host")),
	}
}

// Context is what an extension sees of the host while it is enabled.
type Context struct {
	host       *Host
	ext        Extension
	registered []string
	Log        *slog.Logger
}

// Env returns the environment shared by all step instances.
func (c *Context) Env() *steptype.Env {
	return c.host.registry.Env()
}

// RegisterStepType makes a step type available to ticket scripts under d.Name.
func (c *Context) RegisterStepType(d steptype.Descriptor) error {
	if err := c.host.registry.Register(d); err != nil {
		return err
	}
	c.registered = append(c.registered, d.Name)
	c.Log.Info("registered step type", slog.String("name", d.Name))
	return nil
}

// LoadSettings merges the packaged defaults with the user's override file.
// A missing override file is created from the defaults so users have something
// to edit.
func (c *Context) LoadSettings(defaults []byte) (Settings, error) {
	path := filepath.Join(c.host.dir, c.ext.Name(), settingsFile)

	override, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		override = nil
		if werr := writeDefaults(path, defaults); werr != nil {
			c.Log.Warn("copying default settings", slog.String("path", path), sl.Err(werr))
		}
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	settings, err := MergeSettings(defaults, override)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return settings, nil
}

func writeDefaults(path string, defaults []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, defaults, 0o644)
}

// Enable enables each extension in order. An extension whose OnEnable fails is
// skipped and the step types it managed to register are removed again.
func (h *Host) Enable(exts ...Extension) error {
	var errs []error
	for _, ext := range exts {
		ctx := &Context{
			host: h,
			ext:  ext,
			Log:  h.log.With(slog.String("extension", ext.Name())),
		}
		if err := ext.OnEnable(ctx); err != nil {
			for _, name := range ctx.registered {
				h.registry.Unregister(name)
			}
			h.log.Error("enabling extension", slog.String("extension", ext.Name()), sl.Err(err))
			errs = append(errs, fmt.Errorf("extension %s: %w", ext.Name(), err))
			continue
		}

		h.mu.Lock()
		h.enabled = append(h.enabled, ctx)
		h.mu.Unlock()
		h.log.Info("extension enabled",
			slog.String("extension", ext.Name()),
			slog.Any("step_types", ctx.registered),
		)
	}
	return errors.Join(errs...)
}

// DisableAll disables extensions in reverse order and unregisters their step types.
func (h *Host) DisableAll() {
	h.mu.Lock()
	enabled := h.enabled
	h.enabled = nil
	h.mu.Unlock()

	for i := len(enabled) - 1; i >= 0; i-- {
		ctx := enabled[i]
		ctx.ext.OnDisable()
		for _, name := range ctx.registered {
			h.registry.Unregister(name)
		}
		h.log.Info("extension disabled", slog.String("extension", ctx.ext.Name()))
	}
}

// Enabled returns the names of enabled extensions in enable order.
func (h *Host) Enabled() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.enabled))
	for i, ctx := range h.enabled {
		names[i] = ctx.ext.Name()
	}
	return names
}
