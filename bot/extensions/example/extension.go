// Package example is a sample extension. It registers the Example step type, a
// free text question whose answer length is limited by the maximumLength option.
package example

import (
	_ "embed"
	"fmt"

	"TicketBot/bot/extension"
	"TicketBot/bot/steptype"
)

//go:embed config.yml
var defaultSettings []byte

const defaultMaximumLengthError = "Your answer is too long!"

type Extension struct {
	settings extension.Settings
	ctx      *extension.Context
}

func New() *Extension {
	return &Extension{}
}

func (e *Extension) Name() string { return "example" }

func (e *Extension) OnEnable(ctx *extension.Context) error {
	settings, err := ctx.LoadSettings(defaultSettings)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	e.settings = settings
	e.ctx = ctx

	if err := ctx.RegisterStepType(Descriptor(e.tooLongMessage())); err != nil {
		return err
	}

	ctx.Log.Info("example extension enabled")
	return nil
}

func (e *Extension) OnDisable() {
	if e.ctx != nil {
		e.ctx.Log.Info("example extension disabled")
	}
}

func (e *Extension) tooLongMessage() string {
	return e.settings.String("maximumLengthError", defaultMaximumLengthError)
}

// Descriptor describes the Example step type.
func Descriptor(tooLong string) steptype.Descriptor {
	return steptype.Descriptor{
		Name:        "Example",
		Description: "An example step type.",
		Producer: func(env *steptype.Env) steptype.Step {
			return NewStep(env, tooLong)
		},
	}
}
