package steptype

import (
	"errors"
	"math"
	"testing"
	"unicode/utf8"

	"TicketBot/bot/chat/chattest"
)

const channel int64 = 42

func maxLengthParser(text string, opts Options) (string, error) {
	if utf8.RuneCountInString(text) > opts.Int("maximumLength", math.MaxInt) {
		return "", Invalid("too long")
	}
	return text, nil
}

type answers struct {
	values []string
}

func (a *answers) callback() Callback {
	return Typed(func(v string) { a.values = append(a.values, v) })
}

func newPrompt(t *testing.T, autoDelete bool, opts Options) (*Prompt[string], *chattest.Gateway, *answers) {
	t.Helper()
	gw := chattest.New()
	env := &Env{Gateway: gw, AutoDelete: autoDelete, AccentColor: 0x5865F2, InvalidAnswer: "invalid"}
	p := NewPrompt(env, maxLengthParser)
	got := &answers{}
	if err := p.Init(channel, "What's your name?", "First name only.", got.callback(), opts); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return p, gw, got
}

func TestPromptAsksWithEmbed(t *testing.T) {
	p, gw, _ := newPrompt(t, false, nil)
	if p.State() != Created {
		t.Fatalf("state after Init = %v", p.State())
	}
	p.Ask()

	embeds := gw.SentOfKind(chattest.KindEmbed)
	if len(embeds) != 1 {
		t.Fatalf("sent %d embeds, want 1", len(embeds))
	}
	e := embeds[0]
	if e.ChannelID != channel || e.Embed.Title != "What's your name?" || e.Embed.Description != "First name only." || e.Embed.Color != 0x5865F2 {
		t.Errorf("unexpected question %+v", e)
	}
	if id, ok := p.MessageID(); !ok || id != e.MessageID {
		t.Errorf("MessageID() = %d, %v; want %d", id, ok, e.MessageID)
	}
	if p.State() != AwaitingAnswer {
		t.Errorf("state after Ask = %v, want awaiting_answer", p.State())
	}
}

func TestPromptAcceptsAnswerWithinLimit(t *testing.T) {
	p, gw, got := newPrompt(t, false, Options{"maximumLength": 5})
	p.Ask()

	gw.Say(channel, 7, "hello")

	if len(got.values) != 1 || got.values[0] != "hello" {
		t.Fatalf("callback values = %v, want [hello]", got.values)
	}
	if p.State() != Completed {
		t.Errorf("state = %v, want completed", p.State())
	}
	if gw.Len() != 0 {
		t.Errorf("%d listeners left after completion", gw.Len())
	}

	gw.Say(channel, 7, "again")
	if len(got.values) != 1 {
		t.Errorf("callback fired again after completion: %v", got.values)
	}
}

func TestPromptRejectsOverLimitAndStaysAwaiting(t *testing.T) {
	p, gw, got := newPrompt(t, false, Options{"maximumLength": 5})
	p.Ask()

	gw.Say(channel, 7, "hello!")

	if len(got.values) != 0 {
		t.Fatalf("callback fired for rejected answer: %v", got.values)
	}
	if errs := gw.Errors(); len(errs) != 1 || errs[0] != "too long" {
		t.Fatalf("error messages = %v, want [too long]", errs)
	}
	if p.State() != AwaitingAnswer {
		t.Fatalf("state = %v, want awaiting_answer", p.State())
	}
	if gw.Len() != 1 {
		t.Fatalf("listener count = %d, want 1", gw.Len())
	}

	gw.Say(channel, 7, "hey")
	if len(got.values) != 1 || got.values[0] != "hey" {
		t.Fatalf("retry values = %v, want [hey]", got.values)
	}
}

func TestPromptIgnoresBotMessages(t *testing.T) {
	p, gw, got := newPrompt(t, true, Options{"maximumLength": 1})
	p.Ask()
	before := len(gw.Sent())

	gw.SayAsBot(channel, "a")
	gw.SayAsBot(channel, "far too long")

	if len(got.values) != 0 {
		t.Fatalf("bot message triggered callback: %v", got.values)
	}
	if len(gw.Sent()) != before || len(gw.Deleted()) != 0 {
		t.Fatal("bot message caused side effects")
	}
	if p.State() != AwaitingAnswer {
		t.Fatalf("state = %v", p.State())
	}
}

func TestPromptIgnoresOtherChannels(t *testing.T) {
	p, gw, got := newPrompt(t, true, Options{"maximumLength": 1})
	p.Ask()
	before := len(gw.Sent())

	gw.Say(channel+1, 7, "x")
	gw.Say(channel+1, 7, "far too long")

	if len(got.values) != 0 || len(gw.Sent()) != before || len(gw.Deleted()) != 0 {
		t.Fatal("message from another channel had an effect")
	}
	if p.State() != AwaitingAnswer {
		t.Fatalf("state = %v", p.State())
	}
}

func TestPromptIgnoresAnswersBeforeAsk(t *testing.T) {
	p, gw, got := newPrompt(t, false, nil)
	gw.Say(channel, 7, "early")
	if len(got.values) != 0 || p.State() != Created {
		t.Fatalf("answer before Ask was accepted: %v, %v", got.values, p.State())
	}
}

func TestPromptAutoDeleteRemovesAnswerAndQuestion(t *testing.T) {
	p, gw, _ := newPrompt(t, true, nil)
	p.Ask()
	question, _ := p.MessageID()

	answer := gw.Say(channel, 7, "hello")

	if !gw.WasDeleted(answer) {
		t.Error("answer message not deleted")
	}
	if !gw.WasDeleted(question) {
		t.Error("question message not deleted")
	}
}

func TestPromptAutoDeleteDeletesRejectedAnswers(t *testing.T) {
	p, gw, _ := newPrompt(t, true, Options{"maximumLength": 2})
	p.Ask()
	question, _ := p.MessageID()

	answer := gw.Say(channel, 7, "too long")

	if !gw.WasDeleted(answer) {
		t.Error("rejected answer not deleted")
	}
	if gw.WasDeleted(question) {
		t.Error("question deleted while still awaiting an answer")
	}
}

func TestPromptWithoutAutoDeleteDeletesNothing(t *testing.T) {
	p, gw, got := newPrompt(t, false, nil)
	p.Ask()
	gw.Say(channel, 7, "hello")

	if len(got.values) != 1 {
		t.Fatalf("callback values = %v", got.values)
	}
	if d := gw.Deleted(); len(d) != 0 {
		t.Fatalf("deleted %v with auto-delete disabled", d)
	}
}

func TestPromptDeleteFailureDoesNotStopFlow(t *testing.T) {
	p, gw, got := newPrompt(t, true, nil)
	gw.DeleteErr = errors.New("missing permission")
	p.Ask()

	gw.Say(channel, 7, "hello")

	if len(got.values) != 1 || p.State() != Completed {
		t.Fatalf("delete failure interrupted the flow: %v, %v", got.values, p.State())
	}
}

func TestPromptCleanupIsIdempotent(t *testing.T) {
	p, gw, _ := newPrompt(t, true, nil)
	p.Ask()

	p.Cleanup()
	afterFirst := len(gw.Deleted())
	p.Cleanup()

	if afterFirst != 1 {
		t.Fatalf("first Cleanup deleted %d messages, want 1", afterFirst)
	}
	if len(gw.Deleted()) != afterFirst {
		t.Fatalf("second Cleanup deleted again: %v", gw.Deleted())
	}
	if gw.Len() != 0 {
		t.Fatalf("listener count = %d", gw.Len())
	}
}

func TestPromptCleanupWithoutInit(t *testing.T) {
	gw := chattest.New()
	p := NewPrompt(&Env{Gateway: gw, AutoDelete: true}, maxLengthParser)
	p.Cleanup()
	p.Cleanup()
	if len(gw.Deleted()) != 0 || gw.Len() != 0 {
		t.Fatal("Cleanup on an uninitialized prompt had side effects")
	}
}

func TestPromptInitTwiceFails(t *testing.T) {
	p, gw, _ := newPrompt(t, false, nil)
	err := p.Init(channel, "again", "", nil, nil)
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Init error = %v", err)
	}
	if gw.Len() != 1 {
		t.Fatalf("second Init subscribed again: %d listeners", gw.Len())
	}
}

func TestPromptCancel(t *testing.T) {
	p, gw, got := newPrompt(t, false, nil)
	p.Ask()

	p.Cancel()
	gw.Say(channel, 7, "hello")

	if p.State() != Cancelled {
		t.Fatalf("state = %v, want cancelled", p.State())
	}
	if len(got.values) != 0 {
		t.Fatalf("callback fired after Cancel: %v", got.values)
	}
	if gw.Len() != 0 {
		t.Fatalf("listener count = %d", gw.Len())
	}
}

func TestPromptCancelAfterCompletionKeepsState(t *testing.T) {
	p, gw, _ := newPrompt(t, false, nil)
	p.Ask()
	gw.Say(channel, 7, "hello")
	p.Cancel()
	if p.State() != Completed {
		t.Fatalf("state = %v, want completed", p.State())
	}
}

func TestPromptDeletesQuestionThatArrivesAfterCleanup(t *testing.T) {
	p, gw, _ := newPrompt(t, true, nil)
	gw.Hold = true
	p.Ask()

	p.Cancel()
	if len(gw.Deleted()) != 0 {
		t.Fatal("deleted before the question id was known")
	}

	gw.Flush()
	question := gw.SentOfKind(chattest.KindEmbed)[0].MessageID
	if !gw.WasDeleted(question) {
		t.Fatal("late question message was not deleted")
	}
}

func TestPromptSendFailureLeavesNothingToDelete(t *testing.T) {
	p, gw, got := newPrompt(t, true, nil)
	gw.SendErr = errors.New("network down")
	p.Ask()
	gw.SendErr = nil

	if _, ok := p.MessageID(); ok {
		t.Fatal("message id recorded for a failed send")
	}
	answer := gw.Say(channel, 7, "hello")
	if len(got.values) != 1 {
		t.Fatalf("answer not accepted after failed send: %v", got.values)
	}
	for _, d := range gw.Deleted() {
		if d.MessageID != answer {
			t.Fatalf("unexpected delete %+v", d)
		}
	}
}

func TestPromptCallbackRunsBeforeCleanup(t *testing.T) {
	gw := chattest.New()
	p := NewPrompt(&Env{Gateway: gw}, maxLengthParser)
	listeners := -1
	cb := func(any) { listeners = gw.Len() }
	if err := p.Init(channel, "q", "", cb, nil); err != nil {
		t.Fatal(err)
	}
	p.Ask()
	gw.Say(channel, 7, "a")

	if listeners != 1 {
		t.Fatalf("listeners during callback = %d, want 1", listeners)
	}
	if gw.Len() != 0 {
		t.Fatalf("listeners after completion = %d, want 0", gw.Len())
	}
}

func TestPromptNonValidationErrorUsesDefaultMessage(t *testing.T) {
	gw := chattest.New()
	p := NewPrompt(&Env{Gateway: gw, InvalidAnswer: "try again"}, func(string, Options) (int, error) {
		return 0, errors.New("strconv: bad input")
	})
	if err := p.Init(channel, "q", "", nil, nil); err != nil {
		t.Fatal(err)
	}
	p.Ask()
	gw.Say(channel, 7, "x")

	if errs := gw.Errors(); len(errs) != 1 || errs[0] != "try again" {
		t.Fatalf("errors = %v, want [try again]", errs)
	}
}

func TestTypedDropsMismatchedValues(t *testing.T) {
	var got []int64
	cb := Typed(func(v int64) { got = append(got, v) })
	cb(int64(3))
	cb("3")
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("Typed delivered %v", got)
	}
}
