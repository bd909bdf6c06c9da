package ticket

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"TicketBot/bot/chat/chattest"
	"TicketBot/bot/steps"
	"TicketBot/bot/steptype"
)

const testScript = `
tickets:
  - name: support
    title: Support request
    completed: Thanks, we will get back to you!
    questions:
      - key: name
        type: String
        question: What's your name?
        description: First name is enough.
        options:
          maximumLength: 20
      - key: age
        type: Integer
        question: How old are you?
        options:
          minimum: 1
          maximum: 120
  - name: feedback
    questions:
      - key: happy
        type: Boolean
        question: Are you happy with the service?
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(testScript))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if got := s.Names(); len(got) != 2 || got[0] != "support" || got[1] != "feedback" {
		t.Fatalf("Names() = %v", got)
	}
	support, ok := s.Find("support")
	if !ok {
		t.Fatal("support not found")
	}
	if len(support.Questions) != 2 {
		t.Fatalf("support has %d questions", len(support.Questions))
	}
	if got := support.Questions[0].Options.Int("maximumLength", 0); got != 20 {
		t.Errorf("maximumLength = %d, want 20", got)
	}
	if _, ok := s.Find("missing"); ok {
		t.Error("Find(missing) succeeded")
	}
}

func TestParseScriptRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"no tickets":     "tickets: []\n",
		"no questions":   "tickets:\n  - name: a\n    questions: []\n",
		"missing type":   "tickets:\n  - name: a\n    questions:\n      - key: k\n        question: q\n",
		"missing name":   "tickets:\n  - questions:\n      - key: k\n        type: String\n        question: q\n",
		"duplicate name": "tickets:\n  - name: a\n    questions:\n      - {key: k, type: String, question: q}\n  - name: a\n    questions:\n      - {key: k, type: String, question: q}\n",
		"duplicate key":  "tickets:\n  - name: a\n    questions:\n      - {key: k, type: String, question: q}\n      - {key: k, type: String, question: q2}\n",
		"not yaml":       "tickets: [",
	}
	for name, src := range tests {
		if _, err := ParseScript([]byte(src)); err == nil {
			t.Errorf("%s: ParseScript accepted %q", name, src)
		}
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.yml")
	if err := os.WriteFile(path, []byte(testScript), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScript(path); err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("LoadScript of a missing file succeeded")
	}
}

func TestScriptCheck(t *testing.T) {
	r := steptype.NewRegistry(&steptype.Env{Gateway: chattest.New()})
	s, err := ParseScript([]byte(testScript))
	if err != nil {
		t.Fatal(err)
	}

	err = s.Check(r)
	var unknown *steptype.UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("Check on empty registry = %v, want UnknownTypeError", err)
	}
	if !strings.Contains(err.Error(), "question age") {
		t.Errorf("Check error does not name the question: %v", err)
	}

	if err := steps.Register(r, steps.Messages{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Check(r); err != nil {
		t.Fatalf("Check with built-ins: %v", err)
	}
}
