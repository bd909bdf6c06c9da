package ticket

import (
	"errors"
	"fmt"
	"os"

	"TicketBot/bot/steptype"
	"TicketBot/internal/lib/validate"

	"gopkg.in/yaml.v3"
)

// Question is one scripted question.
type Question struct {
	Key         string           `yaml:"key" json:"key" validate:"required"`
	Type        string           `yaml:"type" json:"type" validate:"required"`
	Question    string           `yaml:"question" json:"question" validate:"required"`
	Description string           `yaml:"description" json:"description"`
	Options     steptype.Options `yaml:"options" json:"options"`
}

// Type is a named sequence of questions, e.g. "support" or "bug_report".
type Type struct {
	Name        string     `yaml:"name" json:"name" validate:"required"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Completed   string     `yaml:"completed" json:"completed"`
	Questions   []Question `yaml:"questions" json:"questions" validate:"required,min=1,dive"`
}

// Script is the ticket definition file.
type Script struct {
	Tickets []Type `yaml:"tickets" json:"tickets" validate:"required,min=1,dive"`
}

// ParseScript decodes and validates a YAML ticket script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("validating script: %w", err)
	}

	seen := make(map[string]bool)
	for _, t := range s.Tickets {
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate ticket type %q", t.Name)
		}
		seen[t.Name] = true

		keys := make(map[string]bool)
		for _, q := range t.Questions {
			if keys[q.Key] {
				return nil, fmt.Errorf("ticket %s: duplicate question key %q", t.Name, q.Key)
			}
			keys[q.Key] = true
		}
	}
	return &s, nil
}

// LoadScript reads and parses the script at path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(data)
}

// Check reports every question whose step type is not registered.
func (s *Script) Check(r *steptype.Registry) error {
	var errs []error
	for _, t := range s.Tickets {
		for _, q := range t.Questions {
			if _, err := r.Resolve(q.Type); err != nil {
				errs = append(errs, fmt.Errorf("ticket %s, question %s: %w", t.Name, q.Key, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Find returns the ticket type called name.
func (s *Script) Find(name string) (Type, bool) {
	for _, t := range s.Tickets {
		if t.Name == name {
			return t, true
		}
	}
	return Type{}, false
}

// Names returns the ticket type names in script order.
func (s *Script) Names() []string {
	names := make([]string, len(s.Tickets))
	for i, t := range s.Tickets {
		names[i] = t.Name
	}
	return names
}
