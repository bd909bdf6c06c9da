package extension

import (
	"fmt"

	"TicketBot/bot/steptype"

	"gopkg.in/yaml.v3"
)

// Settings is an extension's key/value configuration.
type Settings map[string]any

// MergeSettings decodes the packaged defaults and the user override (either may
// be empty). Top-level keys from the override win.
func MergeSettings(defaults, override []byte) (Settings, error) {
	merged := Settings{}
	if err := yaml.Unmarshal(defaults, &merged); err != nil {
		return nil, fmt.Errorf("decoding defaults: %w", err)
	}
	if merged == nil {
		merged = Settings{}
	}

	var user Settings
	if err := yaml.Unmarshal(override, &user); err != nil {
		return nil, fmt.Errorf("decoding override: %w", err)
	}
	for k, v := range user {
		merged[k] = v
	}
	return merged, nil
}

func (s Settings) String(key, def string) string {
	return steptype.Options(s).String(key, def)
}

func (s Settings) Int(key string, def int) int {
	return steptype.Options(s).Int(key, def)
}

func (s Settings) Bool(key string, def bool) bool {
	return steptype.Options(s).Bool(key, def)
}
