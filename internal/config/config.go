package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"TicketBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Tickets struct {
		Script             string        `yaml:"script" env-default:"tickets.yml"`
		AutoDeleteMessages bool          `yaml:"auto_delete_messages" env-default:"false"`
		AccentColor        string        `yaml:"accent_color" env-default:"#5865F2"`
		ErrorTTL           time.Duration `yaml:"error_ttl" env-default:"5s"`
		Messages           struct {
			InvalidAnswer  string `yaml:"invalid_answer" env-default:"That answer is not valid, please try again."`
			TooLong        string `yaml:"too_long" env-default:"Your answer is too long, please shorten it."`
			NotBoolean     string `yaml:"not_boolean" env-default:"Please answer yes or no."`
			NotInteger     string `yaml:"not_integer" env-default:"Please answer with a whole number."`
			OutOfRange     string `yaml:"out_of_range" env-default:"That number is out of the allowed range."`
			InvalidPhone   string `yaml:"invalid_phone" env-default:"Invalid phone number, please use the international format (+380XXXXXXXXX)."`
			FlowActive     string `yaml:"flow_active" env-default:"A ticket is already in progress in this chat. Send /cancel to abort it."`
			UnknownTicket  string `yaml:"unknown_ticket" env-default:"Unknown ticket type."`
			TicketCanceled string `yaml:"ticket_cancelled" env-default:"Ticket cancelled."`
			NoActiveTicket string `yaml:"no_active_ticket" env-default:"There is no ticket in progress."`
		} `yaml:"messages"`
	} `yaml:"tickets"`
	Extensions struct {
		Dir string `yaml:"dir" env-default:"extensions"`
	} `yaml:"extensions"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:"ticketbot"`
	} `yaml:"mongo"`
	Listen struct {
		Enabled bool   `yaml:"enabled" env-default:"true"`
		BindIP  string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port    string `yaml:"port" env-default:"9100"`
		ApiKey  string `yaml:"key" env:"LISTEN_KEY" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

// AccentColor returns the configured accent colour as a 24-bit RGB value.
func (c *Config) AccentColor() (int, error) {
	return ParseColor(c.Tickets.AccentColor)
}

// ParseColor accepts "#RRGGBB", "0xRRGGBB" or a decimal value.
func ParseColor(s string) (int, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}
	v, err := strconv.ParseInt(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing color %q: %w", s, err)
	}
	if v < 0 || v > 0xFFFFFF {
		return 0, fmt.Errorf("color %q out of range", s)
	}
	return int(v), nil
}
