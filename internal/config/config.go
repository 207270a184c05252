package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"6004"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	IMAPServer string `envconfig:"IMAP_SERVER" default:"imap.gmail.com"`
	IMAPPort   int    `envconfig:"IMAP_PORT" default:"993"`
	SMTPServer string `envconfig:"SMTP_SERVER" default:"smtp.gmail.com"`
	SMTPPort   int    `envconfig:"SMTP_PORT" default:"587"`

	EmailAccount  string `envconfig:"EMAIL_ACCOUNT"`
	EmailPassword string `envconfig:"EMAIL_APP_PASSWORD"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	KnowledgeDBPath string `envconfig:"KNOWLEDGE_DB_PATH" default:"/tmp/faqdb"`
	FAQURL          string `envconfig:"FAQ_URL" default:"https://www.pnbhousing.com/faqs"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("aryamail", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// MissingCredentials lists required settings that are absent. The server
// refuses to start while any of these is unset.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.EmailAccount == "" {
		missing = append(missing, "EMAIL_ACCOUNT")
	}
	if c.EmailPassword == "" {
		missing = append(missing, "EMAIL_APP_PASSWORD")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	return missing
}

func (c *Config) IMAPAddr() string {
	return fmt.Sprintf("%s:%d", c.IMAPServer, c.IMAPPort)
}
