package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string `yaml:"mode"`         // ALL_TRADES or TODAY_ONLY
	SourceURL   string `yaml:"source_url"`   // page carrying the disclosure table
	PollSeconds int    `yaml:"poll_seconds"` // continuous-loop cadence

	Scrape struct {
		ExpectDateColumn bool `yaml:"expect_date_column"` // 7-column table vs 6
		TimeoutSeconds   int  `yaml:"timeout_seconds"`
	} `yaml:"scrape"`

	Snapshot struct {
		Path string `yaml:"path"`
	} `yaml:"snapshot"`

	News struct {
		Enabled        bool   `yaml:"enabled"`
		BaseURL        string `yaml:"base_url"`
		APIKeyEnv      string `yaml:"api_key_env"` // env var holding the key, read in cmd
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		CacheSeconds   int    `yaml:"cache_seconds"`
	} `yaml:"news"`

	Report struct {
		ChunkSize int `yaml:"chunk_size"`
	} `yaml:"report"`

	Discord struct {
		Enabled       bool   `yaml:"enabled"`
		WebhookURLEnv string `yaml:"webhook_url_env"`
	} `yaml:"discord"`

	Email struct {
		Enabled     bool   `yaml:"enabled"`
		SMTPServer  string `yaml:"smtp_server"`
		SMTPPort    int    `yaml:"smtp_port"`
		Sender      string `yaml:"sender"`
		Recipient   string `yaml:"recipient"`
		PasswordEnv string `yaml:"password_env"`
	} `yaml:"email"`

	ReportLog struct {
		Enabled       bool   `yaml:"enabled"`
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"report_log"`
}

func (c *Config) Validate() error {
	if c.Mode != "ALL_TRADES" && c.Mode != "TODAY_ONLY" {
		return fmt.Errorf("invalid mode '%s': must be 'ALL_TRADES' or 'TODAY_ONLY'", c.Mode)
	}
	if c.SourceURL == "" {
		return errors.New("source_url cannot be empty")
	}
	if c.Report.ChunkSize < 1 {
		return fmt.Errorf("report.chunk_size must be positive, got %d", c.Report.ChunkSize)
	}
	if c.Email.Enabled {
		if c.Email.SMTPServer == "" || c.Email.Sender == "" || c.Email.Recipient == "" {
			return errors.New("email enabled but smtp_server/sender/recipient incomplete")
		}
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "ALL_TRADES"
	}
	if c.SourceURL == "" {
		c.SourceURL = "https://www.capitoltrades.com/"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 3600
	}
	if c.Scrape.TimeoutSeconds == 0 {
		c.Scrape.TimeoutSeconds = 30
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = "data/last_trades.json"
	}
	if c.News.BaseURL == "" {
		c.News.BaseURL = "https://newsapi.org"
	}
	if c.News.APIKeyEnv == "" {
		c.News.APIKeyEnv = "NEWS_API_KEY"
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 15
	}
	if c.News.CacheSeconds == 0 {
		c.News.CacheSeconds = 3600
	}
	if c.Report.ChunkSize == 0 {
		c.Report.ChunkSize = 1800
	}
	if c.Discord.WebhookURLEnv == "" {
		c.Discord.WebhookURLEnv = "DISCORD_WEBHOOK_URL"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.PasswordEnv == "" {
		c.Email.PasswordEnv = "EMAIL_PASSWORD"
	}
	if c.ReportLog.Dir == "" {
		c.ReportLog.Dir = "logs"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
