package openai

import "time"

// Config holds the extraction backend settings.
type Config struct {
	Model       string
	APIKey      string
	BaseURL     string // empty means the public OpenAI endpoint
	Temperature float32
	Timeout     time.Duration
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Timeout <= 0 {
		c.Timeout = 45 * time.Second
	}
}
