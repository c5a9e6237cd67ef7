package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultFilename   = "ercsheet.toml"
	defaultMaxRetries = 15
	defaultMaxBackoff = 60
)

// GoogleConfig locates the spreadsheet and the credentials used to reach it.
type GoogleConfig struct {
	// Service account or authorized user JSON. Never written by this tool.
	CredentialsFile string
	SpreadsheetID   string
	// Drive file ID of the blank template copied by "ercsheet copy".
	TemplateFileID string
	// Drive folder copies are placed in. Empty keeps the template's folder.
	FolderID string
}

// RetryConfig bounds the backoff applied to rate limited API calls.
type RetryConfig struct {
	MaxRetries        int
	MaxBackoffSeconds int
}

func (r RetryConfig) MaxBackoff() time.Duration {
	return time.Duration(r.MaxBackoffSeconds) * time.Second
}

type configStore struct {
	Google GoogleConfig
	Retry  RetryConfig
	// Overrides the template's worksheet name when set.
	SheetName string
	// YAML schema definition to use instead of the built in ERC layout.
	SchemaFile string
}

type Config struct {
	Filename string
	Store    configStore
}

// Save persists the Google and retry settings to Filename, readable only by the
// owner.
func (c *Config) Save() error {
	b, err := toml.Marshal(c.Store)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(c.Filename, b, 0600)
}

// Load replaces Store with the settings in Filename. Keys absent from the file
// keep their current values.
func (c *Config) Load() error {
	b, err := os.ReadFile(c.Filename)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(b, &c.Store); err != nil {
		return fmt.Errorf("parse %s: %w", c.Filename, err)
	}
	return nil
}

// New loads filename, creating it with defaults if it does not exist, then
// applies environment overrides.
func New(filename string) (*Config, error) {
	c := &Config{
		Filename: filename,
	}
	if err := c.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		c.setDefaults()
		if err := c.Save(); err != nil {
			return nil, err
		}
	}
	c.setDefaults()
	c.applyEnv()
	return c, nil
}

func (c *Config) setDefaults() {
	if c.Store.Retry.MaxRetries <= 0 {
		c.Store.Retry.MaxRetries = defaultMaxRetries
	}
	if c.Store.Retry.MaxBackoffSeconds <= 0 {
		c.Store.Retry.MaxBackoffSeconds = defaultMaxBackoff
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.Store.Google.CredentialsFile = v
	}
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		c.Store.Google.SpreadsheetID = v
	}
	if v := os.Getenv("ERC_TEMPLATE_FILE_ID"); v != "" {
		c.Store.Google.TemplateFileID = v
	}
}
