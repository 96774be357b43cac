package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig reads SPELLFIGHT_* environment variables over built-in
// defaults
func DefaultConfig() *Config {
	cfg := &Config{
		ServerURL: "http://localhost:8080",
		Token:     os.Getenv("SPELLFIGHT_TOKEN"),
		TokenFile: defaultTokenFile(),
		Output:    "text",
	}
	if v := os.Getenv("SPELLFIGHT_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("SPELLFIGHT_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	return cfg
}

// LoadToken fills Token from the token file unless a flag or the
// environment already set it. A missing file leaves it empty.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken remembers token for later commands
func (c *Config) SaveToken(token string) error {
	c.Token = token
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token+"\n"), 0o600)
}

// ClearToken forgets the saved token
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".spellfight", "token")
	}
	return filepath.Join(home, ".spellfight", "token")
}
