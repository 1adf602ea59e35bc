// Package config loads process settings from SCARAB_* environment
// variables. Command-line flags registered with BindFlags take precedence.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is shared by every scarab binary.
type Config struct {
	DecksFile string `env:"SCARAB_DECKS" envDefault:"decks.yaml"`
	Deck      string `env:"SCARAB_DECK" envDefault:"startingDeck"`
	Seed      uint64 `env:"SCARAB_SEED"`
	Port      int    `env:"SCARAB_PORT" envDefault:"8080"`
	Addr      string `env:"SCARAB_ADDR" envDefault:"localhost:8080"`
	MCPName   string `env:"SCARAB_MCP_NAME" envDefault:"scarab"`
	Save      bool   `env:"SCARAB_SAVE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration described by the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindFlags registers a flag for every field on fs, defaulting to the
// current value so the environment still applies when a flag is omitted.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DecksFile, "decks", c.DecksFile, "path to decks YAML file")
	fs.StringVar(&c.Deck, "deck", c.Deck, "key of the deck to start runs with")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "entropy seed (0 picks one from the clock)")
	fs.IntVar(&c.Port, "port", c.Port, "HTTP port to listen on")
	fs.StringVar(&c.Addr, "addr", c.Addr, "web server address to join")
	fs.StringVar(&c.MCPName, "name", c.MCPName, "MCP server name")
	fs.BoolVar(&c.Save, "save", c.Save, "write collection changes back to the decks file")
}

// EntropySeed returns Seed, or a clock-derived seed when none was given.
func (c Config) EntropySeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}

// ListenAddr is the address the web server binds.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
