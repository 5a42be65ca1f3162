// Package config loads table configuration from HCL files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/mkrall/holdem/internal/game"
)

// Config is the root configuration document.
type Config struct {
	Tables []Table `hcl:"table,block"`
}

// Table defines one table's stakes and timing.
type Table struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	BuyIn         int    `hcl:"buy_in,optional"`
	ActionTimeout string `hcl:"action_timeout,optional"`
}

// Default returns a single 1/2 table with a 200-chip buy-in.
func Default() *Config {
	return &Config{
		Tables: []Table{
			{
				Name:          "main",
				SmallBlind:    1,
				BigBlind:      2,
				BuyIn:         200,
				ActionTimeout: "30s",
			},
		},
	}
}

// Load reads an HCL config file, falling back to defaults when the file does
// not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	for i := range cfg.Tables {
		table := &cfg.Tables[i]
		if table.BuyIn == 0 {
			// 100 big blinds is the standard full buy-in
			table.BuyIn = table.BigBlind * 100
		}
		if table.ActionTimeout == "" {
			table.ActionTimeout = "30s"
		}
	}

	return &cfg, nil
}

// Validate checks every table for playable stakes.
func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	for _, table := range c.Tables {
		if table.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", table.Name)
		}
		if table.BigBlind <= table.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", table.Name)
		}
		if table.BuyIn < table.BigBlind {
			return fmt.Errorf("table %s: buy-in must cover at least one big blind", table.Name)
		}
		timeout, err := time.ParseDuration(table.ActionTimeout)
		if err != nil {
			return fmt.Errorf("table %s: invalid action_timeout: %w", table.Name, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("table %s: action_timeout must be positive", table.Name)
		}
	}

	return nil
}

// GetTableByName returns a table configuration by name.
func (c *Config) GetTableByName(name string) *Table {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}

// EngineConfig converts the table into the engine's configuration.
func (t *Table) EngineConfig() game.Config {
	timeout, err := time.ParseDuration(t.ActionTimeout)
	if err != nil {
		timeout = 30 * time.Second
	}
	return game.Config{
		SmallBlind:    t.SmallBlind,
		BigBlind:      t.BigBlind,
		BuyIn:         t.BuyIn,
		ActionTimeout: timeout,
	}
}
