// Package config provides configuration management for the ledger
// pipeline. It loads configuration from environment variables and .env
// files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Data  DataConfig
	Debug bool
}

// DataConfig locates the data tree, the ledger database, and the rule
// tables.
type DataConfig struct {
	// Dir is the root of the finance data tree (raw exports live under it).
	Dir string
	// DBPath is the SQLite ledger database path. Defaults under Dir.
	DBPath string
	// RulesDir holds category_rules.csv, category_overrides.csv, and
	// category_dim.csv.
	RulesDir string
	// AliasFile optionally overrides the built-in header alias table.
	AliasFile string
	// AccountMapFile optionally maps export route directory names to
	// account IDs.
	AccountMapFile string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	// Load .env file
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Data: DataConfig{
			Dir:            os.Getenv("DATA_DIR"),
			DBPath:         os.Getenv("LEDGER_DB_PATH"),
			RulesDir:       os.Getenv("RULES_DIR"),
			AliasFile:      os.Getenv("FIELD_ALIAS_FILE"),
			AccountMapFile: os.Getenv("ACCOUNT_MAP_FILE"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate checks that the named configuration keys are set.
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, key := range required {
		var value string
		switch key {
		case "data.dir":
			value = c.Data.Dir
		case "data.dbPath":
			value = c.Data.DBPath
		case "data.rulesDir":
			value = c.Data.RulesDir
		case "data.aliasFile":
			value = c.Data.AliasFile
		}
		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s\nPlease check your .env file or environment variables",
			strings.Join(missing, ", "))
	}

	return nil
}
