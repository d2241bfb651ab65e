// Package config loads runtime settings for the localvault CLI.
// Values are layered: defaults, then an optional JSON file, then
// command-line flags, with later sources taking precedence.
package config

// Config holds runtime settings for the localvault CLI.
//
// Fields:
//   - DatabasePath: location of the local SQLite vault file.
//   - Verbose: enable debug-level logging.
type Config struct {
	DatabasePath string
	Verbose      bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "vault.db"
	c.Verbose = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
