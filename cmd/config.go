package cmd

import (
	"os"

	"github.com/pelletier/go-toml"
)

// Config is the optional project-default layer: `rvcc.toml`, unmarshaled
// with github.com/pelletier/go-toml. log-level has no command-line flag.
// -alloc overrides default-alloc; -opt and -inline can only switch their
// feature on, never off.
type Config struct {
	DefaultAlloc    string `toml:"default-alloc"`
	OptByDefault    bool   `toml:"opt-by-default"`
	InlineByDefault bool   `toml:"inline-by-default"`
	LogLevel        string `toml:"log-level"`
}

// defaultConfig is what a bare source file compiles under when no
// rvcc.toml is present anywhere: optimizer off, naive allocator, verbose
// logging.
func defaultConfig() Config {
	return Config{DefaultAlloc: "naive", LogLevel: "verbose"}
}

// loadConfig reads and unmarshals path. An explicit -config path that
// can't be read is an error; the implicit "./rvcc.toml" lookup is not
// (its absence just means "use defaults").
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	buf, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return cfg, err
		}
		return cfg, nil
	}

	if err := toml.Unmarshal(buf, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
