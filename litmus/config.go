// config.go
//
// TOML suite files let a machine's interesting parameter grid live next
// to the machine:
//
//	database = "litmus.db"
//
//	[defaults]
//	iterations  = 500000
//	writer_core = 0
//	reader_core = 1
//
//	[[experiment]]
//	test = "mp/consume"
//
//	[[experiment]]
//	test       = "mp/plain"
//	iterations = 2000000

package litmus

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is a parsed suite file.
type Config struct {
	Database    string       `toml:"database"`
	Defaults    ConfigParams `toml:"defaults"`
	Experiments []Experiment `toml:"experiment"`
}

// ConfigParams is the parameter block, usable as defaults or as a
// per-experiment override.
type ConfigParams struct {
	Iterations int `toml:"iterations"`
	WriterCore int `toml:"writer_core"`
	ReaderCore int `toml:"reader_core"`
}

// Experiment selects one test, optionally overriding the defaults.
type Experiment struct {
	Test       string `toml:"test"`
	Iterations int    `toml:"iterations"`
	WriterCore int    `toml:"writer_core"`
	ReaderCore int    `toml:"reader_core"`
}

// LoadConfig parses and validates a suite file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Experiments) == 0 {
		return fmt.Errorf("no [[experiment]] blocks")
	}
	for _, e := range c.Experiments {
		if _, ok := Lookup(e.Test); !ok {
			return fmt.Errorf("unknown test %q", e.Test)
		}
	}
	return nil
}

// Plan resolves the experiments against the defaults into concrete
// (test, runner) pairs.
func (c Config) Plan() ([]Test, []Runner) {
	def := c.Defaults
	base := DefaultRunner()
	if def.Iterations == 0 {
		def.Iterations = base.Iterations
	}
	if def.WriterCore == 0 && def.ReaderCore == 0 {
		def.WriterCore = base.WriterCore
		def.ReaderCore = base.ReaderCore
	}

	tests := make([]Test, 0, len(c.Experiments))
	runners := make([]Runner, 0, len(c.Experiments))
	for _, e := range c.Experiments {
		t, _ := Lookup(e.Test) // validated in LoadConfig
		r := Runner{
			Iterations: def.Iterations,
			WriterCore: def.WriterCore,
			ReaderCore: def.ReaderCore,
		}
		if e.Iterations != 0 {
			r.Iterations = e.Iterations
		}
		if e.WriterCore != 0 {
			r.WriterCore = e.WriterCore
		}
		if e.ReaderCore != 0 {
			r.ReaderCore = e.ReaderCore
		}
		tests = append(tests, t)
		runners = append(runners, r)
	}
	return tests, runners
}
