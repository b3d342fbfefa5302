// Package config loads transbridge's optional .tbc.toml configuration
// file. Grounded on the teacher's internal/tqw package: a TOML-based
// format (github.com/BurntSushi/toml) where absence of the file is not an
// error, only a signal to use defaults — the same "manifest is optional"
// posture as tqw.LoadResourceBundle.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Direction names a default conversion direction for the CLI when neither
// --to-stat nor --to-dyn is given on the command line.
type Direction string

const (
	DirectionDynToStat Direction = "dyn-to-stat"
	DirectionStatToDyn Direction = "stat-to-dyn"
)

// Config holds the settings transbridge reads from a .tbc.toml file.
type Config struct {
	// Direction is the default conversion direction. Defaults to
	// DirectionDynToStat when unset or the file is absent.
	Direction Direction `toml:"direction"`

	// IndentWidth is the number of spaces the emitters use per nesting
	// level. Defaults to 4.
	IndentWidth int `toml:"indent_width"`

	// StrictEquality is copied into transbridge.Options by ApplyConfig. No
	// pipeline stage reads it: the lossy ===/!== <-> ==/!= conversion is
	// reported as a warning whether or not it is set.
	StrictEquality bool `toml:"strict_equality"`

	// StopOnFirstError is copied into transbridge.Options by ApplyConfig.
	// The parsers do not read it: they always run panic-mode recovery to
	// the end of input.
	StopOnFirstError bool `toml:"stop_on_first_error"`
}

// Default returns the configuration transbridge uses when no .tbc.toml
// file is found.
func Default() Config {
	return Config{
		Direction:   DirectionDynToStat,
		IndentWidth: 4,
	}
}

// Load reads and parses the TOML config file at path, applying defaults
// for any field the file doesn't set. A missing file is not an error:
// Load returns Default() unchanged, mirroring tqw's manifest-optional
// behavior. Any other read or parse error is returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	if cfg.IndentWidth <= 0 {
		cfg.IndentWidth = 4
	}
	if cfg.Direction != DirectionDynToStat && cfg.Direction != DirectionStatToDyn {
		cfg.Direction = DirectionDynToStat
	}

	return cfg, nil
}
