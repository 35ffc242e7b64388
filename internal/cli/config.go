package cli

import "fmt"

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// ParseColorMode parses a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Config holds all configuration for a hypergrep search.
type Config struct {
	Patterns      []string
	IgnoreCase    bool
	Recursive     bool
	LineNumbers   bool
	CountOnly     bool
	FileNamesOnly bool
	JSONOutput    bool
	Color         ColorMode
	Workers       int
	ChunkSize     int
	NoIgnore      bool
	Hidden        bool
	Debug         bool
	Paths         []string
}

// Validate checks that the config is valid and returns an error if not.
func (c *Config) Validate() error {
	if len(c.Patterns) == 0 {
		return fmt.Errorf("no pattern specified")
	}
	if c.CountOnly && c.FileNamesOnly {
		return fmt.Errorf("cannot use -c (count) and -l (files-with-matches) together")
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("invalid chunk size: %d", c.ChunkSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", c.Workers)
	}
	return nil
}
