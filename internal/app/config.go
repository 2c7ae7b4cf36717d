package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Result modes.
const (
	ModeTerminal = "terminal"
	ModeJSON     = "json"
	ModePDF      = "pdf"
)

// ErrInvalidConfig marks fatal configuration problems. They are detected
// before any fetch is attempted and abort the whole run.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime configuration for one run.
type Config struct {
	Query    string
	NumLinks int

	// ResultMode selects the reporter: terminal, json, or pdf.
	ResultMode string
	// OutputDir receives file-mode reports; empty means the working
	// directory.
	OutputDir string

	// Language is an optional BCP-47 hint forwarded to both engines.
	Language string
	// Timeout bounds each engine's page load.
	Timeout time.Duration

	// Debug keeps the browser open after the run and dumps fetched HTML.
	Debug   bool
	Verbose bool
}

// Validate enforces the preconditions the rest of the pipeline assumes.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Query) == "" {
		return fmt.Errorf("%w: query must not be empty", ErrInvalidConfig)
	}
	if c.NumLinks <= 0 {
		return fmt.Errorf("%w: num links must be positive, got %d", ErrInvalidConfig, c.NumLinks)
	}
	switch c.ResultMode {
	case ModeTerminal, ModeJSON, ModePDF:
	default:
		return fmt.Errorf("%w: unknown result mode %q (want terminal, json, or pdf)", ErrInvalidConfig, c.ResultMode)
	}
	if c.Language != "" {
		if _, err := language.Parse(c.Language); err != nil {
			return fmt.Errorf("%w: bad language tag %q: %v", ErrInvalidConfig, c.Language, err)
		}
	}
	return nil
}
