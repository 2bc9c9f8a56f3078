// Package config loads inspector configuration from a CUE-validated
// file. Depth and width ceilings, the debounce delay and source
// definitions are all explicit inputs here; there is deliberately no
// ambient process-wide state to toggle.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/lenshq/lens/internal/flatten"
)

//go:embed schema.cue
var schemaCUE string

// Config is the validated inspector configuration.
type Config struct {
	Limits   flatten.Limits
	Debounce time.Duration
	Sources  []SourceSpec
}

// SourceSpec declares one inspectable source.
type SourceSpec struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "cache" or "kv"
	DSN  string `json:"dsn,omitempty"`
}

// ConfigError reports a validation failure with its CUE position when
// available.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Limits: flatten.Limits{
			MaxDepth:         flatten.DefaultMaxDepth,
			MaxItemsPerLevel: flatten.DefaultMaxItemsPerLevel,
		},
		Debounce: 100 * time.Millisecond,
	}
}

// Load reads, validates and decodes the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("read config: %v", err)}
	}
	return Parse(path, data)
}

// Parse validates raw CUE config bytes against the embedded schema.
func Parse(filename string, data []byte) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, cueError("schema", err)
	}
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, cueError("config", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError("config", err)
	}

	var raw struct {
		Limits struct {
			MaxDepth         int `json:"max_depth"`
			MaxItemsPerLevel int `json:"max_items_per_level"`
		} `json:"limits"`
		DebounceMS int          `json:"debounce_ms"`
		Sources    []SourceSpec `json:"sources"`
	}
	if err := unified.Decode(&raw); err != nil {
		return nil, cueError("config", err)
	}

	return &Config{
		Limits: flatten.Limits{
			MaxDepth:         raw.Limits.MaxDepth,
			MaxItemsPerLevel: raw.Limits.MaxItemsPerLevel,
		},
		Debounce: time.Duration(raw.DebounceMS) * time.Millisecond,
		Sources:  raw.Sources,
	}, nil
}

// cueError converts a CUE error into a positioned ConfigError.
func cueError(field string, err error) *ConfigError {
	ce := &ConfigError{Field: field, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		ce.Message = errs[0].Error()
		ce.Pos = errs[0].Position()
	}
	return ce
}
