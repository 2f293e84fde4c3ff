// Package generator abstracts the text-generation backends used to draft
// Lean theorems and proofs. Backends are selected by name at construction
// time; callers treat an empty result or an error as "no usable output" and
// fall back to deterministic templates, except for quota errors, which are
// never retried.
package generator

import (
	"context"
	"time"
)

// Config carries backend connection parameters. Fields not used by a given
// backend are ignored.
type Config struct {
	APIKey  string        `mapstructure:"api_key" json:"api_key"`
	Model   string        `mapstructure:"model" json:"model"`
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// Generator is the text-generation collaborator contract.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	IsAvailable(ctx context.Context) error
}
