// Package config loads pdftext's runtime tunables: the tolerances and
// worker-pool sizing the layout engine and CLI use, with environment
// overrides for deployment without a rebuild.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds pdftext's tunable thresholds. Every field has a default that
// matches spec.md's stated constants; all are overridable via PDFTEXT_*
// environment variables.
type Config struct {
	// BlockThreshold is loaded and validated here but not read by the
	// block builder, whose coalesce pass merges blocks on any positive
	// overlap.
	BlockThreshold float64
	// WorkerPageThreshold is the number of pages per worker: the page driver
	// runs at most pageCount/WorkerPageThreshold workers, so it shards work
	// across goroutines only once the page count reaches twice this value.
	WorkerPageThreshold int
	// FontnameSampleFreq is loaded and validated here but not read by the
	// extraction pipeline.
	FontnameSampleFreq int
	// MaxWorkers is the worker count the page driver requests when the
	// caller sets none; the page-count clamp still applies. Zero means
	// runtime.NumCPU().
	MaxWorkers int
}

// Default matches the constants spec.md names explicitly.
func Default() Config {
	return Config{
		BlockThreshold:      0.8,
		WorkerPageThreshold: 10,
		FontnameSampleFreq:  6,
		MaxWorkers:          0,
	}
}

// Load returns a Config seeded with Default() and overridden by any
// PDFTEXT_-prefixed environment variable that is set.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PDFTEXT")
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("block_threshold", def.BlockThreshold)
	v.SetDefault("worker_page_threshold", def.WorkerPageThreshold)
	v.SetDefault("fontname_sample_freq", def.FontnameSampleFreq)
	v.SetDefault("max_workers", def.MaxWorkers)

	cfg := Config{
		BlockThreshold:      v.GetFloat64("block_threshold"),
		WorkerPageThreshold: v.GetInt("worker_page_threshold"),
		FontnameSampleFreq:  v.GetInt("fontname_sample_freq"),
		MaxWorkers:          v.GetInt("max_workers"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects tunables that would make the engine misbehave rather
// than simply run slower or faster.
func (c Config) Validate() error {
	if c.BlockThreshold < 0 || c.BlockThreshold > 1 {
		return fmt.Errorf("config: block_threshold must be within [0,1], got %v", c.BlockThreshold)
	}
	if c.WorkerPageThreshold < 1 {
		return fmt.Errorf("config: worker_page_threshold must be >= 1, got %d", c.WorkerPageThreshold)
	}
	if c.FontnameSampleFreq < 1 {
		return fmt.Errorf("config: fontname_sample_freq must be >= 1, got %d", c.FontnameSampleFreq)
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("config: max_workers must be >= 0, got %d", c.MaxWorkers)
	}
	return nil
}
