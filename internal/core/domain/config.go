package domain

import (
	"slices"
	"time"
)

// Config is the resolved tool configuration.
type Config struct {
	Oracle   OracleConfig
	Registry RegistryConfig
}

// OracleConfig controls how probes are run and classified.
type OracleConfig struct {
	// Command is the type-check command used by minimize and by test without --command.
	Command string

	// TestCommand replaces Command for test when set.
	TestCommand string

	// ConflictPatterns are regular expressions matched against oracle output
	// lines. A match marks the probe as ERROR instead of FAILED.
	ConflictPatterns []string
}

// RegistryConfig controls the crates.io client.
type RegistryConfig struct {
	IndexURL      string
	RateLimit     time.Duration
	CacheTTL      time.Duration
	CacheDir      string
	IncludeYanked bool
}

// DefaultConfig returns the configuration used when no bounds.yaml is present.
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Command:          DefaultCheckCommand,
			ConflictPatterns: slices.Clone(DefaultConflictPatterns),
		},
		Registry: RegistryConfig{
			IndexURL:  DefaultIndexURL,
			RateLimit: DefaultRateLimit,
			CacheTTL:  DefaultCacheTTL,
			CacheDir:  DefaultRegistryCachePath(),
		},
	}
}
