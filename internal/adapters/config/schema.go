package config

import "time"

// File is the structure of bounds.yaml.
type File struct {
	Oracle   OracleSection   `yaml:"oracle"`
	Registry RegistrySection `yaml:"registry"`
}

// OracleSection configures probing.
type OracleSection struct {
	Command          string    `yaml:"command"`
	TestCommand      string    `yaml:"test_command"`
	ConflictPatterns *[]string `yaml:"conflict_patterns"`
}

// RegistrySection configures the crates.io client.
type RegistrySection struct {
	IndexURL      string        `yaml:"index_url"`
	RateLimit     time.Duration `yaml:"rate_limit"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	CacheDir      string        `yaml:"cache_dir"`
	IncludeYanked *bool         `yaml:"include_yanked"`
}
