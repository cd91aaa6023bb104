package config

// Config represents the complete apimesh configuration.
// It can be loaded from .apimesh/config.yml with environment variable overrides.
type Config struct {
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Workers WorkersConfig `yaml:"workers" mapstructure:"workers"`
}

// ScanConfig defines which files the scanner visits and which it skips.
type ScanConfig struct {
	IgnoreDirs []string `yaml:"ignore_dirs" mapstructure:"ignore_dirs"` // directory names skipped anywhere in the tree
	Ignore     []string `yaml:"ignore" mapstructure:"ignore"`           // glob patterns matched against root-relative paths
}

// OutputConfig defines where the generated document goes and the server it
// advertises.
type OutputConfig struct {
	File string `yaml:"file" mapstructure:"file"` // output path for the swagger document
	Host string `yaml:"host" mapstructure:"host"` // server URL in the document's servers block
}

// LLMConfig configures the documentation model.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`       // "gemini" is the only supported provider
	Model     string `yaml:"model" mapstructure:"model"`             // e.g. "gemini-2.0-flash"
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env"` // environment variable holding the API key
}

// WorkersConfig bounds the endpoint-documentation pool.
type WorkersConfig struct {
	Max int `yaml:"max" mapstructure:"max"` // upper bound; the pool never exceeds the job count
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			IgnoreDirs: []string{
				"node_modules",
				".git",
				"dist",
				"build",
				"coverage",
				"vendor",
			},
			Ignore: []string{},
		},
		Output: OutputConfig{
			File: "swagger.json",
			Host: "http://localhost:3000",
		},
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-2.0-flash",
			APIKeyEnv: "GEMINI_API_KEY",
		},
		Workers: WorkersConfig{
			Max: 5,
		},
	}
}
