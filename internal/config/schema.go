package config

// Config holds promptweave configuration.
// Loaded from config.yaml in the working directory or ~/.promptweave.
type Config struct {
	TaskRoot string      `mapstructure:"task_root" yaml:"task_root"`
	Defaults DefaultsCfg `mapstructure:"defaults" yaml:"defaults"`
	Image    ImageCfg    `mapstructure:"image" yaml:"image"`
	Logging  LoggingCfg  `mapstructure:"logging" yaml:"logging"`
}

// DefaultsCfg selects defaults applied when a command omits a flag.
type DefaultsCfg struct {
	Format         string `mapstructure:"format" yaml:"format"`                   // Wire format: "openai", "anthropic"
	TemplateFormat string `mapstructure:"template_format" yaml:"template_format"` // "f-string", "jinja2"
}

// ImageCfg configures remote image fetching.
type ImageCfg struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RetryAttempts  int `mapstructure:"retry_attempts" yaml:"retry_attempts"`
	RetryDelayMS   int `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
}

// LoggingCfg configures the slog handler.
type LoggingCfg struct {
	Level  string `mapstructure:"level" yaml:"level"`   // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text", "json"
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TaskRoot: "tasks",
		Defaults: DefaultsCfg{
			Format:         "openai",
			TemplateFormat: "f-string",
		},
		Image: ImageCfg{
			TimeoutSeconds: 30,
			RetryAttempts:  3,
			RetryDelayMS:   1000,
		},
		Logging: LoggingCfg{
			Level:  "info",
			Format: "text",
		},
	}
}
