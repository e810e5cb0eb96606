package config

// LoggingConfig configures the operator log.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
	File   string `yaml:"file"`   // empty disables the file sink
}

// IsJSON reports whether log lines are written as JSON.
func (c LoggingConfig) IsJSON() bool {
	return c.Format == "json"
}
