package config

// Config holds ocrctl settings.
// Stored at: ~/.ocrctl/config.yaml (or ./config.yaml)
type Config struct {
	Profiles     string `mapstructure:"profiles" yaml:"profiles" json:"profiles"`                // Path to the OCR profile document
	Profile      string `mapstructure:"profile" yaml:"profile" json:"profile"`                   // Profile used when --profile is not given
	Engine       string `mapstructure:"engine" yaml:"engine" json:"engine"`                      // OCR engine executable
	InfoTool     string `mapstructure:"info_tool" yaml:"info_tool" json:"info_tool"`             // pdfinfo executable
	TextTool     string `mapstructure:"text_tool" yaml:"text_tool" json:"text_tool"`             // pdftotext executable
	Workers      int    `mapstructure:"workers" yaml:"workers" json:"workers"`                   // Concurrent batch jobs
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`             // debug, info, warn, error
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" json:"output_format"` // json or yaml
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Profiles:     "config/ocr_profiles.yaml",
		Profile:      "balanced",
		Engine:       "ocrmypdf",
		InfoTool:     "pdfinfo",
		TextTool:     "pdftotext",
		Workers:      1,
		LogLevel:     "info",
		OutputFormat: "json",
	}
}
