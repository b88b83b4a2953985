// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/baldanca/comment-ingestor/comment"
)

// Config is the configuration shared by every entry point.
type Config struct {
	TableName    string `env:"TABLE_NAME,required,notEmpty"`
	IngestBucket string `env:"INGEST_BUCKET,required,notEmpty"`

	Log LogConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// WorkerConfig adds the queue settings used by the SQS worker.
type WorkerConfig struct {
	Config

	QueueURL          string `env:"COMMENT_QUEUE_URL,required,notEmpty"`
	Pollers           int    `env:"SQS_POLLERS" envDefault:"2"`
	WaitTimeSeconds   int32  `env:"SQS_WAIT_TIME_SECONDS" envDefault:"20"`
	VisibilityTimeout int32  `env:"SQS_VISIBILITY_TIMEOUT" envDefault:"30"`
	// FailVisibilityTimeout is applied to messages that failed; -1 leaves
	// their visibility untouched.
	FailVisibilityTimeout int32 `env:"SQS_FAIL_VISIBILITY_TIMEOUT" envDefault:"-1"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadWorker reads WorkerConfig from the environment.
func LoadWorker() (WorkerConfig, error) {
	var cfg WorkerConfig
	if err := ParseEnv(&cfg); err != nil {
		return WorkerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return WorkerConfig{}, err
	}
	if cfg.Pollers < 1 {
		return WorkerConfig{}, fmt.Errorf("%w: SQS_POLLERS must be >= 1", comment.ErrConfiguration)
	}
	if cfg.WaitTimeSeconds < 0 || cfg.WaitTimeSeconds > 20 {
		return WorkerConfig{}, fmt.Errorf("%w: SQS_WAIT_TIME_SECONDS must be between 0 and 20", comment.ErrConfiguration)
	}
	if cfg.VisibilityTimeout < 0 || cfg.FailVisibilityTimeout < -1 {
		return WorkerConfig{}, fmt.Errorf("%w: SQS visibility timeouts must be >= 0", comment.ErrConfiguration)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
// Failures wrap comment.ErrConfiguration.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("%w: parse env: %w", comment.ErrConfiguration, err)
	}
	return nil
}

// Validate checks the values env tags cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TableName) == "" {
		return fmt.Errorf("%w: TABLE_NAME is required", comment.ErrConfiguration)
	}
	if strings.TrimSpace(c.IngestBucket) == "" {
		return fmt.Errorf("%w: INGEST_BUCKET is required", comment.ErrConfiguration)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be json or text, got %q", comment.ErrConfiguration, c.Log.Format)
	}
	return nil
}
