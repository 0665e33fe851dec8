package config

import (
	"strings"
	"time"
)

// ProcessingConfig configures the image/AI processing collaborators.
type ProcessingConfig struct {
	// BaseURL is the root of the processing service (derivatives, AI analysis, auxiliary assets, assessments).
	BaseURL string `env:"PROCESSING_BASE_URL" envDefault:"http://localhost:8081"`

	// Timeout bounds each call to the processing service.
	// Keep it below the job lock duration so a slow call cannot outlive the lock.
	Timeout time.Duration `env:"PROCESSING_TIMEOUT" envDefault:"45s"`

	// AIEnabled is the global AI analysis switch. Jobs can opt out but never opt in.
	AIEnabled bool `env:"AI_ANALYSIS_ENABLED" envDefault:"true"`
}

// Sanitize applies guardrails to processing configuration values.
func (p *ProcessingConfig) Sanitize() {
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	if p.Timeout <= 0 {
		p.Timeout = 45 * time.Second
	}
}

// StorageConfig configures the S3-compatible object store holding photo bytes.
type StorageConfig struct {
	Bucket   string `env:"STORAGE_BUCKET"         envDefault:"photos"`
	Region   string `env:"STORAGE_REGION"         envDefault:"us-east-1"`
	Endpoint string `env:"STORAGE_ENDPOINT"       envDefault:""`
	// UsePathStyle is needed by most self-hosted S3-compatible servers.
	UsePathStyle bool `env:"STORAGE_USE_PATH_STYLE" envDefault:"false"`
}

// Sanitize trims whitespace from storage settings.
func (s *StorageConfig) Sanitize() {
	s.Bucket = strings.TrimSpace(s.Bucket)
	s.Region = strings.TrimSpace(s.Region)
	s.Endpoint = strings.TrimSpace(s.Endpoint)
	if s.Region == "" {
		s.Region = "us-east-1"
	}
}
