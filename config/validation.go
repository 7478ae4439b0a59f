package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirement checks a single config value for an environment.
type requirement struct {
	field string
	value func(*Config) string
}

var (
	always = []requirement{
		{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
		{"SERVER_PORT", func(c *Config) string { return c.ServerPort }},
		{"DB_HOST", func(c *Config) string { return c.DBHost }},
		{"DB_NAME", func(c *Config) string { return c.DBName }},
	}

	// Environment-specific requirements on top of always.
	requirements = map[Environment][]requirement{
		CI: {
			{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
		},
		Production: {
			{"db_user", func(c *Config) string { return c.DBUser }},
			{"db_password", func(c *Config) string { return c.DBPassword }},
			{"PUBLIC_BASE_URL", func(c *Config) string { return c.PublicBaseURL }},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []string
	check := func(reqs []requirement) {
		for _, r := range reqs {
			if strings.TrimSpace(r.value(cfg)) == "" {
				errs = append(errs, ValidationError{Field: r.field, Message: "is required"}.Error())
			}
		}
	}
	check(always)
	check(requirements[env])

	switch cfg.ImageBackend {
	case "local":
		if cfg.MediaDir == "" {
			errs = append(errs, ValidationError{Field: "MEDIA_DIR", Message: "is required for the local image backend"}.Error())
		}
	case "s3":
		if cfg.S3Bucket == "" {
			errs = append(errs, ValidationError{Field: "S3_BUCKET_NAME", Message: "is required for the s3 image backend"}.Error())
		}
	default:
		errs = append(errs, ValidationError{Field: "IMAGE_BACKEND", Message: fmt.Sprintf("unknown backend %q", cfg.ImageBackend)}.Error())
	}

	if cfg.DefaultPageSize <= 0 || cfg.MaxPageSize < cfg.DefaultPageSize {
		errs = append(errs, ValidationError{Field: "PAGE_SIZE", Message: "must be positive and not exceed MAX_PAGE_SIZE"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
