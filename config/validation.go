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

// requiredFields lists the settings that must be non-empty in each environment
var requiredFields = map[Environment][]string{
	Development: {},
	Test:        {},
	CI:          {"supabase.jwt_secret"},
	Production: {
		"supabase.jwt_secret",
		"sensay.organization_secret",
		"sensay.replica_id",
		"database.dsn",
	},
}

func fieldValue(cfg *Config, field string) string {
	switch field {
	case "supabase.jwt_secret":
		return cfg.Supabase.JWTSecret
	case "sensay.organization_secret":
		return cfg.Sensay.OrganizationSecret
	case "sensay.replica_id":
		return cfg.Sensay.ReplicaID
	case "database.dsn":
		return cfg.Database.DSN
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []string

	for _, field := range requiredFields[cfg.Environment] {
		if fieldValue(cfg, field) == "" {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("required in %s", cfg.Environment)}.Error())
		}
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, ValidationError{Field: "database.driver", Message: "must be postgres or sqlite"}.Error())
	}
	if cfg.Server.Port == "" {
		errs = append(errs, ValidationError{Field: "server.port", Message: "must be set"}.Error())
	}
	if cfg.Sensay.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "sensay.timeout", Message: "must be positive"}.Error())
	}
	if cfg.RateLimit.PlanGenerationsPerHour <= 0 {
		errs = append(errs, ValidationError{Field: "rate_limit.plan_generations_per_hour", Message: "must be positive"}.Error())
	}
	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst <= 0 {
		errs = append(errs, ValidationError{Field: "rate_limit.burst", Message: "must be positive when the throttle is enabled"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
