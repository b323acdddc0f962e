package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DocPath string `validate:"required_without=Remote"` // hcl file or directory
	Remote  string `validate:"omitempty,url"`           // socket.io server to drive instead

	LogFormat    string `validate:"oneof=text json"`
	LogLevel     string `validate:"oneof=debug info warn error"`
	OutputFormat string `validate:"oneof=json yaml"`

	// Actions are JSON action requests applied in order by a one-shot run.
	Actions []string

	ServePort       int  `validate:"min=0,max=65535,excluded_with=Remote"`
	HealthcheckPort int  `validate:"min=0,max=65535"`
	Watch           bool `validate:"excluded_without=ServePort"`
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := configValidate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return &cfg, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required_without":
		return fmt.Sprintf("%s is required unless %s is set", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", fe.Field(), fe.Param())
	case "excluded_without":
		return fmt.Sprintf("%s requires %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed '%s' validation", fe.Field(), fe.Tag())
	}
}
