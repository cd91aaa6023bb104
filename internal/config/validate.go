package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidProvider indicates an unsupported LLM provider
	ErrInvalidProvider = errors.New("invalid llm provider")

	// ErrEmptyModel indicates a missing LLM model name
	ErrEmptyModel = errors.New("empty llm model")

	// ErrEmptyHost indicates a missing output host
	ErrEmptyHost = errors.New("empty output host")

	// ErrEmptyOutputFile indicates a missing output file path
	ErrEmptyOutputFile = errors.New("empty output file")

	// ErrInvalidWorkers indicates an invalid worker bound
	ErrInvalidWorkers = errors.New("invalid workers")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	provider := strings.ToLower(cfg.LLM.Provider)
	if provider != "gemini" {
		errs = append(errs, fmt.Errorf("%w: must be 'gemini', got '%s'", ErrInvalidProvider, cfg.LLM.Provider))
	}

	if strings.TrimSpace(cfg.LLM.Model) == "" {
		errs = append(errs, fmt.Errorf("%w: model is required", ErrEmptyModel))
	}

	if strings.TrimSpace(cfg.Output.Host) == "" {
		errs = append(errs, fmt.Errorf("%w: host is required", ErrEmptyHost))
	}

	if strings.TrimSpace(cfg.Output.File) == "" {
		errs = append(errs, fmt.Errorf("%w: file is required", ErrEmptyOutputFile))
	}

	if cfg.Workers.Max < 1 {
		errs = append(errs, fmt.Errorf("%w: max must be positive, got %d", ErrInvalidWorkers, cfg.Workers.Max))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
