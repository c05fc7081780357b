package config

import (
	"errors"
	"fmt"
	"sort"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTools() error {
	switch c.Tools.Prober {
	case ProberMediaInfo, ProberFFprobe:
		return nil
	default:
		return fmt.Errorf("tools.prober must be %q or %q, got %q", ProberMediaInfo, ProberFFprobe, c.Tools.Prober)
	}
}

func (c *Config) validatePolicy() error {
	return ensurePositiveMap(map[string]int{
		"policy.max_width":  c.Policy.MaxWidth,
		"policy.max_height": c.Policy.MaxHeight,
	})
}

func (c *Config) validateEncode() error {
	if c.Encode.ImageQuality < 2 || c.Encode.ImageQuality > 31 {
		return errors.New("encode.image_quality must be between 2 and 31")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 1 {
		return errors.New("pipeline.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
