// Package config loads, normalizes, and validates medialift configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// MEDIALIFT_OUTPUT_DIR and MEDIALIFT_WATERMARK. The Config type centralizes
// every knob the CLI and the transcoding pipeline need: tool binaries, the
// scale bounds, codec choices, the optional watermark, and where run state,
// logs, and metrics are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
