// Package config loads, normalizes, and validates assetgen configuration data.
//
// It supplies repository defaults that match the firmware tree layout
// (assets/<kind> sources, main/assets/<kind> outputs), expands user paths
// (including tilde shortcuts), resolves relative directories against the
// project root, and reads TOML files. The Config type centralizes every knob
// the CLI and the pipelines need.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical enum values, and clear validation errors.
package config
