// Package manifest parses the declarative asset job lists (imagegen.toml,
// soundgen.toml, fontgen.toml) into fully resolved, immutable job
// descriptors.
//
// Every default and derived value (symbols from file stems, output names from
// symbols, audio format defaults, absolute paths) is computed here, before any
// conversion runs. A missing or invalid field fails the whole manifest with an
// error wrapping services.ErrManifest that names the entry and the field.
// Manifests may be written in TOML (default) or YAML (.yaml/.yml).
package manifest
