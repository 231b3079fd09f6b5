// Package preflight checks that a project is ready to build: source
// directories readable, output locations writable, manifests present, and
// the external tools each asset kind needs discoverable.
package preflight
