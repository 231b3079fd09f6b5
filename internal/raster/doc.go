// Package raster renders SVG sources to square RGBA images.
//
// Two implementations exist: CLI shells out to resvg or rsvg-convert, and
// Builtin renders in-process with oksvg. Select picks one from the tools
// configuration, probing the external renderers once per batch.
package raster
