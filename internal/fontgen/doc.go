// Package fontgen hands font jobs to lv_font_conv.
//
// Glyph rasterization is entirely the converter's business; this package
// builds the fixed argument list, runs the resolved invocation, and installs
// the produced C file at the job's output path.
package fontgen
