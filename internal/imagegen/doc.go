// Package imagegen converts SVG icons into LVGL A8 image descriptors.
//
// Each job is rasterized at its square size, reduced to the alpha channel,
// and emitted as a C file holding the row-major alpha map and an
// lv_image_dsc_t header whose width, height and stride equal the size.
package imagegen
