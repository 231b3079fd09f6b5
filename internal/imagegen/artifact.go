package imagegen

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"assetgen/internal/carray"
	"assetgen/internal/manifest"
)

// Render emits the C source for an A8 image. alpha must hold job.Size *
// job.Size bytes.
func Render(job manifest.ImageJob, alpha []byte) (string, error) {
	if want := job.Size * job.Size; len(alpha) != want {
		return "", fmt.Errorf("alpha map has %d bytes, want %d", len(alpha), want)
	}
	symbol := job.Symbol
	attr := "LV_ATTRIBUTE_" + cases.Upper(language.Und).String(symbol)
	size := job.Size

	var b strings.Builder
	b.WriteString("\n#include \"lvgl.h\"\n\n")
	b.WriteString("#ifndef LV_ATTRIBUTE_MEM_ALIGN\n#define LV_ATTRIBUTE_MEM_ALIGN\n#endif\n\n")
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n#endif\n\n", attr, attr)
	fmt.Fprintf(&b, "static const\nLV_ATTRIBUTE_MEM_ALIGN LV_ATTRIBUTE_LARGE_CONST %s\n", attr)
	fmt.Fprintf(&b, "uint8_t %s_map[] = {\n\n", symbol)
	b.WriteString(carray.Format(alpha, carray.ImageRows(size)))
	b.WriteString("\n\n};\n\n")
	fmt.Fprintf(&b, "const lv_image_dsc_t %s = {\n", symbol)
	b.WriteString("  .header = {\n")
	b.WriteString("    .magic = LV_IMAGE_HEADER_MAGIC,\n")
	b.WriteString("    .cf = LV_COLOR_FORMAT_A8,\n")
	b.WriteString("    .flags = 0,\n")
	fmt.Fprintf(&b, "    .w = %d,\n", size)
	fmt.Fprintf(&b, "    .h = %d,\n", size)
	fmt.Fprintf(&b, "    .stride = %d,\n", size)
	b.WriteString("    .reserved_2 = 0,\n")
	b.WriteString("  },\n")
	fmt.Fprintf(&b, "  .data_size = sizeof(%s_map),\n", symbol)
	fmt.Fprintf(&b, "  .data = %s_map,\n", symbol)
	b.WriteString("  .reserved = NULL,\n")
	b.WriteString("};\n")
	return b.String(), nil
}
