package manifest

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SymbolFromPath derives a C identifier from the source file stem. Accents are
// folded, every other non-identifier rune becomes '_', and a leading digit is
// prefixed with '_'.
func SymbolFromPath(source string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), stem)
	if err != nil {
		folded = stem
	}
	var b strings.Builder
	for _, r := range folded {
		if isIdentRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	symbol := b.String()
	if symbol == "" {
		return "_"
	}
	if symbol[0] >= '0' && symbol[0] <= '9' {
		symbol = "_" + symbol
	}
	return symbol
}

// IsIdentifier reports whether value is a valid C identifier.
func IsIdentifier(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		if !isIdentRune(r) {
			return false
		}
		if i == 0 && r >= '0' && r <= '9' {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
