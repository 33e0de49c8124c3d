package textutil

import "strings"

var formattingRuneLabels = map[rune]string{
	0x061C: "⟪ALM⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x00AD: "⟪SHY⟫",
	0x180E: "⟪MVS⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0x206A: "⟪ISS⟫",
	0x206B: "⟪ASS⟫",
	0x206C: "⟪IAFS⟫",
	0x206D: "⟪AAFS⟫",
	0x206E: "⟪NADS⟫",
	0x206F: "⟪NODS⟫",
	0xFEFF: "⟪BOM⟫",
}

// SanitizeName replaces control characters so a file name cannot inject
// terminal escape sequences when drawn. Bidi and zero-width formatting runes
// are made visible since they can disguise the real extension.
func SanitizeName(name string) string {
	for _, r := range name {
		if requiresSanitization(r) {
			return sanitize(name)
		}
	}
	return name
}

func requiresSanitization(r rune) bool {
	if isFormattingRune(r) {
		return true
	}
	return (r >= 0 && r < 0x20) || r == 0x7f
}

func sanitize(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case isFormattingRune(r):
			b.WriteString(formattingRuneLabels[r])
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isFormattingRune(r rune) bool {
	_, ok := formattingRuneLabels[r]
	return ok
}
