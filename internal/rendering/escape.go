package rendering

import "strings"

// encodingFixes maps UTF-8 punctuation that was mis-decoded as Windows-1252 back to ASCII.
var encodingFixes = strings.NewReplacer(
	"â€™", "'",
	"â€˜", "'",
	"â€œ", `"`,
	"â€\u009d", `"`,
	"â€“", "-",
	"â€”", "-",
	"â€¦", "...",
)

// FixEncoding repairs known mis-encoded punctuation sequences.
func FixEncoding(text string) string {
	if text == "" {
		return ""
	}
	return encodingFixes.Replace(text)
}

// EscapeTypst escapes characters with meaning in Typst markup mode.
// Special characters: \ # $ * _ @ < > ` [ ] ~ /
func EscapeTypst(text string) string {
	text = FixEncoding(text)
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\', '#', '$', '*', '_', '@', '<', '>', '`', '[', ']', '~', '/':
			result.WriteRune('\\')
			result.WriteRune(r)
		case '\r':
		case '\n':
			result.WriteRune(' ')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// EscapeLineStart escapes a leading marker that Typst would read as a heading,
// list item or numbered item when the text starts a line.
func EscapeLineStart(text string) string {
	if text == "" {
		return ""
	}
	switch text[0] {
	case '-', '+', '=':
		return `\` + text
	}

	digits := 0
	for digits < len(text) && text[digits] >= '0' && text[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(text) && text[digits] == '.' {
		return text[:digits] + `\` + text[digits:]
	}
	return text
}

// Quote renders text as a Typst string literal.
func Quote(text string) string {
	text = FixEncoding(strings.TrimSpace(text))

	var result strings.Builder
	result.Grow(len(text) + 2)
	result.WriteByte('"')
	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\\`)
		case '"':
			result.WriteString(`\"`)
		case '\r':
		case '\n':
			result.WriteRune(' ')
		default:
			result.WriteRune(r)
		}
	}
	result.WriteByte('"')
	return result.String()
}
