package export

import "strings"

// isXMLChar reports whether r is allowed by the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// EscapeXML replaces the five XML special characters with their named entities.
// The input is scanned once, so entities already present in s are escaped again
// rather than passed through. Characters XML 1.0 forbids (most C0 controls,
// U+FFFE, U+FFFF) are dropped, and invalid UTF-8 bytes become U+FFFD.
func EscapeXML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isXMLChar(r) {
			continue
		}
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case '\'':
			b.WriteString("&apos;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

const cdataTerminator = "]]>"

// EscapeCDATA makes s safe to embed inside a CDATA section by splitting every
// "]]>" across two adjacent sections. Characters are filtered as in EscapeXML.
func EscapeCDATA(s string) string {
	s = strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, strings.ToValidUTF8(s, "\uFFFD"))
	return strings.ReplaceAll(s, cdataTerminator, "]]]]><![CDATA[>")
}
