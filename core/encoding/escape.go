// Package encoding holds the text escaping shared by packages that
// emit annotation XML. Only the five predefined XML entities are ever
// produced; annotation tools balk at numeric character references in
// files they wrote themselves.
package encoding

import "strings"

// EscapeXMLText escapes the basic XML entities for element content.
func EscapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeXMLAttr escapes text for use in a double-quoted XML attribute.
func EscapeXMLAttr(s string) string {
	s = EscapeXMLText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
