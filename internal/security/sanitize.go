package security

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Sanitize escapes the five HTML metacharacters in an externally-supplied
// string. It is applied exactly once per inbound field, at the protocol
// boundary, before the value enters shared state or is echoed to other
// clients.
func Sanitize(s string) string {
	return htmlEscaper.Replace(s)
}
