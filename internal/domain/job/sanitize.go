package job

import "strings"

var crlf = strings.NewReplacer("\r", "", "\n", "")

// SanitizeRequestID strips CR and LF so a caller-supplied request id cannot
// inject log lines or headers. Everything else is kept as sent.
func SanitizeRequestID(id string) string {
	return crlf.Replace(id)
}
