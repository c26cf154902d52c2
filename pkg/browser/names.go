package browser

import (
	"strings"
)

// forbiddenNameChars are stripped from submitted folder/file/link names:
// path separators, shell/URL troublemakers and characters common
// filesystems refuse.
const forbiddenNameChars = "/\\:*?\"<>|%~#&'`"

// SanitizeFilename normalizes a submitted name into one that is safe for
// the filesystem and URL layers: forbidden characters removed, control
// characters removed, whitespace runs collapsed to a single space, and
// surrounding spaces and dots trimmed. Returns "" when nothing usable
// remains; callers reject that as an invalid name.
func SanitizeFilename(raw string) string {
	var b strings.Builder

	lastWasSpace := false
	for _, r := range raw {
		switch {
		case r < 0x20 || r == 0x7f:
			continue
		case strings.ContainsRune(forbiddenNameChars, r):
			continue
		case r == ' ' || r == '\t':
			if lastWasSpace {
				continue
			}
			lastWasSpace = true
			b.WriteRune(' ')
		default:
			lastWasSpace = false
			b.WriteRune(r)
		}
	}

	cleaned := strings.Trim(b.String(), " .")
	for strings.Contains(cleaned, "..") {
		cleaned = strings.ReplaceAll(cleaned, "..", ".")
	}

	return cleaned
}

// SanitizeUploadFilename cleans a declared upload name like SanitizeFilename
// but keeps the leading and trailing spaces the uploader chose; they are
// part of the stored filename.
func SanitizeUploadFilename(raw string) string {
	lead := len(raw) - len(strings.TrimLeft(raw, " "))
	trail := len(raw) - len(strings.TrimRight(raw, " "))

	cleaned := SanitizeFilename(raw)
	if cleaned == "" {
		return ""
	}

	return strings.Repeat(" ", lead) + cleaned + strings.Repeat(" ", trail)
}
