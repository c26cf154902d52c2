package browser

import (
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MimePolicy is the external allow/deny predicate for uploads. The default
// implementation covers the common teaching-material formats; deployments
// can swap in their own.
type MimePolicy interface {
	MimeTypeAllowed(mimeType string) bool
	ExtensionAllowed(filename string) bool
}

type DefaultMimePolicy struct{}

var blockedMimeTypes = map[string]bool{
	"application/x-msdownload":       true,
	"application/x-dosexec":          true,
	"application/x-executable":       true,
	"application/x-sharedlib":        true,
	"application/x-mach-binary":      true,
	"application/vnd.microsoft.portable-executable": true,
}

var blockedExtensions = map[string]bool{
	"exe": true, "com": true, "bat": true, "cmd": true,
	"msi": true, "scr": true, "dll": true, "sys": true,
}

func (DefaultMimePolicy) MimeTypeAllowed(mimeType string) bool {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}

	return !blockedMimeTypes[strings.TrimSpace(strings.ToLower(mimeType))]
}

func (DefaultMimePolicy) ExtensionAllowed(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return true
	}

	return !blockedExtensions[strings.ToLower(filename[i+1:])]
}

// DetectMimeType sniffs the content type of a staged upload.
func DetectMimeType(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}

	return mtype.String(), nil
}

// IsMarksFilename gates what a marks zone accepts: only HTML files, since
// the grade-insertion step splits the document around its table.
func IsMarksFilename(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

func marksMimeTypeAllowed(mimeType string) bool {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}

	switch strings.TrimSpace(strings.ToLower(mimeType)) {
	case "text/html", "text/plain", "application/octet-stream":
		return true
	default:
		return false
	}
}

// ValidateMarksContent checks a staged marks upload really is a gradeable
// HTML document: it must contain a table to split around.
func ValidateMarksContent(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	lower := strings.ToLower(string(data))

	return strings.Contains(lower, "<table") && strings.Contains(lower, "</table>"), nil
}
