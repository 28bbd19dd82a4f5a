package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	switch format {
	case "csv":
		return "text/csv; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Filename builds a safe download filename from a document name and format.
func Filename(documentName, format string) string {
	base := strings.TrimSuffix(documentName, filepath.Ext(documentName))
	if base == "" {
		base = "report"
	}

	// Keep only filesystem-safe characters
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ' || r == '.':
			sb.WriteRune('-')
		}
	}
	safe := sb.String()
	if safe == "" {
		safe = "report"
	}

	return fmt.Sprintf("%s-compliance.%s", safe, format)
}
