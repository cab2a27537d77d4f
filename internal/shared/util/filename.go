package util

import (
	"errors"
	"strings"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "\"", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// ExportFileName derives the download name for a rendered application PDF.
// Falls back to "Dokument" when the company name is empty or unusable.
func ExportFileName(companyName string) string {
	name := strings.TrimSpace(companyName)
	if name == "" {
		return "Bewerbung_Dokument.pdf"
	}
	sanitized, err := SanitizeFileName(name)
	if err != nil {
		return "Bewerbung_Dokument.pdf"
	}
	return "Bewerbung_" + sanitized + ".pdf"
}
