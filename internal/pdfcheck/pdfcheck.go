package pdfcheck

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrNotPDF means the file name does not carry a .pdf extension.
	ErrNotPDF = errors.New("file is not a pdf")
	// ErrUnreadable means the payload could not be opened as a PDF.
	ErrUnreadable = errors.New("pdf is unreadable")
)

// ValidateName rejects anything without a .pdf extension. This runs before
// any byte of the file leaves the gateway.
func ValidateName(fileName string) error {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
	if ext != ".pdf" {
		return ErrNotPDF
	}
	return nil
}

// ValidateBytes opens the payload as a PDF and requires at least one page,
// so obviously corrupt uploads never hit the analysis service. The pdf
// package panics on some malformed page trees, hence the recover.
func ValidateBytes(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrUnreadable
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ErrUnreadable
	}
	if reader.NumPage() < 1 {
		return ErrUnreadable
	}
	return nil
}
