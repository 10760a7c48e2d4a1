// Package extractor is the document-to-text collaborator: it turns PDF
// bytes into plain statement text. Any failure here is fatal for the whole
// document, never a parser bug.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrEmptyDocument means the input had no bytes or no pages.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrEncrypted means the PDF is password-protected.
	ErrEncrypted = errors.New("document is encrypted")
	// ErrNoText means no readable text could be decoded; the document is
	// likely image-based/scanned or uses undecodable font encodings.
	ErrNoText = errors.New("no extractable text in document")
)

// ExtractText decodes the text content of a PDF document. The page texts
// are joined with newlines into one string, the form the statement parsers
// consume.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	reader, err := newReader(data)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "encrypted") {
			return "", ErrEncrypted
		}
		return "", fmt.Errorf("opening document: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", ErrEmptyDocument
	}

	// Row extraction preserves line layout best; plain text is the
	// fallback for documents where row reconstruction comes back garbled.
	pages := extractByRow(reader, numPages)
	if isReadableText(pages) {
		return strings.Join(pages, "\n"), nil
	}

	if text := extractPlainText(reader); isReadableText([]string{text}) {
		return text, nil
	}

	return "", ErrNoText
}

// newReader shields against the PDF library panicking on malformed files.
func newReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("PDF library crashed: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}
	return pages
}

func extractPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, reader); err != nil {
		return ""
	}
	return sb.String()
}
