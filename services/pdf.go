package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText reads the text layer of a PDF. When the text layer yields
// fewer than minTextLen characters (the usual sign of a scanned PDF), it
// falls back to per-page row extraction. Both strategies are best-effort; a
// wholly image-only PDF yields an empty string.
func extractPDFText(path string, minTextLen int) (text string, err error) {
	// The reader panics on some malformed files; contain it to this file.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf reader failure: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	text, primaryErr := pdfPlainText(reader)
	if primaryErr == nil && len(strings.TrimSpace(text)) >= minTextLen {
		return text, nil
	}

	fallback, fallbackErr := pdfTextByRows(reader)
	if fallbackErr == nil && len(strings.TrimSpace(fallback)) > len(strings.TrimSpace(text)) {
		return fallback, nil
	}
	if primaryErr != nil && fallbackErr != nil {
		return "", primaryErr
	}
	return text, nil
}

func pdfPlainText(reader *pdf.Reader) (string, error) {
	r, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func pdfTextByRows(reader *pdf.Reader) (string, error) {
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				sb.WriteString(word.S)
				sb.WriteString(" ")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
