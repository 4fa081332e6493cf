package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// PDFService turns PDF bytes into prompt text.
type PDFService struct {
	maxChars int // budget for document text handed to the AI
}

var DefaultMaxDocChars = 24000

func NewPDFService(maxChars int) *PDFService {
	if maxChars <= 0 {
		maxChars = DefaultMaxDocChars
	}
	return &PDFService{maxChars: maxChars}
}

// ExtractText extracts the text layer of a PDF via pdftotext.
func (s *PDFService) ExtractText(ctx context.Context, content []byte) (string, error) {
	tmp, err := os.CreateTemp("", "docbricks-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, "pdftotext", "-enc", "UTF-8", "-nopgbrk", tmp.Name(), "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}

	text := s.cleanText(out.String())
	if text == "" {
		return "", fmt.Errorf("no text extracted")
	}
	return s.Truncate(text), nil
}

// Truncate enforces the document text budget, trimming back to a rune
// boundary so the cut never produces invalid UTF-8.
func (s *PDFService) Truncate(text string) string {
	if len(text) <= s.maxChars {
		return text
	}
	cut := s.maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func (s *PDFService) cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\u001b": "",   // Escape character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
		"  ":     " ",  // Multiple spaces to single space
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
