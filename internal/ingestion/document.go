package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format is a supported document format
type Format string

// Supported formats
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

// Document is the text of an ingested résumé plus a little metadata
type Document struct {
	Filename   string `json:"filename"`
	Format     Format `json:"format"`
	Text       string `json:"text"`
	TextLength int    `json:"text_length"`
	Hash       string `json:"hash"` // SHA256 of the raw file
}

// DetectFormat maps a filename to a Format by its extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx", ".doc":
		return FormatDOCX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", &UnsupportedTypeError{Filename: filename}
	}
}

// ExtractText returns the normalized text of a document, dispatching on the
// filename extension. A document without any text yields ErrNoText.
func ExtractText(filename string, data []byte) (string, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	case FormatHTML:
		text, err = extractHTMLText(data)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Ingest extracts text from data and wraps it in a Document.
func Ingest(filename string, data []byte) (*Document, error) {
	text, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}
	format, _ := DetectFormat(filename)

	sum := sha256.Sum256(data)
	return &Document{
		Filename:   filepath.Base(filename),
		Format:     format,
		Text:       text,
		TextLength: utf8.RuneCountInString(text),
		Hash:       hex.EncodeToString(sum[:]),
	}, nil
}

// IngestFromFile reads a résumé from disk and ingests it.
func IngestFromFile(path string) (*Document, error) {
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Ingest(path, data)
}
