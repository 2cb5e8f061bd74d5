// Package extract pulls plain text out of uploaded resume files.
// PDF and modern word-processing documents are supported; legacy binary
// .doc files are rejected as unsupported.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"recruiting_portal_backend/platform/apperr"
)

// minContentLength is the shortest resume text considered analyzable.
const minContentLength = 100

// contentTokens are the markers at least one of which a real resume
// carries.
var contentTokens = []string{"email", "@", "experience", "work", "project", "education", "degree", "university"}

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	specialsPattern   = regexp.MustCompile(`[^a-zA-Z0-9\s.,@()\-+/#]`)
)

// Extractor converts resume blobs into plain text. It is stateless and
// safe for concurrent use.
type Extractor struct{}

// New creates a new text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Text extracts and cleans the text of a resume. The format is chosen by
// file extension.
func (e *Extractor) Text(fileName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".pdf":
		return e.fromPDF(data)
	case ".docx":
		return e.fromDOCX(data)
	case ".txt", ".md":
		return Clean(string(data)), nil
	case ".doc":
		return "", apperr.Validation("Legacy .doc format not supported. Please use .docx or .pdf")
	default:
		return "", apperr.Validation(fmt.Sprintf("Unsupported file format: %s", fileName))
	}
}

func (e *Extractor) fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w", pageNum, err)
		}
		sb.WriteString(text)
		sb.WriteString(" ")
	}
	return Clean(sb.String()), nil
}

// docx is a zip archive; the document body lives in word/document.xml.
// Pulling the character data out of the XML is enough for analysis.
func (e *Extractor) fromDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open docx body: %w", err)
		}
		defer rc.Close()

		text, err := xmlText(rc)
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}
		return Clean(text), nil
	}
	return "", fmt.Errorf("docx has no document body")
}

func xmlText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			// Paragraph and tab boundaries become spaces so words from
			// adjacent runs do not fuse.
			if t.Name.Local == "p" || t.Name.Local == "tab" || t.Name.Local == "br" {
				sb.WriteString(" ")
			}
		}
	}
	return sb.String(), nil
}

// Clean normalizes extracted text: whitespace is collapsed and characters
// that tend to confuse the analyzer are dropped, keeping punctuation that
// carries meaning in resumes.
func Clean(text string) string {
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = specialsPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// HasValidContent reports whether the text is substantial enough to
// analyze: at least 100 characters and at least one resume marker token.
func HasValidContent(text string) bool {
	if len(text) < minContentLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, token := range contentTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
