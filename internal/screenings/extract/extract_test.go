package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"recruiting_portal_backend/platform/apperr"
)

func TestText_PlainFormats(t *testing.T) {
	e := New()

	got, err := e.Text("resume.txt", strings.NewReader("Ten  years of\n\nbackend experience."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ten years of backend experience." {
		t.Fatalf("unexpected text: %q", got)
	}

	if _, err := e.Text("resume.md", strings.NewReader("# Profile")); err != nil {
		t.Fatalf("unexpected error for markdown: %v", err)
	}
}

func TestText_LegacyDocRejected(t *testing.T) {
	e := New()

	_, err := e.Text("resume.doc", strings.NewReader("old binary"))
	if err == nil {
		t.Fatal("expected error for .doc")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Legacy .doc format not supported") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestText_UnsupportedFormat(t *testing.T) {
	e := New()

	_, err := e.Text("resume.png", strings.NewReader("image"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestText_DOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Senior backend engineer.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Ten years of experience with Go.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	got, err := New().Text("resume.docx", &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Senior backend engineer.") || !strings.Contains(got, "Ten years of experience with Go.") {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestClean(t *testing.T) {
	got := Clean("  Name*: John\t<Doe>\n email@x.com  (555) 123-4567 ")
	want := "Name John Doe email@x.com (555) 123-4567"
	if got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}
}

func TestHasValidContent(t *testing.T) {
	long := strings.Repeat("x", 120)

	if HasValidContent("short") {
		t.Fatal("short text must be invalid")
	}
	if HasValidContent(long) {
		t.Fatal("long text without marker tokens must be invalid")
	}
	if !HasValidContent(long + " experience") {
		t.Fatal("long text with a marker token must be valid")
	}
	if !HasValidContent(long + " reachable at jane@x.com") {
		t.Fatal("text with an email marker must be valid")
	}
}
