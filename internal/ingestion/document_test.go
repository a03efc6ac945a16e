package ingestion

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXMLTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>%s</w:body>
</w:document>`

// buildDocx assembles a minimal .docx package with one w:p per paragraph.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t xml:space=\"preserve\">")
		body.WriteString(p)
		body.WriteString("</w:t></w:r></w:p>")
	}
	return buildDocxBody(t, body.String())
}

func buildDocxBody(t *testing.T, body string) []byte {
	t.Helper()

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            strings.Replace(documentXMLTemplate, "%s", body, 1),
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"resume.pdf", FormatPDF},
		{"RESUME.PDF", FormatPDF},
		{"cv.Docx", FormatDOCX},
		{"resume.docx", FormatDOCX},
		{"resume.doc", FormatDOCX},
		{"resume.html", FormatHTML},
		{"resume.htm", FormatHTML},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			format, err := DetectFormat(tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	for _, name := range []string{"resume.txt", "resume", "resume.pdf.exe", ""} {
		_, err := DetectFormat(name)
		var unsupported *UnsupportedTypeError
		require.ErrorAs(t, err, &unsupported, name)
		assert.Equal(t, name, unsupported.Filename)
	}
}

func TestExtractText_Docx(t *testing.T) {
	data := buildDocx(t, "Jane Doe", "Senior Engineer at Acme", "", "Skills: Go,   Docker and Kubernetes")

	text, err := ExtractText("cv.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Engineer at Acme\n\nSkills: Go, Docker and Kubernetes", text)
}

func TestExtractText_DocxRunsTabsAndBreaks(t *testing.T) {
	body := `<w:p><w:r><w:t>Python</w:t></w:r><w:r><w:tab/><w:t>Django</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>`

	text, err := ExtractText("cv.docx", buildDocxBody(t, body))
	require.NoError(t, err)
	assert.Equal(t, "Python Django\nLine one\nLine two", text)
}

func TestExtractText_DocxEmpty(t *testing.T) {
	_, err := ExtractText("cv.docx", buildDocx(t, "", "   "))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractText_CorruptDocx(t *testing.T) {
	_, err := ExtractText("cv.docx", []byte("not a zip archive"))

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, FormatDOCX, extractionErr.Format)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText("cv.pdf", []byte("%PDF-1.4 truncated"))

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, FormatPDF, extractionErr.Format)
}

func TestExtractText_HTML(t *testing.T) {
	html := `<html>
	<head><title>CV</title><style>body { color: red }</style></head>
	<body>
		<h1>Jane Doe</h1>
		<p>Built APIs with FastAPI and PostgreSQL.</p>
		<ul><li>AWS</li><li>Terraform</li></ul>
		<script>var tracking = "Python";</script>
	</body>
	</html>`

	text, err := ExtractText("cv.html", []byte(html))
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Built APIs with FastAPI and PostgreSQL.")
	assert.Contains(t, text, "AWS\nTerraform")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color")
	assert.NotContains(t, text, "CV")
}

func TestExtractText_HTMLPrefersMain(t *testing.T) {
	html := `<body><nav>Home | About</nav><main><p>Go developer</p></main></body>`

	text, err := ExtractText("cv.htm", []byte(html))
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)
}

func TestExtractText_Unsupported(t *testing.T) {
	_, err := ExtractText("notes.txt", []byte("Python"))

	var unsupported *UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
}

func TestIngest(t *testing.T) {
	data := buildDocx(t, "Kubernetes operator")

	doc, err := Ingest("/tmp/uploads/cv.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "cv.docx", doc.Filename)
	assert.Equal(t, FormatDOCX, doc.Format)
	assert.Equal(t, "Kubernetes operator", doc.Text)
	assert.Equal(t, len("Kubernetes operator"), doc.TextLength)
	assert.Len(t, doc.Hash, 64)

	again, err := Ingest("cv.docx", data)
	require.NoError(t, err)
	assert.Equal(t, doc.Hash, again.Hash)
}

func TestIngestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.docx")
	require.NoError(t, os.WriteFile(path, buildDocx(t, "Rust and Go"), 0o644))

	doc, err := IngestFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Rust and Go", doc.Text)
}

func TestIngestFromFile_NotFound(t *testing.T) {
	_, err := IngestFromFile(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestIngestFromFile_UnsupportedBeforeRead(t *testing.T) {
	_, err := IngestFromFile(filepath.Join(t.TempDir(), "missing.odt"))

	var unsupported *UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
}
