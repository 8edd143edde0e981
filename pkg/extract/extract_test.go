package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPassesThroughMarkdown(t *testing.T) {
	out, err := Text("cv.md", []byte("# Skills\n\nGo, SQL."))
	require.NoError(t, err)
	assert.Equal(t, "# Skills\n\nGo, SQL.", out)
}

func TestTextRejectsUnknownType(t *testing.T) {
	_, err := Text("photo.png", []byte{0x89, 0x50})
	require.Error(t, err)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("cv.md"))
	assert.True(t, Supported("CV.PDF"))
	assert.True(t, Supported("resume.docx"))
	assert.False(t, Supported("photo.png"))
	assert.False(t, Supported("archive"))
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestTextExtractsDocxParagraphs(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Experience</w:t></w:r></w:p>
    <w:p><w:r><w:t>Led the payments </w:t></w:r><w:r><w:t>platform team.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	out, err := Text("resume.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "Experience\nLed the payments platform team.\n", out)
}

func TestTextDocxWithoutBody(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = Text("resume.docx", buf.Bytes())
	require.Error(t, err)
}

func TestTextRejectsCorruptPDF(t *testing.T) {
	_, err := Text("resume.pdf", []byte("not a pdf"))
	require.Error(t, err)
}
