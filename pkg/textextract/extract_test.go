package textextract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	assert.Equal(t, "pdf", Kind("Estimate.PDF"))
	assert.Equal(t, "pdf", Kind("application/pdf"))
	assert.Equal(t, "docx", Kind("order.docx"))
	assert.Equal(t, "txt", Kind("text/plain; charset=utf-8"))
	assert.Equal(t, "", Kind("photo.png"))
}

func TestReadText(t *testing.T) {
	doc, err := Read(strings.NewReader("  Grand Total: $12,000\n"), "notes.txt", 1024)
	require.NoError(t, err)
	assert.Equal(t, "Grand Total: $12,000", doc.Text)
	assert.Equal(t, "txt", doc.Kind)
}

func TestReadRejectsLargeAndUnknown(t *testing.T) {
	_, err := Read(strings.NewReader(strings.Repeat("x", 20)), "a.txt", 10)
	require.Error(t, err)

	_, err = Read(strings.NewReader("x"), "a.png", 10)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestExtractDOCXKeepsParagraphs(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Low Slope Materials</w:t></w:r></w:p>
<w:p><w:r><w:t>GTA cap sheet</w:t></w:r><w:r><w:tab/><w:t>8 Roll</w:t></w:r></w:p>
<w:p></w:p>
</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	doc, err := Extract(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "order.docx")
	require.NoError(t, err)
	assert.Equal(t, "Low Slope Materials\nGTA cap sheet 8 Roll", doc.Text)
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	data := []byte("not a pdf")
	_, err := Extract(bytes.NewReader(data), int64(len(data)), "a.pdf")
	require.Error(t, err)
}
