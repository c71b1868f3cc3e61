package document

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReadDOCX(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>张三</w:t></w:r><w:r><w:tab/><w:t>阿里巴巴</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">电话 13812345678</w:t></w:r></w:p>`)

	got := Read("resume.DOCX", data)
	assert.Equal(t, "张三\t阿里巴巴\n电话 13812345678", got)
}

func TestReadDOCXWithoutBodyFallsBack(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	// Falls back to the raw bytes; the zip headers survive as text.
	got := Read("a.docx", buf.Bytes())
	assert.Contains(t, got, "word/styles.xml")
}

func TestReadText(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want string
	}{
		{"plain", "notes.txt", []byte("人在北京"), "人在北京"},
		{"unknown extension", "notes", []byte("hello"), "hello"},
		{"invalid bytes dropped", "notes.md", []byte("ab\xffc"), "abc"},
		{"full width digits folded", "cv.txt", []byte("电话１３８１２３４５６７８"), "电话13812345678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Read(tt.file, tt.data))
		})
	}
}

func TestReadBrokenPDFFallsBack(t *testing.T) {
	got := Read("cv.pdf", []byte("not really a pdf 北京"))
	assert.Equal(t, "not really a pdf 北京", got)
}

func TestReadHTML(t *testing.T) {
	data := []byte(`<html><head><style>p{color:red}</style></head><body>
<h1>张三</h1><p>毕业于<b>清华大学</b></p><p><a href="https://example.com">主页</a></p>
</body></html>`)

	got := Read("resume.html", data)
	assert.Contains(t, got, "张三")
	assert.Contains(t, got, "毕业于清华大学")
	assert.NotContains(t, got, "<p>")
	assert.NotContains(t, got, "example.com")
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.PDF"))
	assert.True(t, Supported("e.htm"))
	assert.True(t, Supported("b.docx"))
	assert.True(t, Supported("c.md"))
	assert.False(t, Supported("d.png"))
	assert.False(t, Supported("noext"))
}
