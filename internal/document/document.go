// Package document turns uploaded resume files into plain text.
package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jaytaylor/html2text"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// Extensions lists the file types Read understands natively. Anything else
// is decoded as UTF-8 text.
var Extensions = []string{".pdf", ".docx", ".html", ".htm", ".txt", ".md"}

var errNoDocumentXML = errors.New("docx has no word/document.xml")

// Read extracts the text of a file by its extension. A PDF, DOCX or HTML
// file that cannot be parsed falls back to lenient UTF-8 decoding of the raw bytes.
// The result is NFKC-normalised so full-width digits and letters match the
// pattern extractors.
func Read(name string, data []byte) string {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		text, err = readPDF(data)
	case ".docx", ".doc":
		text, err = readDOCX(data)
	case ".html", ".htm":
		text, err = html2text.FromString(decodeUTF8(data), html2text.Options{OmitLinks: true, TextOnly: true})
	default:
		text = decodeUTF8(data)
	}
	if err != nil {
		text = decodeUTF8(data)
	}
	return norm.NFKC.String(text)
}

// Supported reports whether name has one of Extensions.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func readPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	return string(b), nil
}

func readDOCX(data []byte) (string, error) {
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
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()
		return paragraphs(rc)
	}
	return "", errNoDocumentXML
}

// paragraphs collects the text runs of a WordprocessingML body, one line per
// w:p element.
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		out    []string
		cur    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				cur.WriteByte('\t')
			case "br", "cr":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out = append(out, cur.String())
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return strings.Join(out, "\n"), nil
}

// decodeUTF8 drops invalid byte sequences.
func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			b.WriteRune(r)
		}
		data = data[size:]
	}
	return b.String()
}
