// Package textextract pulls plain text out of uploaded estimate and order
// documents so it can be handed to the extraction models.
package textextract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupported = errors.New("unsupported file type")

type Document struct {
	Text  string
	Pages int
	Kind  string
}

// Kind maps a file name or MIME type onto pdf, docx or txt. It returns ""
// for anything else.
func Kind(nameOrType string) string {
	s := strings.ToLower(strings.TrimSpace(nameOrType))
	if i := strings.Index(s, ";"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	switch s {
	case "application/pdf":
		return "pdf"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx"
	case "text/plain":
		return "txt"
	}
	switch filepath.Ext(s) {
	case ".pdf":
		return "pdf"
	case ".docx":
		return "docx"
	case ".txt", ".text":
		return "txt"
	}
	return ""
}

// Read buffers at most maxBytes of r and extracts its text. name is used to
// pick the format.
func Read(r io.Reader, name string, maxBytes int64) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("upload exceeds %d bytes", maxBytes)
	}
	return Extract(bytes.NewReader(data), int64(len(data)), name)
}

func Extract(data io.ReaderAt, size int64, nameOrType string) (*Document, error) {
	switch kind := Kind(nameOrType); kind {
	case "pdf":
		return extractPDF(data, size)
	case "docx":
		return extractDOCX(data, size)
	case "txt":
		buf := make([]byte, size)
		if _, err := data.ReadAt(buf, 0); err != nil && err != io.EOF {
			return nil, fmt.Errorf("read text: %w", err)
		}
		return &Document{Text: string(bytes.TrimSpace(buf)), Pages: 1, Kind: kind}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, nameOrType)
	}
}

// extractPDF keeps one line per text row so section headers and quantities
// stay on separate lines.
func extractPDF(data io.ReaderAt, size int64) (*Document, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			if s := strings.TrimSpace(line.String()); s != "" {
				buf.WriteString(s)
				buf.WriteByte('\n')
			}
		}
	}

	return &Document{Text: strings.TrimSpace(buf.String()), Pages: pages, Kind: "pdf"}, nil
}

func extractDOCX(data io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()

		text, err := paragraphs(rc)
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}
		return &Document{Text: text, Pages: 1, Kind: "docx"}, nil
	}
	return nil, errors.New("open docx: word/document.xml not found")
}

// paragraphs joins w:t runs and ends each w:p with a newline.
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		out    strings.Builder
		line   strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				line.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := strings.TrimSpace(line.String()); s != "" {
					out.WriteString(s)
					out.WriteByte('\n')
				}
				line.Reset()
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	return strings.TrimSpace(out.String()), nil
}
