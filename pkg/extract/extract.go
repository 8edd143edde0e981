// Package extract turns an uploaded document into plain text. Markdown and
// plain text pass through untouched; PDF and DOCX are unpacked so the
// chunker only ever sees text.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".txt", ".pdf", ".docx":
		return true
	}
	return false
}

func Text(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".txt":
		return string(data), nil
	case ".pdf":
		return fromPDF(data)
	case ".docx":
		return fromDocx(data)
	}
	return "", fmt.Errorf("unsupported document type %q", filepath.Ext(filename))
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// fromDocx reads word/document.xml and collects the text runs. Paragraph
// ends become newlines so heading-like lines survive for the chunker.
func fromDocx(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var doc io.ReadCloser
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("open docx body: %w", err)
			}
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx has no word/document.xml")
	}
	defer doc.Close()

	decoder := xml.NewDecoder(doc)
	var b strings.Builder
	inRun := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inRun {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
