package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// docxDocumentXMLPath is the path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// wpTag matches one <w:p>...</w:p> paragraph block, with or without attributes.
var wpTag = regexp.MustCompile(`(?s)<w:p(?:>|\s[^>]*>)(.*?)</w:p>`)

// wtTag matches <w:t>text</w:t> or <w:t xml:space="preserve">text</w:t>
// (and any other attributes).
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// extractDOCX extracts text from .docx bytes. DOCX is a ZIP containing
// word/document.xml (OOXML). Each <w:p> paragraph becomes one output line,
// built from its <w:t> text runs; blank paragraphs are skipped and the
// remaining lines are joined by newlines.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docxDocumentXMLPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("extract DOCX: open %s: %w", f.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			_ = rc.Close()
			return "", fmt.Errorf("extract DOCX: read %s: %w", f.Name, err)
		}
		_ = rc.Close()
		docXML = buf.Bytes()
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("extract DOCX: %s not found", docxDocumentXMLPath)
	}

	var paragraphs []string
	for _, p := range wpTag.FindAllStringSubmatch(string(docXML), -1) {
		var line strings.Builder
		for _, t := range wtTag.FindAllStringSubmatch(p[1], -1) {
			line.WriteString(t[1])
		}
		if strings.TrimSpace(line.String()) == "" {
			continue
		}
		paragraphs = append(paragraphs, line.String())
	}
	return strings.Join(paragraphs, "\n"), nil
}
