package pdf

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	tabOrBreak   = regexp.MustCompile(`<w:(tab|br)\s*/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// DOCXExtractor reads the main document part of a .docx file
type DOCXExtractor struct{}

func NewDOCXExtractor() *DOCXExtractor { return &DOCXExtractor{} }

func (DOCXExtractor) ExtractText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText keeps one line per paragraph
func docxXMLToText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = tabOrBreak.ReplaceAllString(content, " ")
	content = xmlTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = normalizePage(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
