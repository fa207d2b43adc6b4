package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	lpdf "github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when the payload lacks a PDF header
var ErrNotPDF = errors.New("pdf: missing %PDF header")

// TextExtractor turns a document into plain text
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// NativeExtractor parses PDFs in pure Go
type NativeExtractor struct{}

func NewNativeExtractor() *NativeExtractor { return &NativeExtractor{} }

// ExtractText collapses whitespace within each page and joins pages with "\n"
func (NativeExtractor) ExtractText(data []byte) (text string, err error) {
	if !IsPDF(data) {
		return "", ErrNotPDF
	}
	// the parser panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, normalizePage(pageText(page)))
	}
	return strings.Join(pages, "\n"), nil
}

// tjSpaceGap is the TJ adjustment, in thousandths of an em, past which two
// fragments are treated as separate words
const tjSpaceGap = 250

// pageText walks the content stream in drawing order and separates every
// shown string with a space, so pieces placed with Td, TD, T* or TJ never
// run together.
func pageText(page lpdf.Page) string {
	contents := page.V.Key("Contents")
	if contents.Kind() == lpdf.Null {
		return ""
	}

	encoders := make(map[string]lpdf.TextEncoding)
	for _, name := range page.Fonts() {
		encoders[name] = page.Font(name).Encoder()
	}
	var enc lpdf.TextEncoding
	decode := func(raw string) string {
		if enc == nil {
			return raw
		}
		return enc.Decode(raw)
	}

	var pieces []string
	lpdf.Interpret(contents, func(stk *lpdf.Stack, op string) {
		args := make([]lpdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "Tf":
			if len(args) == 2 {
				enc = encoders[args[0].Name()]
			}
		case "Tj", "'", "\"":
			if len(args) > 0 {
				pieces = append(pieces, decode(args[len(args)-1].RawString()))
			}
		case "TJ":
			if len(args) == 1 {
				pieces = append(pieces, showArray(args[0], decode))
			}
		}
	})
	return strings.Join(pieces, " ")
}

// showArray concatenates kerned TJ fragments, inserting a space where the
// adjustment is wide enough to be a word gap
func showArray(v lpdf.Value, decode func(string) string) string {
	var b strings.Builder
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		switch item.Kind() {
		case lpdf.String:
			b.WriteString(decode(item.RawString()))
		case lpdf.Integer, lpdf.Real:
			if -item.Float64() >= tjSpaceGap {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// FitzExtractor uses MuPDF; it copes with more encodings than the native parser
type FitzExtractor struct{}

func NewFitzExtractor() *FitzExtractor { return &FitzExtractor{} }

func (FitzExtractor) ExtractText(data []byte) (string, error) {
	if !IsPDF(data) {
		return "", ErrNotPDF
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		raw, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		pages = append(pages, normalizePage(raw))
	}
	return strings.Join(pages, "\n"), nil
}

// IsPDF checks the magic header
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-"))
}

func normalizePage(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
