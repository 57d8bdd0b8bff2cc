package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// DocumentExtractor turns a résumé file into plain text. Format is decided
// by file extension; anything other than .pdf or .docx is rejected before
// the file is opened.
type DocumentExtractor interface {
	ExtractText(filePath string) (string, error)
	SupportedFormat(fileName string) bool
}

type documentExtractor struct {
	logger *zap.Logger
}

func NewDocumentExtractor(logger *zap.Logger) DocumentExtractor {
	return &documentExtractor{logger: logger}
}

// SupportedFormat implements DocumentExtractor.
func (e *documentExtractor) SupportedFormat(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return ext == ".pdf" || ext == ".docx"
}

// ExtractText implements DocumentExtractor.
func (e *documentExtractor) ExtractText(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".pdf":
		return e.extractPDF(filePath)
	case ".docx":
		return e.extractDOCX(filePath)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func (e *documentExtractor) extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open PDF: %v", ErrExtraction, err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("failed to read PDF page",
				zap.String("file", filePath),
				zap.Int("page", pageIndex),
				zap.Error(err))
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text content found in PDF", ErrExtraction)
	}

	return text, nil
}

func (e *documentExtractor) extractDOCX(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open DOCX: %v", ErrExtraction, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: failed to stat DOCX: %v", ErrExtraction, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse DOCX: %v", ErrExtraction, err)
	}

	var textBuilder strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			textBuilder.WriteString(fmt.Sprintf("%v", item))
			textBuilder.WriteString("\n")
		}
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text content found in DOCX", ErrExtraction)
	}

	return text, nil
}

var (
	htmlTagPattern     = regexp.MustCompile(`<[^>]*>`)
	lineBreakPattern   = regexp.MustCompile(`\s*\n\s*`)
	mergedStopPattern  = regexp.MustCompile(`\.([A-Z])`)
	multiSpacePattern  = regexp.MustCompile(`\s+`)
	blankLinesPattern  = regexp.MustCompile(`\n{3,}`)
	trailingWSPattern  = regexp.MustCompile(`[ \t]+\n`)
	leadingWSPattern   = regexp.MustCompile(`\n[ \t]+`)
)

// CleanText normalizes a span of text into a single line: tags stripped,
// line breaks folded into spaces, run-on sentence stops split, whitespace
// collapsed. Idempotent: cleaning already-clean text is a no-op.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = lineBreakPattern.ReplaceAllString(text, " ")

	// A period abutting the next word breaks downstream word-boundary
	// matching. Uppercase-only so technology names like node.js survive.
	text = mergedStopPattern.ReplaceAllString(text, ". $1")

	text = multiSpacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// NormalizeLines tidies raw extracted text while preserving the line
// structure that heading detection depends on.
func NormalizeLines(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = trailingWSPattern.ReplaceAllString(text, "\n")
	text = leadingWSPattern.ReplaceAllString(text, "\n")
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
