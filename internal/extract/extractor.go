// Package extract converts source documents into plain text for the
// ingestion pipeline.
package extract

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/gobuild-crm/vishnu/internal/domain"
)

// Extractor dispatches text extraction by declared file type. It does not
// validate file existence; a missing file surfaces as the underlying I/O
// error from the format routine.
type Extractor struct {
	// PDFToTextPath overrides the pdftotext binary location. Empty means
	// resolve from PATH.
	PDFToTextPath string
}

func New() *Extractor {
	return &Extractor{}
}

// Extract converts the file at filePath into a single plain-text string.
// The type tag is normalized to lowercase before dispatch.
func (e *Extractor) Extract(ctx context.Context, filePath, fileType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(fileType)) {
	case "pdf":
		return e.extractPDF(ctx, filePath)
	case "txt", "md":
		return e.extractPlainText(filePath, fileType)
	default:
		return "", domain.NewUnsupportedFormatError(fileType)
	}
}

// extractPDF shells out to pdftotext and joins its per-page output with
// newline separators. Pages arrive on stdout separated by form feeds.
func (e *Extractor) extractPDF(ctx context.Context, filePath string) (string, error) {
	binary := e.PDFToTextPath
	if binary == "" {
		binary = "pdftotext"
	}

	cmd := exec.CommandContext(ctx, binary, "-enc", "UTF-8", filePath, "-")
	var out strings.Builder
	var stderr strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			err = &extractToolError{tool: binary, detail: strings.TrimSpace(stderr.String()), err: err}
		}
		return "", domain.NewExtractionError("pdf", err)
	}

	pages := strings.Split(out.String(), "\f")
	for i, page := range pages {
		pages[i] = strings.TrimRight(page, "\n")
	}
	return strings.Join(pages, "\n"), nil
}

func (e *Extractor) extractPlainText(filePath, fileType string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", domain.NewExtractionError(fileType, err)
	}
	return string(data), nil
}

type extractToolError struct {
	tool   string
	detail string
	err    error
}

func (e *extractToolError) Error() string {
	return e.tool + ": " + e.detail
}

func (e *extractToolError) Unwrap() error {
	return e.err
}

// TypeFromFileName infers the declared file type from the filename
// extension, without the leading dot. Returns "" when there is none.
func TypeFromFileName(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return ""
	}
	return strings.ToLower(fileName[idx+1:])
}
