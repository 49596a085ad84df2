package extract

import (
	"context"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"
)

// TextPrimitive is the built-in extraction primitive. It pulls plain
// text per page and derives table matrices from the text layout, so it
// covers text-based PDFs only; scanned documents come back empty.
type TextPrimitive struct {
	maxFileSize int64
	conf        *model.Configuration
}

// NewTextPrimitive creates a text-layout extraction primitive.
func NewTextPrimitive(maxFileSize int64) *TextPrimitive {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &TextPrimitive{
		maxFileSize: maxFileSize,
		conf:        conf,
	}
}

// Extract implements Primitive over ledongthuc/pdf page text. The file
// is validated with pdfcpu first so corrupt input fails up front with
// ReasonUnreadableFile instead of producing garbage tables.
func (p *TextPrimitive) Extract(
	ctx context.Context, path string, pages PageSelector, mode Mode,
) (*PrimitiveResult, error) {
	if err := p.validateFile(path); err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, NewFailure(ReasonUnreadableFile, eris.Wrap(err, "primitive: open pdf"))
	}
	defer f.Close()

	total := reader.NumPage()
	selected := pages.Resolve(total)
	if len(selected) == 0 {
		return nil, NewFailure(ReasonNoPagesMatched, eris.Errorf("primitive: selector %q matched none of %d pages", pages.String(), total))
	}

	result := &PrimitiveResult{PageCount: total}
	var textParts []string

	for _, pageNum := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Keep going; a single unreadable page is not fatal.
			continue
		}
		textParts = append(textParts, content)

		for _, rows := range detectTables(content, mode) {
			result.Tables = append(result.Tables, TableMatrix{
				Page:  pageNum,
				Index: len(result.Tables),
				Mode:  mode,
				Rows:  rows,
			})
		}
	}

	result.Text = strings.Join(textParts, "\n")
	return result, nil
}

// validateFile checks existence, size and PDF structure.
func (p *TextPrimitive) validateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return NewFailure(ReasonUnreadableFile, eris.Errorf("primitive: file does not exist: %s", path))
	}
	if err != nil {
		return NewFailure(ReasonUnreadableFile, eris.Wrap(err, "primitive: stat file"))
	}
	if info.IsDir() {
		return NewFailure(ReasonUnreadableFile, eris.Errorf("primitive: path is a directory: %s", path))
	}
	if p.maxFileSize > 0 && info.Size() > p.maxFileSize {
		return NewFailure(ReasonUnreadableFile,
			eris.Errorf("primitive: file too large: %d bytes (max %d)", info.Size(), p.maxFileSize))
	}

	if err := api.ValidateFile(path, p.conf); err != nil {
		return NewFailure(ReasonUnreadableFile, eris.Wrap(err, "primitive: pdf validation"))
	}
	return nil
}
