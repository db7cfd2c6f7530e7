package out

import (
	"context"
	"fmt"

	"rsc.io/pdf"

	libraryout "shelfmate/internal/modules/library/port/out"
)

type PDFPageCounter struct{}

func NewPDFPageCounter() libraryout.PageCounter {
	return PDFPageCounter{}
}

func (PDFPageCounter) CountPages(_ context.Context, path string) (int, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return doc.NumPage(), nil
}
