package compile

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// CountPages returns the number of pages in the PDF at path.
func CountPages(path string) (pages int, err error) {
	// the reader panics on some truncated files
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("failed to read PDF %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return reader.NumPage(), nil
}
