package core

// streaming.go normalizes the byte stream of an import file before CSV parsing.
//
// Spreadsheet exports commonly start with a byte order mark, and some tools
// write "Unicode text" as UTF-16. NewSourceReader handles both without loading
// the file into memory:
//
//   - A UTF-8 BOM (0xEF 0xBB 0xBF) is dropped.
//   - A UTF-16 BOM switches decoding to UTF-16 with that byte order.
//   - Invalid UTF-8 sequences are replaced with U+FFFD.

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewSourceReader wraps r so the CSV reader always sees valid UTF-8 without a BOM.
func NewSourceReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
