package core

import "strings"

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching. When a column name
// repeats, the last occurrence wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if key == "" {
			continue
		}
		idx[key] = i
	}
	return idx
}

// CleanCell removes common CSV artifacts from a header cell:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// MissingColumns returns the schema columns absent from idx, in schema order.
func MissingColumns(idx HeaderIndex, schema Schema) []string {
	var missing []string
	for _, col := range schema {
		if _, ok := idx[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// BuildRecord maps one CSV row onto a Record. Schema columns are keyed by their
// canonical schema name; other header columns keep their cleaned header text.
// Data cells are only trimmed, never rewritten. Cells beyond the end of a short
// row are left out of the record.
func BuildRecord(header []string, idx HeaderIndex, schema Schema, row []string) Record {
	rec := make(Record, len(header))

	canonical := make(map[int]string, len(schema))
	for _, col := range schema {
		if pos, ok := idx[strings.ToLower(col)]; ok {
			canonical[pos] = col
		}
	}

	for pos, h := range header {
		if pos >= len(row) {
			break
		}
		key, ok := canonical[pos]
		if !ok {
			key = CleanCell(h)
			if key == "" {
				continue
			}
		}
		rec[key] = strings.TrimSpace(row[pos])
	}

	return rec
}
