package core

// parser.go turns uploaded text into RawRows.
//
// The format is deliberately simple: lines split on '\n', cells split on ','.
// Quoted fields and embedded commas are not supported; the downloadable
// template never produces them. Line numbers are physical (1-based) so that
// "row 7" in an error message is row 7 in the user's spreadsheet.

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// utf8BOM is the byte order mark Excel prepends to "CSV UTF-8" exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParsedFile is the structural result of parsing: the resolved column
// positions and the data rows in file order.
type ParsedFile struct {
	Header     []string
	HeaderLine int
	Columns    ColumnMap
	Rows       []RawRow
}

// Parse splits data into rows and resolves the profile's fields against the
// header. It fails with *EmptyFileError when there is no data row and with
// *MissingColumnsError when a required field has no column.
func Parse(data []byte, profile Profile) (*ParsedFile, error) {
	data = bytes.TrimPrefix(sanitizeUTF8(data), utf8BOM)

	lines := strings.Split(string(data), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	nonEmpty := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty++
		}
	}
	if nonEmpty < 2 {
		return nil, &EmptyFileError{NonEmptyLines: nonEmpty}
	}

	headerPos := 0
	for strings.TrimSpace(lines[headerPos]) == "" {
		headerPos++
	}

	header := splitCells(lines[headerPos])
	cols, missing := ResolveColumns(header, profile.Fields)
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Fields: missing}
	}

	parsed := &ParsedFile{
		Header:     header,
		HeaderLine: headerPos + 1,
		Columns:    cols,
		Rows:       make([]RawRow, 0, nonEmpty-1),
	}

	for i := headerPos + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		parsed.Rows = append(parsed.Rows, RawRow{
			Line:  i + 1,
			Cells: splitCells(lines[i]),
		})
	}

	return parsed, nil
}

func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD so a stray
// Latin-1 byte cannot break header matching.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.Write(data[:size])
		}
		data = data[size:]
	}

	return buf.Bytes()
}
