package core

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FlattenXLSX renders the first sheet of a workbook as comma-separated
// text so it can go through Parse like any uploaded CSV. Each sheet row
// becomes exactly one line; commas and line breaks inside cells become
// spaces.
func FlattenXLSX(r io.Reader) ([]byte, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w: %w", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("read xlsx: %w: workbook has no sheets", ErrUnreadableFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w: sheet %q: %w", ErrUnreadableFile, sheets[0], err)
	}

	var buf bytes.Buffer
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(flattenCell(cell))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// ReadUpload returns the CSV text for an uploaded file, converting
// spreadsheets by extension. Files without an extension are treated as CSV.
func ReadUpload(fileName string, data []byte) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case "", ".csv", ".txt":
		return data, nil
	case ".xlsx":
		return FlattenXLSX(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}
