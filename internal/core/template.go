package core

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// cellSeparators are the characters Parse splits on. Cells never carry
// them, so every written line reads back as one row with the same cells.
var cellSeparators = strings.NewReplacer(",", " ", "\r\n", " ", "\n", " ", "\r", " ")

func flattenCell(s string) string {
	return cellSeparators.Replace(s)
}

// writeLine writes cells in the plain comma format Parse reads. Quotes are
// written as-is since Parse does not unquote.
func writeLine(w io.Writer, cells []string) error {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(flattenCell(c))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// TemplateFileName is the download name of a profile's template.
func TemplateFileName(p Profile) string {
	return p.Key + "_template.csv"
}

// WriteTemplate writes the profile's header row followed by its example rows.
func WriteTemplate(w io.Writer, p Profile) error {
	header := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		header[i] = f.Name
	}
	if err := writeLine(w, header); err != nil {
		return fmt.Errorf("write template header: %w", err)
	}
	for _, ex := range p.Example {
		if err := writeLine(w, ex); err != nil {
			return fmt.Errorf("write template example: %w", err)
		}
	}
	return nil
}

// WriteInvalidRows exports rows that failed validation so the user can fix
// them and upload the file again. The _line and _errors columns are ignored
// on re-upload since no field aliases match them.
func WriteInvalidRows(w io.Writer, p Profile, rows []ValidatedRow) error {
	header := make([]string, 0, len(p.Fields)+2)
	header = append(header, "_line", "_errors")
	for _, f := range p.Fields {
		header = append(header, f.Name)
	}
	if err := writeLine(w, header); err != nil {
		return fmt.Errorf("write invalid rows header: %w", err)
	}

	record := make([]string, len(header))
	for _, r := range rows {
		if r.Valid {
			continue
		}
		record[0] = strconv.Itoa(r.Line)
		record[1] = strings.Join(r.Errors, "; ")
		for i, f := range p.Fields {
			record[i+2] = r.Value(f.Name)
		}
		if err := writeLine(w, record); err != nil {
			return fmt.Errorf("write invalid row %d: %w", r.Line, err)
		}
	}
	return nil
}
