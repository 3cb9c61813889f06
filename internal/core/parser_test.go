package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Parse Tests
// ============================================================================

func TestParse_Basic(t *testing.T) {
	data := "full_name,email,phone,grade\nJuan Pérez,juan@x.com,3001234567,6A\n"

	parsed, err := Parse([]byte(data), studentsFixture())
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)

	assert.Equal(t, 2, parsed.Rows[0].Line)
	assert.Equal(t, 1, parsed.HeaderLine)
	assert.Equal(t, 2, parsed.Columns["phone"])
	assert.NotContains(t, parsed.Columns, "date_of_birth", "optional field without a column should not be mapped")
}

func TestParse_EmptyFile(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		nonEmpty int
	}{
		{"no content", "", 0},
		{"only whitespace", "  \n\n \r\n", 0},
		{"header only", "full_name,phone\n", 1},
		{"header and blank lines", "full_name,phone\n\n  \n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), studentsFixture())
			require.ErrorIs(t, err, ErrEmptyFile)

			var empty *EmptyFileError
			require.ErrorAs(t, err, &empty)
			assert.Equal(t, tt.nonEmpty, empty.NonEmptyLines)
		})
	}
}

func TestParse_MissingColumns(t *testing.T) {
	data := "full_name,email,grade\nJuan Pérez,juan@x.com,6A\n"

	parsed, err := Parse([]byte(data), studentsFixture())
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Nil(t, parsed, "no rows should be returned on a structural error")

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"phone"}, missing.Fields)
	assert.Contains(t, err.Error(), "phone")
}

func TestParse_MissingColumnsInFieldOrder(t *testing.T) {
	_, err := Parse([]byte("email\nx@y.com\n"), studentsFixture())

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"full_name", "phone"}, missing.Fields)
}

func TestParse_LineNumbersArePhysical(t *testing.T) {
	data := "full_name,phone\nAna,3001234567\n\nLuis,3007654321\n   \nEva,3009998877\n\n\n"

	parsed, err := Parse([]byte(data), studentsFixture())
	require.NoError(t, err)

	lines := make([]int, len(parsed.Rows))
	for i, row := range parsed.Rows {
		lines[i] = row.Line
	}
	assert.Equal(t, []int{2, 4, 6}, lines)
}

func TestParse_LeadingBlankLines(t *testing.T) {
	data := "\n\nfull_name,phone\nAna,3001234567\n"

	parsed, err := Parse([]byte(data), studentsFixture())
	require.NoError(t, err)

	assert.Equal(t, 3, parsed.HeaderLine)
	assert.Equal(t, 4, parsed.Rows[0].Line)
}

func TestParse_BOMAndCRLF(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Full Name,Teléfono\r\nAna Gómez , 300 123 4567 \r\n")...)

	parsed, err := Parse(data, studentsFixture())
	require.NoError(t, err)

	assert.Equal(t, 0, parsed.Columns["full_name"])
	assert.Equal(t, 1, parsed.Columns["phone"])
	assert.Equal(t, []string{"Ana Gómez", "300 123 4567"}, parsed.Rows[0].Cells)
}

func TestParse_ShortRowsKeepTheirCells(t *testing.T) {
	data := "full_name,email,phone\nAna\n"

	parsed, err := Parse([]byte(data), studentsFixture())
	require.NoError(t, err)
	assert.Len(t, parsed.Rows[0].Cells, 1)
}

func TestParse_QuotesAreLiteral(t *testing.T) {
	data := "full_name,phone\n\"Juan \"JP\" Pérez\",3001234567\n"

	parsed, err := Parse([]byte(data), studentsFixture())
	require.NoError(t, err)
	assert.Equal(t, `"Juan "JP" Pérez"`, parsed.Rows[0].Cells[0])
}

// ============================================================================
// sanitizeUTF8 Tests
// ============================================================================

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"valid UTF-8 unchanged", []byte("hello world"), "hello world"},
		{"empty input", []byte{}, ""},
		{"accented text preserved", []byte("Teléfono"), "Teléfono"},
		{"invalid byte replaced with replacement char", []byte{0x80}, "\uFFFD"},
		{"truncated multibyte sequence", []byte{0xc3}, "\uFFFD"},
		{"latin-1 accent inside a header", []byte("Tel\xe9fono,name"), "Tel\uFFFDfono,name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(sanitizeUTF8(tt.input)))
		})
	}
}

func TestParse_InvalidUTF8DoesNotBreakOtherColumns(t *testing.T) {
	data := []byte("full_name,phone,Not\xe9s\nAna,3001234567,x\n")

	parsed, err := Parse(data, studentsFixture())
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.Columns["phone"])
}
