package core

// aliases.go resolves header cells to fields through each FieldSpec's alias
// table.
//
// Headers and aliases are folded the same way before comparison: lower-cased,
// accents removed ("Teléfono" -> "telefono"), and '_', '-', '.' treated as
// spaces. Resolution runs in two passes so an exact spelling always wins over
// a looser one:
//
//  1. Exact: the folded header equals a folded alias.
//  2. Contains: the folded header contains a folded alias ("telefono del
//     acudiente" -> phone).
//
// A column is claimed by at most one field.

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldHeader normalizes a header cell or alias for comparison.
func FoldHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Transformers carry state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.':
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// ResolveColumns maps fields to header positions. It returns the mapping and
// the names of required fields that could not be resolved, in field order.
func ResolveColumns(header []string, fields []FieldSpec) (ColumnMap, []string) {
	folded := make([]string, len(header))
	for i, h := range header {
		folded[i] = FoldHeader(h)
	}

	cols := make(ColumnMap, len(fields))
	claimed := make(map[int]bool, len(header))

	match := func(f FieldSpec, test func(col, alias string) bool) {
		for _, alias := range f.Aliases {
			a := FoldHeader(alias)
			if a == "" {
				continue
			}
			for i, col := range folded {
				if claimed[i] || col == "" {
					continue
				}
				if test(col, a) {
					cols[f.Name] = i
					claimed[i] = true
					return
				}
			}
		}
	}

	for _, f := range fields {
		match(f, func(col, alias string) bool { return col == alias })
	}
	for _, f := range fields {
		if _, ok := cols[f.Name]; ok {
			continue
		}
		match(f, strings.Contains)
	}

	var missing []string
	for _, f := range fields {
		if _, ok := cols[f.Name]; !ok && f.Required {
			missing = append(missing, f.Name)
		}
	}

	return cols, missing
}
