package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"phone", "phone"},
		{"  PHONE  ", "phone"},
		{"Teléfono", "telefono"},
		{"TELÉFONO", "telefono"},
		{"full_name", "full name"},
		{"Date-of.Birth", "date of birth"},
		{"nombre   completo", "nombre completo"},
		{"Género", "genero"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FoldHeader(tt.in), "FoldHeader(%q)", tt.in)
	}
}

func TestResolveColumns_AliasInsensitive(t *testing.T) {
	fields := studentsFixture().Fields

	for _, variant := range []string{"telefono", "Teléfono", "phone", "TELÉFONO", " Phone ", "Celular"} {
		t.Run(variant, func(t *testing.T) {
			cols, missing := ResolveColumns([]string{"full_name", variant}, fields)
			require.Empty(t, missing)
			assert.Equal(t, 1, cols["phone"])
		})
	}
}

func TestResolveColumns_ExactBeatsContains(t *testing.T) {
	fields := []FieldSpec{
		{Name: "full_name", Required: true, Aliases: []string{"name"}},
		{Name: "parent", Aliases: []string{"parent name"}},
	}

	cols, missing := ResolveColumns([]string{"parent name", "name"}, fields)
	require.Empty(t, missing)
	assert.Equal(t, 1, cols["full_name"])
	assert.Equal(t, 0, cols["parent"])
}

func TestResolveColumns_ContainsFallback(t *testing.T) {
	fields := studentsFixture().Fields

	cols, missing := ResolveColumns([]string{"Nombre del estudiante", "Teléfono celular"}, fields)
	require.Empty(t, missing)
	assert.Equal(t, 0, cols["full_name"])
	assert.Equal(t, 1, cols["phone"])
}

func TestResolveColumns_ColumnClaimedOnce(t *testing.T) {
	fields := []FieldSpec{
		{Name: "phone", Required: true, Aliases: []string{"phone"}},
		{Name: "mobile", Required: true, Aliases: []string{"phone"}},
	}

	cols, missing := ResolveColumns([]string{"phone"}, fields)
	assert.Equal(t, 0, cols["phone"])
	assert.Equal(t, []string{"mobile"}, missing)
}

func TestResolveColumns_IgnoresEmptyHeaders(t *testing.T) {
	fields := []FieldSpec{{Name: "phone", Aliases: []string{"phone"}}}

	cols, missing := ResolveColumns([]string{"", "  ", "phone"}, fields)
	assert.Empty(t, missing)
	assert.Equal(t, 2, cols["phone"])
}

func TestResolveColumns_ProfileAliasesAreAuditable(t *testing.T) {
	// Every alias of a profile must resolve to its own field when used alone.
	for _, p := range []Profile{studentsFixture(), rosterFixture()} {
		for _, f := range p.Fields {
			for _, alias := range f.Aliases {
				cols, _ := ResolveColumns([]string{alias}, p.Fields)
				pos, ok := cols[f.Name]
				assert.True(t, ok && pos == 0, "%s: alias %q should resolve to %s", p.Key, alias, f.Name)
			}
		}
	}
}
