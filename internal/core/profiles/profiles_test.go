package profiles

import (
	"bytes"
	"testing"

	"github.com/JonMunkholm/rosterimport/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilesRegistered(t *testing.T) {
	for _, key := range []string{"students", "roster"} {
		p, ok := core.Get(key)
		require.True(t, ok, key)
		assert.NotEmpty(t, p.Label)
		assert.NotEmpty(t, p.Example)
	}
}

func TestTemplatesValidateCleanly(t *testing.T) {
	for _, p := range core.All() {
		t.Run(p.Key, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, core.WriteTemplate(&buf, p))

			parsed, err := core.Parse(buf.Bytes(), p)
			require.NoError(t, err)

			for _, row := range core.ValidateAll(parsed, p) {
				assert.True(t, row.Valid, "example on line %d: %v", row.Line, row.Errors)
			}
		})
	}
}

func TestAliasesResolveToTheirField(t *testing.T) {
	for _, p := range core.All() {
		for _, f := range p.Fields {
			for _, alias := range f.Aliases {
				cols, _ := core.ResolveColumns([]string{alias}, p.Fields)
				pos, ok := cols[f.Name]
				assert.True(t, ok && pos == 0, "%s: alias %q should resolve to %s", p.Key, alias, f.Name)
			}
		}
	}
}

func TestSpanishHeaders(t *testing.T) {
	tests := []struct {
		profile string
		header  []string
		want    map[string]int
	}{
		{
			profile: "roster",
			header:  []string{"Nombre", "Acudiente", "Teléfono", "Mensualidad"},
			want:    map[string]int{"name": 0, "parent": 1, "phone": 2, "monthly_fee": 3},
		},
		{
			profile: "students",
			header:  []string{"Nombre completo", "Correo", "TELÉFONO", "Teléfono acudiente", "Género"},
			want:    map[string]int{"full_name": 0, "email": 1, "phone": 2, "parent_phone": 3, "gender": 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			p, ok := core.Get(tt.profile)
			require.True(t, ok)

			cols, missing := core.ResolveColumns(tt.header, p.Fields)
			require.Empty(t, missing)
			for field, pos := range tt.want {
				assert.Equal(t, pos, cols[field], field)
			}
		})
	}
}

func TestRosterFeeCeiling(t *testing.T) {
	p, _ := core.Get("roster")
	parsed, err := core.Parse([]byte("name,parent,phone,monthly_fee\nAna Gómez,Luis Gómez,3001234567,15000000\n"), p)
	require.NoError(t, err)

	row := core.ValidateAll(parsed, p)[0]
	require.False(t, row.Valid)
	assert.Contains(t, row.Errors[0], "seems incorrect")
}
