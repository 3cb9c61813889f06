package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	registerFixtures(t)

	assert.Equal(t, 2, ProfileCount())

	p, ok := Get("roster")
	require.True(t, ok)
	assert.Equal(t, "Roster and fees", p.Label)

	f, ok := p.Field("monthly_fee")
	require.True(t, ok)
	assert.Equal(t, "monthly_fee", f.Aliases[0], "canonical name is added as an alias")

	_, ok = Get("coaches")
	assert.False(t, ok)
}

func TestRegister_DoesNotDuplicateCanonicalAlias(t *testing.T) {
	registerFixtures(t)

	p, _ := Get("roster")
	f, _ := p.Field("name")
	assert.Equal(t, []string{"name", "nombre"}, f.Aliases)
}

func TestRegister_Panics(t *testing.T) {
	registerFixtures(t)

	assert.Panics(t, func() { Register(rosterFixture()) }, "duplicate key")

	assert.Panics(t, func() {
		Register(Profile{Key: "dup", Fields: []FieldSpec{{Name: "a"}, {Name: "a"}}})
	}, "duplicate field")
}

func TestAll_SortedByKey(t *testing.T) {
	registerFixtures(t)
	Register(Profile{Key: "coaches"})

	var keys []string
	for _, p := range All() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"coaches", "roster", "students"}, keys)
}
