package schemafile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/encodium"
)

const personYAML = `
schemas:
  - name: Person
    fields:
      - name: age
        kind: int
        non_negative: true
      - name: name
        kind: string
        max_length: 50
      - name: diabetic
        kind: bool
        default: true
      - name: tags
        kind: list
        optional: true
        elem:
          kind: string
          max_length: 8
      - name: parent
        kind: record
        schema: Person
        optional: true
`

func TestLoadYAML(t *testing.T) {
	reg := encodium.NewRegistry()
	require.NoError(t, Load(strings.NewReader(personYAML), reg))
	reg.Freeze()

	person, err := reg.Resolve("Person")
	require.NoError(t, err)

	var names []string
	for _, f := range person.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"age", "name", "diabetic", "tags", "parent"}, names)

	parent := person.MustNew(map[string]any{"age": 52, "name": "Ada"})
	r, err := person.New(map[string]any{
		"age":    25,
		"name":   "John",
		"tags":   []any{"short"},
		"parent": parent,
	})
	require.NoError(t, err)
	assert.True(t, r.Bool("diabetic"), "default from file applies")

	data, err := r.Encode()
	require.NoError(t, err)
	back, err := person.Decode(data)
	require.NoError(t, err)
	assert.True(t, r.Equal(back))

	_, err = person.New(map[string]any{"age": -3, "name": "x"})
	require.ErrorIs(t, err, encodium.ErrNegative)

	_, err = person.New(map[string]any{"age": 1, "name": "x", "tags": []any{"far too long"}})
	require.ErrorIs(t, err, encodium.ErrTooLong)
}

const personTOML = `
[[schemas]]
name = "Person"

[[schemas.fields]]
name = "age"
kind = "int"
non_negative = true

[[schemas.fields]]
name = "name"
kind = "string"
max_length = 50
`

func TestLoadTOML(t *testing.T) {
	reg := encodium.NewRegistry()
	require.NoError(t, LoadTOML(strings.NewReader(personTOML), reg))
	reg.Freeze()

	person, err := reg.Resolve("Person")
	require.NoError(t, err)
	_, err = person.New(map[string]any{"age": 25, "name": "John"})
	require.NoError(t, err)
}

func TestLoadFilePicksFormat(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "schemas.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(personYAML), 0o644))
	reg := encodium.NewRegistry()
	require.NoError(t, LoadFile(yamlPath, reg))

	tomlPath := filepath.Join(dir, "schemas.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(personTOML), 0o644))
	reg2 := encodium.NewRegistry()
	require.NoError(t, LoadFile(tomlPath, reg2))
}

func TestLoadRejectsBadDeclarations(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"no schemas", `{}`},
		{"unknown kind", `
schemas:
  - name: A
    fields:
      - {name: v, kind: float}
`},
		{"list without elem", `
schemas:
  - name: A
    fields:
      - {name: v, kind: list}
`},
		{"record without schema", `
schemas:
  - name: A
    fields:
      - {name: v, kind: record}
`},
		{"field without name", `
schemas:
  - name: A
    fields:
      - {kind: int}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := encodium.NewRegistry()
			require.Error(t, Load(strings.NewReader(tc.src), reg))
		})
	}
}
