// Package schemafile loads schema declarations from YAML or TOML files into
// an encodium registry, so record layouts can live next to the rest of a
// program's configuration.
//
// A file declares one or more schemas:
//
//	schemas:
//	  - name: Person
//	    fields:
//	      - name: age
//	        kind: int
//	        non_negative: true
//	      - name: name
//	        kind: string
//	        max_length: 50
//	      - name: diabetic
//	        kind: bool
//	        default: true
//	      - name: parent
//	        kind: record
//	        schema: Person
//	        optional: true
//
// Kinds are bool, int, bytes, string, list and record. List fields declare
// their element under elem; record fields name the referenced schema under
// schema. Because references resolve lazily, declaration order inside the
// file does not matter.
package schemafile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/encodium"
)

// File is the top-level declaration document.
type File struct {
	Schemas []SchemaDef `yaml:"schemas" toml:"schemas"`
}

// SchemaDef declares one record type.
type SchemaDef struct {
	Name   string     `yaml:"name" toml:"name"`
	Fields []FieldDef `yaml:"fields" toml:"fields"`
}

// FieldDef declares one field. Only the options matching the kind are used.
type FieldDef struct {
	Name        string    `yaml:"name" toml:"name"`
	Kind        string    `yaml:"kind" toml:"kind"`
	Optional    bool      `yaml:"optional" toml:"optional"`
	Default     any       `yaml:"default" toml:"default"`
	MaxLength   int       `yaml:"max_length" toml:"max_length"`
	Unsigned    bool      `yaml:"unsigned" toml:"unsigned"`
	NonNegative bool      `yaml:"non_negative" toml:"non_negative"`
	Elem        *FieldDef `yaml:"elem" toml:"elem"`
	Schema      string    `yaml:"schema" toml:"schema"`
}

// LoadFile reads path and registers its schemas, picking the format from the
// file extension (.toml is TOML, everything else YAML).
func LoadFile(path string, reg *encodium.Registry) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadTOML(f, reg)
	}
	return Load(f, reg)
}

// Load reads YAML declarations from r and registers them.
func Load(r io.Reader, reg *encodium.Registry) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse schema file: %w", err)
	}
	return registerAll(&file, reg)
}

// LoadTOML reads TOML declarations from r and registers them.
func LoadTOML(r io.Reader, reg *encodium.Registry) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse schema file: %w", err)
	}
	return registerAll(&file, reg)
}

func registerAll(file *File, reg *encodium.Registry) error {
	if len(file.Schemas) == 0 {
		return fmt.Errorf("schema file declares no schemas")
	}
	for _, def := range file.Schemas {
		fields := make([]encodium.FieldSpec, 0, len(def.Fields))
		for _, fd := range def.Fields {
			spec, err := buildField(&fd, true)
			if err != nil {
				return fmt.Errorf("schema %q: %w", def.Name, err)
			}
			fields = append(fields, spec)
		}
		if _, err := reg.Register(def.Name, fields...); err != nil {
			return err
		}
	}
	return nil
}

func buildField(fd *FieldDef, named bool) (encodium.FieldSpec, error) {
	if named && fd.Name == "" {
		return encodium.FieldSpec{}, fmt.Errorf("field with no name")
	}
	opts := encodium.Opts{
		Optional:    fd.Optional,
		Default:     fd.Default,
		MaxLength:   fd.MaxLength,
		Unsigned:    fd.Unsigned,
		NonNegative: fd.NonNegative,
	}
	switch strings.ToLower(fd.Kind) {
	case "bool":
		return encodium.Bool(fd.Name, opts), nil
	case "int":
		return encodium.Int(fd.Name, opts), nil
	case "bytes":
		return encodium.Bytes(fd.Name, opts), nil
	case "string":
		return encodium.String(fd.Name, opts), nil
	case "list":
		if fd.Elem == nil {
			return encodium.FieldSpec{}, fmt.Errorf("field %q: list without elem", fd.Name)
		}
		elem, err := buildField(fd.Elem, false)
		if err != nil {
			return encodium.FieldSpec{}, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		return encodium.List(fd.Name, elem, opts), nil
	case "record":
		if fd.Schema == "" {
			return encodium.FieldSpec{}, fmt.Errorf("field %q: record without schema", fd.Name)
		}
		return encodium.Rec(fd.Name, fd.Schema, opts), nil
	default:
		return encodium.FieldSpec{}, fmt.Errorf("field %q: unknown kind %q", fd.Name, fd.Kind)
	}
}
