package encodium

import "fmt"

// CheckFunc is a user-supplied cross-field check. It runs after every field
// of the record passed its own checks; assigned lists the field names set in
// the triggering call, letting the check skip work for untouched fields.
type CheckFunc func(r *Record, assigned []string) error

// Schema is the ordered field layout of one record type. Built during
// registration, immutable afterwards.
type Schema struct {
	name   string
	fields []FieldSpec
	byName map[string]int
	check  CheckFunc
	reg    *Registry
}

func (s *Schema) Name() string { return s.name }

// Fields returns the field specs in declaration order. The slice is shared;
// callers must not modify it.
func (s *Schema) Fields() []FieldSpec { return s.fields }

// Field looks up a spec by name.
func (s *Schema) Field(name string) (*FieldSpec, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.fields[i], true
}

// SetCheck installs the cross-field check. Registration phase only; calling
// it after the registry froze panics, like registering late would fail.
func (s *Schema) SetCheck(fn CheckFunc) *Schema {
	if s.reg.frozen {
		panic("encodium: SetCheck after Freeze")
	}
	s.check = fn
	return s
}

// Registry maps schema names to schemas. Populate it single-threaded during
// startup, call Freeze, then share it freely: all reads after Freeze are
// lock-free and safe.
type Registry struct {
	schemas map[string]*Schema
	frozen  bool
}

func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register declares a record type. Field order is the argument order; each
// spec gets an explicit sequence number so ordering never depends on map
// iteration. Duplicate schema or field names are rejected.
func (r *Registry) Register(name string, fields ...FieldSpec) (*Schema, error) {
	if r.frozen {
		return nil, ErrFrozen
	}
	if name == "" {
		return nil, fmt.Errorf("empty schema name")
	}
	if _, ok := r.schemas[name]; ok {
		return nil, fmt.Errorf("schema %q already registered", name)
	}
	s := &Schema{
		name:   name,
		fields: make([]FieldSpec, 0, len(fields)),
		byName: make(map[string]int, len(fields)),
		reg:    r,
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %q: field %d has no name", name, i)
		}
		if f.Kind == KindInvalid {
			return nil, fmt.Errorf("schema %q: field %q has no kind", name, f.Name)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, fmt.Errorf("schema %q: duplicate field %q", name, f.Name)
		}
		f.seq = i
		wireField(&f, r)
		s.byName[f.Name] = i
		s.fields = append(s.fields, f)
	}
	r.schemas[name] = s
	return s, nil
}

// MustRegister is Register for the startup phase, panicking on declaration
// mistakes.
func (r *Registry) MustRegister(name string, fields ...FieldSpec) *Schema {
	s, err := r.Register(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Resolve returns the schema registered under name. Named references inside
// field specs go through here at first use, which is what lets a schema
// reference itself or one registered later.
func (r *Registry) Resolve(name string) (*Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return s, nil
}

// Freeze ends the registration phase. After Freeze the registry is read-only.
func (r *Registry) Freeze() { r.frozen = true }

// wireField stamps the owning registry onto a spec and its nested element
// specs so named references can resolve later.
func wireField(f *FieldSpec, r *Registry) {
	f.reg = r
	if f.Elem != nil {
		wireField(f.Elem, r)
	}
}
