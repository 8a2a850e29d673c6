package encodium

import "bytes"

// Record is one validated instance of a schema. If a Record exists, every
// non-optional field holds a value that passed its spec's checks and the
// schema's cross-field check held. Records are not safe for concurrent
// mutation.
type Record struct {
	schema *Schema
	values []any // indexed by field seq; nil means absent
}

func (r *Record) Schema() *Schema { return r.schema }

// New constructs a record, validating every field in declaration order.
// Missing entries get the field's default (factories are invoked per call).
// The first failing field aborts construction; its name is prepended to the
// error path. After all fields are set the cross-field check, if any, runs
// exactly once with the names that ended up holding a value.
func (s *Schema) New(values map[string]any) (*Record, error) {
	for name := range values {
		if _, ok := s.byName[name]; !ok {
			return nil, prefixPath(ErrUnknownField, name)
		}
	}
	r := &Record{schema: s, values: make([]any, len(s.fields))}
	var assigned []string
	for i := range s.fields {
		f := &s.fields[i]
		v, err := f.validate(values[f.Name])
		if err != nil {
			return nil, prefixPath(err, f.Name)
		}
		r.values[i] = v
		if v != nil {
			assigned = append(assigned, f.Name)
		}
	}
	if s.check != nil {
		if err := s.check(r, assigned); err != nil {
			return nil, asValidation(err)
		}
	}
	return r, nil
}

// MustNew is New for values known valid at startup; it panics on failure.
func (s *Schema) MustNew(values map[string]any) *Record {
	r, err := s.New(values)
	if err != nil {
		panic(err)
	}
	return r
}

// validate runs the per-field pipeline: normalize, default, optionality,
// constraints, type. Returns the canonical value (nil for absent).
func (f *FieldSpec) validate(v any) (any, error) {
	v, err := f.normalize(v)
	if err != nil {
		return nil, err
	}
	if v == nil && f.Opts.Default != nil {
		d := f.Opts.Default
		if fn, ok := d.(func() any); ok {
			d = fn()
		}
		if v, err = f.normalize(d); err != nil {
			return nil, err
		}
	}
	if v == nil {
		if !f.Opts.Optional {
			return nil, ErrMissingValue
		}
		return nil, nil
	}
	if err := f.checkConstraints(v); err != nil {
		return nil, err
	}
	if err := f.checkType(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Set mutates one field through the same validation pipeline used at
// construction, then re-runs the cross-field check with just this field
// marked assigned. On any failure the previous value is kept.
func (r *Record) Set(name string, v any) error {
	i, ok := r.schema.byName[name]
	if !ok {
		return prefixPath(ErrUnknownField, name)
	}
	f := &r.schema.fields[i]
	nv, err := f.validate(v)
	if err != nil {
		return prefixPath(err, name)
	}
	old := r.values[i]
	r.values[i] = nv
	if r.schema.check != nil {
		if err := r.schema.check(r, []string{name}); err != nil {
			r.values[i] = old
			return asValidation(err)
		}
	}
	return nil
}

// Get returns the field's value, or nil if the field is absent or unknown.
func (r *Record) Get(name string) any {
	if i, ok := r.schema.byName[name]; ok {
		return r.values[i]
	}
	return nil
}

// Has reports whether the field holds a value.
func (r *Record) Has(name string) bool { return r.Get(name) != nil }

// Typed accessors. Each returns the zero value when the field is absent or
// of another kind.

func (r *Record) Bool(name string) bool {
	v, _ := r.Get(name).(bool)
	return v
}

func (r *Record) Int(name string) int64 {
	v, _ := r.Get(name).(int64)
	return v
}

func (r *Record) Str(name string) string {
	v, _ := r.Get(name).(string)
	return v
}

func (r *Record) Bytes(name string) []byte {
	v, _ := r.Get(name).([]byte)
	return v
}

func (r *Record) List(name string) []any {
	v, _ := r.Get(name).([]any)
	return v
}

func (r *Record) Nested(name string) *Record {
	v, _ := r.Get(name).(*Record)
	return v
}

// Equal reports whether both records share the same schema and every field
// value compares equal, recursing into lists and nested records.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.schema != o.schema {
		return false
	}
	for i := range r.values {
		if !valueEqual(r.values[i], o.values[i]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Record:
		bv, ok := b.(*Record)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}

// asValidation wraps cross-field check failures so callers can errors.As
// them uniformly.
func asValidation(err error) error {
	if _, ok := err.(*ValidationError); ok {
		return err
	}
	return &ValidationError{Err: err}
}
