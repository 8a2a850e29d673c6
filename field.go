package encodium

import "fmt"

// Kind is the closed set of field type discriminators. checkType compares
// against the tag, never against type-name strings.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindBytes
	KindString
	KindList
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "invalid"
	}
}

// Opts carries the per-field options. Only the options relevant to the
// field's kind are consulted.
type Opts struct {
	Optional bool
	// Default is applied when no value is provided. A func() any default is
	// invoked lazily at each construction.
	Default any
	// MaxLength bounds string length in bytes; zero means unbounded.
	MaxLength int
	// Unsigned selects the unsigned wire encoding for integers. Signed is
	// the default.
	Unsigned bool
	// NonNegative rejects negative integers at validation time.
	NonNegative bool
}

// FieldSpec is the declared metadata for one schema field. Immutable once
// registered.
type FieldSpec struct {
	Name string
	Kind Kind
	Opts Opts

	// Elem is the element spec for KindList.
	Elem *FieldSpec
	// SchemaRef names the nested schema for KindRecord, resolved lazily
	// through the owning registry.
	SchemaRef string

	seq int       // declaration order, assigned at registration
	reg *Registry // owning registry, set at registration
}

// Seq reports the field's position in declaration order.
func (f *FieldSpec) Seq() int { return f.seq }

func Bool(name string, opts Opts) FieldSpec {
	return FieldSpec{Name: name, Kind: KindBool, Opts: opts}
}

func Int(name string, opts Opts) FieldSpec {
	return FieldSpec{Name: name, Kind: KindInt, Opts: opts}
}

func Bytes(name string, opts Opts) FieldSpec {
	return FieldSpec{Name: name, Kind: KindBytes, Opts: opts}
}

func String(name string, opts Opts) FieldSpec {
	return FieldSpec{Name: name, Kind: KindString, Opts: opts}
}

// List declares a homogeneous list field. elem is the spec for every element;
// its Name is ignored.
func List(name string, elem FieldSpec, opts Opts) FieldSpec {
	e := elem
	return FieldSpec{Name: name, Kind: KindList, Elem: &e, Opts: opts}
}

// Rec declares a nested record field referencing schemaName. The reference
// may point at the enclosing schema itself or at one registered later; it is
// resolved at first use.
func Rec(name, schemaName string, opts Opts) FieldSpec {
	return FieldSpec{Name: name, Kind: KindRecord, SchemaRef: schemaName, Opts: opts}
}

// nested resolves the referenced schema for KindRecord fields.
func (f *FieldSpec) nested() (*Schema, error) {
	return f.reg.Resolve(f.SchemaRef)
}

// checkType verifies the runtime value against the declared kind. v is never
// nil here; absence is handled by checkOptional.
func (f *FieldSpec) checkType(v any) error {
	switch f.Kind {
	case KindBool:
		if _, ok := v.(bool); ok {
			return nil
		}
	case KindInt:
		if _, ok := v.(int64); ok {
			return nil
		}
	case KindBytes:
		if _, ok := v.([]byte); ok {
			return nil
		}
	case KindString:
		if _, ok := v.(string); ok {
			return nil
		}
	case KindList:
		l, ok := v.([]any)
		if !ok {
			break
		}
		for i, el := range l {
			if el == nil {
				return prefixPath(ErrMissingValue, elemSeg(i))
			}
			if err := f.Elem.checkType(el); err != nil {
				return prefixPath(err, elemSeg(i))
			}
		}
		return nil
	case KindRecord:
		r, ok := v.(*Record)
		if !ok {
			break
		}
		want, err := f.nested()
		if err != nil {
			return err
		}
		if r.schema != want {
			return fmt.Errorf("%w: record of schema %q, want %q", ErrTypeMismatch, r.schema.name, want.name)
		}
		return nil
	}
	return fmt.Errorf("%w: got %T, want %s", ErrTypeMismatch, v, f.Kind)
}

// checkConstraints runs the kind-specific rules. Values of the wrong dynamic
// type fall through untouched; checkType reports those.
func (f *FieldSpec) checkConstraints(v any) error {
	switch f.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil
		}
		if f.Opts.MaxLength > 0 && len(s) > f.Opts.MaxLength {
			return fmt.Errorf("%w: %d > max %d", ErrTooLong, len(s), f.Opts.MaxLength)
		}
	case KindInt:
		n, ok := v.(int64)
		if !ok {
			return nil
		}
		if (f.Opts.NonNegative || f.Opts.Unsigned) && n < 0 {
			return ErrNegative
		}
	case KindList:
		l, ok := v.([]any)
		if !ok {
			return nil
		}
		for i, el := range l {
			if err := f.Elem.checkConstraints(el); err != nil {
				return prefixPath(err, elemSeg(i))
			}
		}
	}
	return nil
}

// normalize coerces convertible inputs to the canonical runtime type for the
// kind: every Go integer type becomes int64, typed nils become absent.
func (f *FieldSpec) normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint:
		return normUint(uint64(val))
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		return normUint(val)
	case *Record:
		if val == nil {
			return nil, nil
		}
	case []byte:
		if val == nil && f.Kind == KindBytes {
			return nil, nil
		}
	case []any:
		if f.Kind != KindList {
			break
		}
		if val == nil {
			return nil, nil
		}
		out := make([]any, len(val))
		for i, el := range val {
			ne, err := f.Elem.normalize(el)
			if err != nil {
				return nil, prefixPath(err, elemSeg(i))
			}
			out[i] = ne
		}
		return out, nil
	}
	return v, nil
}

func normUint(u uint64) (any, error) {
	if u > 1<<63-1 {
		return nil, ErrIntRange
	}
	return int64(u), nil
}
