package encodium

import (
	"errors"
	"fmt"

	"github.com/rawbytedev/encodium/internal/common"
	"github.com/rawbytedev/encodium/pkg/varlen"
)

// Wire value: format marker, then one chunk per field in declaration order.
// Chunk: single 0x00 for an absent field, else varlen(len(payload)) + payload.
// Payloads per kind:
//
//	bool    0x01 true / 0x00 false
//	int     minimal big-endian, two's-complement when signed
//	bytes   presence 0x01 + raw bytes
//	string  presence 0x01 + UTF-8 bytes
//	list    presence 0x01 + one chunk per element
//	record  nested wire value (marker + chunks)
//
// The presence byte keeps every present payload at least one byte long, so
// empty strings and byte slices stay distinct from absent fields.
const formatMarker = 0x01

const presenceByte = 0x01

// Encoder serializes records, reusing its output buffer across calls. Not
// safe for concurrent use; the returned slice is valid until the next call.
type Encoder struct {
	buf []byte
}

// Encode serializes r into the wire format.
func (e *Encoder) Encode(r *Record) ([]byte, error) {
	e.buf = e.buf[:0]
	out, err := appendRecord(e.buf, r)
	if err != nil {
		return nil, err
	}
	e.buf = out
	return out, nil
}

// Encode serializes r with a one-shot encoder. The result is a fresh slice.
func Encode(r *Record) ([]byte, error) {
	return appendRecord(nil, r)
}

// Encode serializes the record. Serialization of a valid record is
// deterministic: the same instance always yields identical bytes.
func (r *Record) Encode() ([]byte, error) { return Encode(r) }

func appendRecord(dst []byte, r *Record) ([]byte, error) {
	dst = append(dst, formatMarker)
	for i := range r.schema.fields {
		f := &r.schema.fields[i]
		v := r.values[i]
		if v == nil {
			dst = append(dst, 0x00)
			continue
		}
		payload, err := appendPayload(nil, f, v)
		if err != nil {
			return nil, prefixPath(err, f.Name)
		}
		if dst, err = varlen.Append(dst, len(payload)); err != nil {
			return nil, prefixPath(err, f.Name)
		}
		dst = append(dst, payload...)
	}
	return dst, nil
}

func appendPayload(dst []byte, f *FieldSpec, v any) ([]byte, error) {
	switch f.Kind {
	case KindBool:
		if v.(bool) {
			return append(dst, 0x01), nil
		}
		return append(dst, 0x00), nil
	case KindInt:
		return common.AppendInt(dst, v.(int64), !f.Opts.Unsigned), nil
	case KindBytes:
		return append(append(dst, presenceByte), v.([]byte)...), nil
	case KindString:
		return append(append(dst, presenceByte), v.(string)...), nil
	case KindList:
		dst = append(dst, presenceByte)
		for i, el := range v.([]any) {
			if el == nil {
				dst = append(dst, 0x00)
				continue
			}
			payload, err := appendPayload(nil, f.Elem, el)
			if err != nil {
				return nil, prefixPath(err, elemSeg(i))
			}
			if dst, err = varlen.Append(dst, len(payload)); err != nil {
				return nil, prefixPath(err, elemSeg(i))
			}
			dst = append(dst, payload...)
		}
		return dst, nil
	case KindRecord:
		return appendRecord(dst, v.(*Record))
	default:
		return nil, fmt.Errorf("%w: cannot encode kind %s", ErrFormat, f.Kind)
	}
}

// DecodeOptions tunes deserialization. By default bytes values alias the
// input buffer; set CopyBytes when the buffer will be reused.
type DecodeOptions struct {
	CopyBytes bool
}

// Decode parses a wire value against the schema and constructs a validated
// record from it, so a decoded record satisfies the same invariants as a
// constructed one.
func (s *Schema) Decode(data []byte) (*Record, error) {
	return s.DecodeOpts(data, DecodeOptions{})
}

// DecodeOpts is Decode with explicit options.
func (s *Schema) DecodeOpts(data []byte, opts DecodeOptions) (*Record, error) {
	chunks, err := splitChunks(data)
	if err != nil {
		return nil, err
	}
	if len(chunks) > len(s.fields) {
		return nil, fmt.Errorf("%w: %d chunks for %d fields of %q",
			ErrChunkCount, len(chunks), len(s.fields), s.name)
	}
	values := make(map[string]any, len(chunks))
	for i, chunk := range chunks {
		if chunk == nil {
			continue
		}
		f := &s.fields[i]
		v, err := decodePayload(f, chunk, opts)
		if err != nil {
			return nil, prefixPath(err, f.Name)
		}
		values[f.Name] = v
	}
	return s.New(values)
}

// splitChunks checks the format marker and slices data into per-field chunks.
// A zero-length chunk comes back as nil, denoting absence. Every slice bound
// is checked so truncated input fails instead of reading past the buffer.
func splitChunks(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, ErrTruncated
	}
	if data[0] != formatMarker {
		return nil, fmt.Errorf("%w: format marker 0x%02x", ErrFormat, data[0])
	}
	var chunks [][]byte
	cursor := 1
	for cursor < len(data) {
		n, consumed, err := varlen.Decode(data[cursor:])
		if err != nil {
			if errors.Is(err, varlen.ErrTruncated) {
				return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		cursor += consumed
		if cursor+n > len(data) {
			return nil, fmt.Errorf("%w: chunk of %d bytes with %d remaining",
				ErrTruncated, n, len(data)-cursor)
		}
		if n == 0 {
			chunks = append(chunks, nil)
		} else {
			chunks = append(chunks, data[cursor:cursor+n])
		}
		cursor += n
	}
	return chunks, nil
}

func decodePayload(f *FieldSpec, payload []byte, opts DecodeOptions) (any, error) {
	switch f.Kind {
	case KindBool:
		if len(payload) != 1 {
			return nil, fmt.Errorf("%w: bool payload of %d bytes", ErrFormat, len(payload))
		}
		return payload[0] == 0x01, nil
	case KindInt:
		v, err := common.DecodeInt(payload, !f.Opts.Unsigned)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIntRange, err)
		}
		return v, nil
	case KindBytes:
		raw, err := stripPresence(payload)
		if err != nil {
			return nil, err
		}
		if opts.CopyBytes {
			raw = append([]byte(nil), raw...)
		}
		return raw, nil
	case KindString:
		raw, err := stripPresence(payload)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	case KindList:
		raw, err := stripPresence(payload)
		if err != nil {
			return nil, err
		}
		var list []any
		cursor := 0
		for cursor < len(raw) {
			n, consumed, err := varlen.Decode(raw[cursor:])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
			}
			cursor += consumed
			if cursor+n > len(raw) {
				return nil, fmt.Errorf("%w: list chunk of %d bytes with %d remaining",
					ErrTruncated, n, len(raw)-cursor)
			}
			if n == 0 {
				list = append(list, nil)
			} else {
				el, err := decodePayload(f.Elem, raw[cursor:cursor+n], opts)
				if err != nil {
					return nil, prefixPath(err, elemSeg(len(list)))
				}
				list = append(list, el)
			}
			cursor += n
		}
		if list == nil {
			list = []any{}
		}
		return list, nil
	case KindRecord:
		nested, err := f.nested()
		if err != nil {
			return nil, err
		}
		return nested.DecodeOpts(payload, opts)
	default:
		return nil, fmt.Errorf("%w: cannot decode kind %s", ErrFormat, f.Kind)
	}
}

func stripPresence(payload []byte) ([]byte, error) {
	if len(payload) == 0 || payload[0] != presenceByte {
		return nil, fmt.Errorf("%w: missing presence byte", ErrFormat)
	}
	return payload[1:], nil
}
