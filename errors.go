package encodium

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingValue  = errors.New("required value is missing")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrConstraint    = errors.New("constraint violated")
	ErrUnknownSchema = errors.New("unknown schema")
	ErrFrozen        = errors.New("registry is frozen")
	ErrUnknownField  = errors.New("unknown field")

	// Constraint refinements; all satisfy errors.Is(err, ErrConstraint).
	ErrTooLong  = fmt.Errorf("%w: too long", ErrConstraint)
	ErrNegative = fmt.Errorf("%w: cannot be negative", ErrConstraint)
	ErrIntRange = fmt.Errorf("%w: integer out of range", ErrConstraint)

	// Wire-level failures.
	ErrFormat     = errors.New("malformed wire data")
	ErrTruncated  = errors.New("truncated wire data")
	ErrChunkCount = errors.New("more chunks than schema fields")
)

// ValidationError annotates a validation failure with the path to the
// offending value. Enclosing frames prepend their field name, list frames an
// element index, so a failure three levels deep reads "outer.items[2]: ...".
type ValidationError struct {
	Path []string
	Err  error
}

func (e *ValidationError) Error() string {
	if len(e.Path) == 0 {
		return e.Err.Error()
	}
	var b strings.Builder
	for i, seg := range e.Path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// prefixPath wraps err in a ValidationError (or extends an existing one) with
// seg prepended to the path.
func prefixPath(err error, seg string) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ValidationError{Path: append([]string{seg}, ve.Path...), Err: ve.Err}
	}
	return &ValidationError{Path: []string{seg}, Err: err}
}

func elemSeg(i int) string { return fmt.Sprintf("[%d]", i) }
