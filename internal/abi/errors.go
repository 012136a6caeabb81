package abi

import "github.com/pkg/errors"

// Error categories. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrParse reports malformed signature or type text.
	ErrParse = errors.New("abi: parse error")
	// ErrTypeMismatch reports a value whose shape does not fit the ABI type.
	ErrTypeMismatch = errors.New("abi: type mismatch")
	// ErrRange reports a numeric value that does not fit the type's bit width.
	ErrRange = errors.New("abi: value out of range")
	// ErrValidation reports a malformed address or failed checksum.
	ErrValidation = errors.New("abi: validation failed")
	// ErrMalformedData reports an offset or length outside the input buffer.
	ErrMalformedData = errors.New("abi: malformed data")
)

func parseErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrParse, format, args...)
}

func typeMismatch(t *Type, v interface{}) error {
	return errors.Wrapf(ErrTypeMismatch, "cannot use %T as %s", v, t)
}

func malformedf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedData, format, args...)
}

var categories = []struct {
	err  error
	name string
}{
	{ErrParse, "parse"},
	{ErrTypeMismatch, "type_mismatch"},
	{ErrRange, "range"},
	{ErrValidation, "validation"},
	{ErrMalformedData, "malformed_data"},
}

// Category names the error class err belongs to, or "" for nil and for
// errors from outside this package.
func Category(err error) string {
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.name
		}
	}
	return ""
}
