package abi

import (
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Encoder turns Go values into ABI encoded bytes. The zero value is not
// usable; construct it with NewEncoder.
type Encoder struct {
	log *zap.Logger
}

// NewEncoder returns an Encoder that reports recoverable input problems, such
// as a bytesN value of the wrong length, to l. A nil logger discards them.
func NewEncoder(l *zap.Logger) *Encoder {
	if l == nil {
		l = zap.NewNop()
	}
	return &Encoder{log: l}
}

// Encode encodes v as a single value of type t, laid out like a one-member
// argument list.
func Encode(t *Type, v interface{}) ([]byte, error) {
	return NewEncoder(zap.L()).Encode(t, v)
}

// EncodeArgs encodes an argument list described by components.
func EncodeArgs(components []Component, args []interface{}) ([]byte, error) {
	return NewEncoder(zap.L()).EncodeArgs(components, args)
}

// EncodeFunctionCall builds calldata for fn.
func EncodeFunctionCall(fn *Function, args ...interface{}) ([]byte, error) {
	return NewEncoder(zap.L()).EncodeFunctionCall(fn, args...)
}

func (e *Encoder) Encode(t *Type, v interface{}) ([]byte, error) {
	seg, err := e.build(t, v)
	if err != nil {
		return nil, err
	}
	r := &region{members: []segment{seg}}
	return r.layout(), nil
}

func (e *Encoder) EncodeArgs(components []Component, args []interface{}) ([]byte, error) {
	t, err := NewTupleType(components)
	if err != nil {
		return nil, err
	}
	if len(args) != len(t.Members) {
		return nil, errors.Wrapf(ErrTypeMismatch, "expected %d arguments, got %d", len(t.Members), len(args))
	}
	r, err := e.members(t, args)
	if err != nil {
		return nil, err
	}
	return r.layout(), nil
}

// EncodeFunctionCall prefixes the encoded inputs with the function selector.
// Constructors carry no selector, fallbacks carry 0xffffffff and receive
// functions take no calldata at all.
func (e *Encoder) EncodeFunctionCall(fn *Function, args ...interface{}) ([]byte, error) {
	if fn.Kind == KindReceive {
		if len(args) != 0 {
			return nil, errors.Wrapf(ErrTypeMismatch, "receive takes no arguments, got %d", len(args))
		}
		return []byte{}, nil
	}
	body, err := e.EncodeArgs(fn.Inputs, args)
	if err != nil {
		return nil, errors.WithMessagef(err, "encode %s", fn.Name)
	}
	if fn.Kind == KindConstructor {
		return body, nil
	}
	sel, err := fn.Selector()
	if err != nil {
		return nil, err
	}
	return append(sel[:], body...), nil
}

// members encodes a tuple's values in declaration order into one region.
func (e *Encoder) members(t *Type, vals []interface{}) (*region, error) {
	r := &region{members: make([]segment, len(vals))}
	for i, v := range vals {
		seg, err := e.build(t.Members[i], v)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s", memberLabel(t, i))
		}
		r.members[i] = seg
	}
	return r, nil
}

func (e *Encoder) elements(t *Type, vals []interface{}) (*region, error) {
	r := &region{members: make([]segment, len(vals))}
	for i, v := range vals {
		seg, err := e.build(t.Elem, v)
		if err != nil {
			return nil, errors.WithMessagef(err, "element %d", i)
		}
		r.members[i] = seg
	}
	return r, nil
}

// build produces the segment for one value. Static composites are laid out
// immediately and stored inline; dynamic values become tail references.
func (e *Encoder) build(t *Type, v interface{}) (segment, error) {
	switch t.Kind {
	case BoolKind:
		b, err := toBool(t, v)
		if err != nil {
			return segment{}, err
		}
		word := make([]byte, wordSize)
		if b {
			word[wordSize-1] = 1
		}
		return segment{inline: word}, nil

	case UintKind, IntKind, UfixedKind, FixedKind:
		n, err := toInteger(t, v)
		if err != nil {
			return segment{}, err
		}
		return segment{inline: bigWord(n)}, nil

	case AddressKind:
		a, err := toAddress(t, v)
		if err != nil {
			return segment{}, err
		}
		return segment{inline: padLeft(a.Bytes())}, nil

	case FixedBytesKind:
		b, err := toBytes(t, v)
		if err != nil {
			return segment{}, err
		}
		if len(b) != t.Length {
			e.log.Warn("fixed bytes length mismatch",
				zap.String("type", t.String()),
				zap.Int("expected", t.Length),
				zap.Int("actual", len(b)))
			if len(b) > t.Length {
				b = b[:t.Length]
			}
		}
		word := make([]byte, wordSize)
		copy(word, b)
		return segment{inline: word}, nil

	case FuncKind:
		b, err := toFunctionRef(t, v)
		if err != nil {
			return segment{}, err
		}
		return segment{inline: padRight(b)}, nil

	case BytesKind:
		b, err := toBytes(t, v)
		if err != nil {
			return segment{}, err
		}
		return segment{ref: &region{prefix: uintWord(uint64(len(b))), payload: padRight(b)}}, nil

	case StringKind:
		b, err := toText(t, v)
		if err != nil {
			return segment{}, err
		}
		return segment{ref: &region{prefix: uintWord(uint64(len(b))), payload: padRight(b)}}, nil

	case TupleKind:
		vals, err := toTupleValues(t, v)
		if err != nil {
			return segment{}, err
		}
		r, err := e.members(t, vals)
		if err != nil {
			return segment{}, err
		}
		return wrap(t, r), nil

	case ArrayKind:
		vals, err := toList(t, v)
		if err != nil {
			return segment{}, err
		}
		if len(vals) != t.Length {
			return segment{}, errors.Wrapf(ErrTypeMismatch, "%s expects %d elements, got %d", t, t.Length, len(vals))
		}
		r, err := e.elements(t, vals)
		if err != nil {
			return segment{}, err
		}
		return wrap(t, r), nil

	case SliceKind:
		vals, err := toList(t, v)
		if err != nil {
			return segment{}, err
		}
		r, err := e.elements(t, vals)
		if err != nil {
			return segment{}, err
		}
		r.prefix = uintWord(uint64(len(vals)))
		return segment{ref: r}, nil
	}
	return segment{}, errors.Wrapf(ErrTypeMismatch, "unsupported kind %s", t.Kind)
}

func wrap(t *Type, r *region) segment {
	if t.IsDynamic() {
		return segment{ref: r}
	}
	return segment{inline: r.layout()}
}

func memberLabel(t *Type, i int) string {
	if i < len(t.Components) && t.Components[i].Name != "" {
		return "argument " + t.Components[i].Name
	}
	return "argument " + strconv.Itoa(i)
}
