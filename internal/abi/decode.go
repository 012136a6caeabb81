package abi

import (
	"bytes"
	"math/big"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dmagro/abikit/internal/address"
)

// Decoded value shapes:
//
//	bool                      bool
//	uintM, intM (M <= 48)     uint64, int64
//	uintM, intM (M > 48)      *big.Int
//	ufixed, fixed (M <= 48)   float64
//	ufixed, fixed (M > 48)    decimal string
//	address                   address.Address
//	bytesN, bytes             []byte
//	string                    string
//	function                  FunctionRef
//	T[K], T[]                 []interface{}
//	tuple                     []interface{}, or *orderedmap.OrderedMap when any
//	                          direct member is named
//
// Every offset and length read from the input is checked against the buffer
// before it is followed; violations return ErrMalformedData.

// Decode decodes data holding a single value of type t, laid out like a
// one-member argument list.
func Decode(data []byte, t *Type) (interface{}, error) {
	d := &decoder{data: data}
	v, err := d.member(t, 0, 0)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DecodePositional decodes an argument list into a slice in declaration
// order, ignoring member names.
func DecodePositional(data []byte, components []Component) ([]interface{}, error) {
	t, err := NewTupleType(components)
	if err != nil {
		return nil, err
	}
	d := &decoder{data: data}
	return d.tuple(t, 0)
}

// DecodeStruct decodes an argument list into an ordered map keyed by member
// name. Unnamed members are keyed by their position.
func DecodeStruct(data []byte, components []Component) (*orderedmap.OrderedMap[string, interface{}], error) {
	t, err := NewTupleType(components)
	if err != nil {
		return nil, err
	}
	d := &decoder{data: data}
	vals, err := d.tuple(t, 0)
	if err != nil {
		return nil, err
	}
	return keyed(t, vals), nil
}

// DecodeTuple decodes an argument list, choosing the keyed form when any
// member is named and the positional form otherwise.
func DecodeTuple(data []byte, components []Component) (interface{}, error) {
	t, err := NewTupleType(components)
	if err != nil {
		return nil, err
	}
	d := &decoder{data: data}
	vals, err := d.tuple(t, 0)
	if err != nil {
		return nil, err
	}
	return shape(t, vals), nil
}

// DecodeOutputs decodes the return data of a call to fn.
func DecodeOutputs(fn *Function, data []byte) (interface{}, error) {
	return DecodeTuple(data, fn.Outputs)
}

// DecodeFunctionCall checks the selector prefix of calldata against fn and
// decodes the arguments that follow it.
func DecodeFunctionCall(fn *Function, calldata []byte) (interface{}, error) {
	if fn.Kind == KindConstructor {
		return DecodeTuple(calldata, fn.Inputs)
	}
	sel, err := fn.Selector()
	if err != nil {
		return nil, err
	}
	if len(calldata) < SelectorLength {
		return nil, malformedf("calldata is %d bytes, shorter than a selector", len(calldata))
	}
	if !bytes.Equal(calldata[:SelectorLength], sel[:]) {
		return nil, malformedf("selector %x does not match %s (%x)", calldata[:SelectorLength], fn.Name, sel)
	}
	return DecodeTuple(calldata[SelectorLength:], fn.Inputs)
}

type decoder struct {
	data []byte
}

// tuple decodes the members of t whose head starts at base. Offsets found in
// the head are relative to base.
func (d *decoder) tuple(t *Type, base int) ([]interface{}, error) {
	vals := make([]interface{}, len(t.Members))
	pos := base
	for i, m := range t.Members {
		v, err := d.member(m, base, pos)
		if err != nil {
			return nil, err
		}
		vals[i] = v
		pos += m.HeadSize()
	}
	return vals, nil
}

// elements decodes n consecutive heads of elem starting at base. The heads
// must fit in the input before anything is allocated.
func (d *decoder) elements(elem *Type, n, base int) ([]interface{}, error) {
	if base > len(d.data) || n > (len(d.data)-base)/elem.HeadSize() {
		return nil, malformedf("%d elements of %s at byte %d exceed %d-byte input", n, elem, base, len(d.data))
	}
	vals := make([]interface{}, n)
	pos := base
	for i := range vals {
		v, err := d.member(elem, base, pos)
		if err != nil {
			return nil, err
		}
		vals[i] = v
		pos += elem.HeadSize()
	}
	return vals, nil
}

// member decodes the value whose head slot is at pos inside the region that
// starts at base.
func (d *decoder) member(t *Type, base, pos int) (interface{}, error) {
	if !t.IsDynamic() {
		return d.static(t, pos)
	}
	off, err := d.uint(pos)
	if err != nil {
		return nil, err
	}
	start := base + off
	if start > len(d.data) {
		return nil, malformedf("offset %d at byte %d points past %d-byte input", off, pos, len(d.data))
	}
	return d.dynamic(t, start)
}

func (d *decoder) dynamic(t *Type, start int) (interface{}, error) {
	switch t.Kind {
	case BytesKind, StringKind:
		n, err := d.uint(start)
		if err != nil {
			return nil, err
		}
		begin := start + wordSize
		if n > len(d.data)-begin {
			return nil, malformedf("length %d at byte %d exceeds %d-byte input", n, start, len(d.data))
		}
		if t.Kind == StringKind {
			return string(d.data[begin : begin+n]), nil
		}
		return append([]byte{}, d.data[begin:begin+n]...), nil

	case SliceKind:
		n, err := d.uint(start)
		if err != nil {
			return nil, err
		}
		return d.elements(t.Elem, n, start+wordSize)

	case ArrayKind:
		return d.elements(t.Elem, t.Length, start)

	case TupleKind:
		vals, err := d.tuple(t, start)
		if err != nil {
			return nil, err
		}
		return shape(t, vals), nil
	}
	return nil, malformedf("unexpected dynamic kind %s", t.Kind)
}

func (d *decoder) static(t *Type, pos int) (interface{}, error) {
	switch t.Kind {
	case ArrayKind:
		return d.elements(t.Elem, t.Length, pos)
	case TupleKind:
		vals, err := d.tuple(t, pos)
		if err != nil {
			return nil, err
		}
		return shape(t, vals), nil
	}

	word, err := d.word(pos)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case BoolKind:
		if !zero(word[:wordSize-1]) || word[wordSize-1] > 1 {
			return nil, malformedf("invalid bool word %x at byte %d", word, pos)
		}
		return word[wordSize-1] == 1, nil

	case UintKind, IntKind:
		n, err := integerWord(t, word, pos)
		if err != nil {
			return nil, err
		}
		if t.Bits > 48 {
			return n, nil
		}
		if t.Kind == UintKind {
			return n.Uint64(), nil
		}
		return n.Int64(), nil

	case UfixedKind, FixedKind:
		n, err := integerWord(t, word, pos)
		if err != nil {
			return nil, err
		}
		s := formatFixed(n, t.Decimals)
		if t.Bits > 48 {
			return s, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, malformedf("fixed value %s: %v", s, err)
		}
		return f, nil

	case AddressKind:
		pad := wordSize - address.Length
		if !zero(word[:pad]) {
			return nil, malformedf("dirty address padding at byte %d", pos)
		}
		return address.FromBytes(word[pad:])

	case FixedBytesKind:
		if !zero(word[t.Length:]) {
			return nil, malformedf("dirty bytes%d padding at byte %d", t.Length, pos)
		}
		return append([]byte{}, word[:t.Length]...), nil

	case FuncKind:
		size := address.Length + SelectorLength
		if !zero(word[size:]) {
			return nil, malformedf("dirty function padding at byte %d", pos)
		}
		var ref FunctionRef
		copy(ref.Address[:], word[:address.Length])
		copy(ref.Selector[:], word[address.Length:size])
		return ref, nil
	}
	return nil, malformedf("unexpected static kind %s", t.Kind)
}

func (d *decoder) word(pos int) ([]byte, error) {
	if pos < 0 || pos > len(d.data)-wordSize {
		return nil, malformedf("word at byte %d exceeds %d-byte input", pos, len(d.data))
	}
	return d.data[pos : pos+wordSize], nil
}

// uint reads an offset or length word. Values that cannot address the input
// are rejected before any arithmetic uses them.
func (d *decoder) uint(pos int) (int, error) {
	word, err := d.word(pos)
	if err != nil {
		return 0, err
	}
	n := new(big.Int).SetBytes(word)
	if !n.IsInt64() || n.Int64() > int64(len(d.data)) {
		return 0, malformedf("value %s at byte %d exceeds %d-byte input", n, pos, len(d.data))
	}
	return int(n.Int64()), nil
}

// integerWord reads a two's complement word and checks that it is the
// canonical encoding of a value of t's width.
func integerWord(t *Type, word []byte, pos int) (*big.Int, error) {
	n := new(big.Int).SetBytes(word)
	if (t.Kind == IntKind || t.Kind == FixedKind) && word[0]&0x80 != 0 {
		n.Sub(n, twoTo256)
	}
	if err := checkRange(t, n); err != nil {
		return nil, malformedf("non-canonical %s word at byte %d", t, pos)
	}
	return n, nil
}

// shape picks the tuple representation: keyed when any member is named.
func shape(t *Type, vals []interface{}) interface{} {
	if t.named() {
		return keyed(t, vals)
	}
	return vals
}

func keyed(t *Type, vals []interface{}) *orderedmap.OrderedMap[string, interface{}] {
	m := orderedmap.New[string, interface{}]()
	for i, v := range vals {
		key := strconv.Itoa(i)
		if i < len(t.Components) && t.Components[i].Name != "" {
			key = t.Components[i].Name
		}
		m.Set(key, v)
	}
	return m
}

// formatFixed renders raw / 10^decimals without losing precision, trimming
// trailing zeros: 1500000 with 6 decimals is "1.5".
func formatFixed(raw *big.Int, decimals int) string {
	digits := new(big.Int).Abs(raw).String()
	for len(digits) <= decimals {
		digits = "0" + digits
	}
	whole := digits[:len(digits)-decimals]
	frac := strings.TrimRight(digits[len(digits)-decimals:], "0")

	s := whole
	if frac != "" {
		s += "." + frac
	}
	if raw.Sign() < 0 {
		s = "-" + s
	}
	return s
}

func zero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
