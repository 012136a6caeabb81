package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// wordSize is the ABI slot width in bytes.
const wordSize = 32

// maxStaticSize bounds the inline encoding of a static type so head sizes of
// nested fixed arrays stay far from int overflow.
const maxStaticSize = 1 << 30

// Kind enumerates the closed set of ABI type families.
type Kind int

const (
	BoolKind Kind = iota + 1
	UintKind
	IntKind
	UfixedKind
	FixedKind
	AddressKind
	FixedBytesKind
	BytesKind
	StringKind
	FuncKind
	TupleKind
	ArrayKind // fixed length, T[K]
	SliceKind // dynamic length, T[]
)

var kindNames = map[Kind]string{
	BoolKind:       "bool",
	UintKind:       "uint",
	IntKind:        "int",
	UfixedKind:     "ufixed",
	FixedKind:      "fixed",
	AddressKind:    "address",
	FixedBytesKind: "bytesN",
	BytesKind:      "bytes",
	StringKind:     "string",
	FuncKind:       "function",
	TupleKind:      "tuple",
	ArrayKind:      "array",
	SliceKind:      "slice",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Component describes one named or positional ABI value: a function
// parameter, a return value or a tuple member. It mirrors the JSON ABI
// shape emitted by the Solidity compiler.
type Component struct {
	Name       string      `json:"name" yaml:"name"`
	Type       string      `json:"type" yaml:"type"`
	Components []Component `json:"components,omitempty" yaml:"components,omitempty"`
}

// Resolve turns the textual type tag into a Type.
func (c Component) Resolve() (*Type, error) {
	return NewType(c.Type, c.Components)
}

// Type is a resolved ABI type. Values are immutable once built by NewType.
type Type struct {
	Kind     Kind
	Bits     int // integer and fixed-point width
	Decimals int // fixed-point scale
	Length   int // bytesN size or fixed array length
	Elem     *Type

	// Tuple members, as declared and resolved.
	Components []Component
	Members    []*Type
}

// NewType resolves a type tag such as "uint256", "bytes32[]" or
// "tuple[2][]". components is consulted only when the tag names a tuple.
//
// Array suffixes are peeled from the right, so the last suffix is the
// outermost dimension: "uint8[][3]" is three dynamic arrays of uint8.
func NewType(tag string, components []Component) (*Type, error) {
	tag = strings.TrimSpace(tag)
	if strings.HasSuffix(tag, "]") {
		open := strings.LastIndexByte(tag, '[')
		if open <= 0 {
			return nil, parseErrorf("unbalanced array suffix in %q", tag)
		}
		elem, err := NewType(tag[:open], components)
		if err != nil {
			return nil, err
		}
		dim := tag[open+1 : len(tag)-1]
		if dim == "" {
			return &Type{Kind: SliceKind, Elem: elem}, nil
		}
		n, ok := parseDecimal(dim)
		if !ok || n == 0 {
			return nil, parseErrorf("invalid array length %q in %q", dim, tag)
		}
		if elem.HeadSize() > maxStaticSize/n {
			return nil, parseErrorf("array %q is too large", tag)
		}
		return &Type{Kind: ArrayKind, Length: n, Elem: elem}, nil
	}

	switch tag {
	case "bool":
		return &Type{Kind: BoolKind}, nil
	case "address":
		return &Type{Kind: AddressKind}, nil
	case "string":
		return &Type{Kind: StringKind}, nil
	case "bytes":
		return &Type{Kind: BytesKind}, nil
	case "function":
		return &Type{Kind: FuncKind}, nil
	case "byte":
		return &Type{Kind: FixedBytesKind, Length: 1}, nil
	case "tuple":
		if len(components) == 0 {
			return nil, parseErrorf("tuple %q has no members", tag)
		}
		return newTupleType(components)
	}

	switch {
	case strings.HasPrefix(tag, "bytes"):
		n, ok := parseDecimal(tag[len("bytes"):])
		if !ok || n < 1 || n > 32 {
			return nil, parseErrorf("invalid fixed bytes type %q", tag)
		}
		return &Type{Kind: FixedBytesKind, Length: n}, nil
	case strings.HasPrefix(tag, "uint"):
		return newIntegerType(UintKind, tag, tag[len("uint"):])
	case strings.HasPrefix(tag, "int"):
		return newIntegerType(IntKind, tag, tag[len("int"):])
	case strings.HasPrefix(tag, "ufixed"):
		return newFixedType(UfixedKind, tag, tag[len("ufixed"):])
	case strings.HasPrefix(tag, "fixed"):
		return newFixedType(FixedKind, tag, tag[len("fixed"):])
	}
	return nil, parseErrorf("unknown type %q", tag)
}

// NewTupleType resolves an argument list as a single tuple type. Function
// inputs and outputs are encoded exactly like a tuple of their components.
func NewTupleType(components []Component) (*Type, error) {
	return newTupleType(components)
}

func newTupleType(components []Component) (*Type, error) {
	t := &Type{Kind: TupleKind, Components: components, Members: make([]*Type, len(components))}
	for i, c := range components {
		m, err := c.Resolve()
		if err != nil {
			return nil, err
		}
		t.Members[i] = m
	}
	return t, nil
}

func newIntegerType(kind Kind, tag, width string) (*Type, error) {
	if width == "" {
		return &Type{Kind: kind, Bits: 256}, nil
	}
	bits, ok := parseDecimal(width)
	if !ok || !validWidth(bits) {
		return nil, parseErrorf("invalid integer type %q", tag)
	}
	return &Type{Kind: kind, Bits: bits}, nil
}

func newFixedType(kind Kind, tag, suffix string) (*Type, error) {
	if suffix == "" {
		return &Type{Kind: kind, Bits: 128, Decimals: 18}, nil
	}
	parts := strings.Split(suffix, "x")
	if len(parts) != 2 {
		return nil, parseErrorf("invalid fixed-point type %q", tag)
	}
	bits, ok1 := parseDecimal(parts[0])
	decimals, ok2 := parseDecimal(parts[1])
	if !ok1 || !ok2 || !validWidth(bits) || decimals < 1 || decimals > 80 {
		return nil, parseErrorf("invalid fixed-point type %q", tag)
	}
	return &Type{Kind: kind, Bits: bits, Decimals: decimals}, nil
}

func validWidth(bits int) bool {
	return bits >= 8 && bits <= 256 && bits%8 == 0
}

// parseDecimal accepts canonical non-negative decimals only: no sign, no
// leading zeros.
func parseDecimal(s string) (int, bool) {
	if s == "" || len(s) > 9 || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// String returns the canonical type string used in selectors: aliases are
// expanded and tuples are written out as parenthesised member lists.
func (t *Type) String() string {
	switch t.Kind {
	case UintKind, IntKind:
		return fmt.Sprintf("%s%d", t.Kind, t.Bits)
	case UfixedKind, FixedKind:
		return fmt.Sprintf("%s%dx%d", t.Kind, t.Bits, t.Decimals)
	case FixedBytesKind:
		return fmt.Sprintf("bytes%d", t.Length)
	case TupleKind:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	case ArrayKind:
		return fmt.Sprintf("%s[%d]", t.Elem, t.Length)
	case SliceKind:
		return t.Elem.String() + "[]"
	default:
		return t.Kind.String()
	}
}

// IsDynamic reports whether values of t are stored in the tail and referenced
// from the head by offset.
func (t *Type) IsDynamic() bool {
	switch t.Kind {
	case BytesKind, StringKind, SliceKind:
		return true
	case ArrayKind:
		return t.Elem.IsDynamic()
	case TupleKind:
		for _, m := range t.Members {
			if m.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// HeadSize is the number of bytes t occupies in its enclosing head: one
// offset word for dynamic types, the full inline encoding otherwise.
func (t *Type) HeadSize() int {
	if t.IsDynamic() {
		return wordSize
	}
	switch t.Kind {
	case ArrayKind:
		return t.Length * t.Elem.HeadSize()
	case TupleKind:
		size := 0
		for _, m := range t.Members {
			size += m.HeadSize()
		}
		return size
	}
	return wordSize
}

// named reports whether any direct member of a tuple carries a name. Decoded
// tuples become keyed structs when it does.
func (t *Type) named() bool {
	for _, c := range t.Components {
		if c.Name != "" {
			return true
		}
	}
	return false
}
