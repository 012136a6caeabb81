package abi

import (
	"strings"

	"github.com/dmagro/abikit/internal/address"
)

// FunctionKind distinguishes regular functions from the special entry points.
type FunctionKind string

const (
	KindFunction    FunctionKind = "function"
	KindConstructor FunctionKind = "constructor"
	KindReceive     FunctionKind = "receive"
	KindFallback    FunctionKind = "fallback"
)

// Mutability is the declared state mutability of a function.
type Mutability string

const (
	Pure       Mutability = "pure"
	View       Mutability = "view"
	NonPayable Mutability = "nonpayable"
	Payable    Mutability = "payable"
)

// SelectorLength is the size of a function selector in bytes.
const SelectorLength = 4

// fallbackSelector stands in for a selector hash on fallback functions.
var fallbackSelector = [SelectorLength]byte{0xff, 0xff, 0xff, 0xff}

// Function describes a contract entry point.
type Function struct {
	Name       string       `json:"name"`
	Kind       FunctionKind `json:"type"`
	Inputs     []Component  `json:"inputs"`
	Outputs    []Component  `json:"outputs"`
	Mutability Mutability   `json:"stateMutability"`
}

// Signature returns the canonical signature hashed into the selector, e.g.
// "transfer(address,uint256)".
func (f *Function) Signature() (string, error) {
	in, err := NewTupleType(f.Inputs)
	if err != nil {
		return "", err
	}
	return f.Name + in.String(), nil
}

// Selector returns the first four bytes of keccak256(Signature()). Fallback
// functions use the 0xffffffff marker instead.
func (f *Function) Selector() ([SelectorLength]byte, error) {
	var sel [SelectorLength]byte
	if f.Kind == KindFallback {
		return fallbackSelector, nil
	}
	sig, err := f.Signature()
	if err != nil {
		return sel, err
	}
	copy(sel[:], address.Keccak256([]byte(sig)))
	return sel, nil
}

// String renders f in the human-readable form accepted by ParseSignature.
func (f *Function) String() string {
	var b strings.Builder
	switch f.Kind {
	case KindFunction, "":
		b.WriteString("function ")
		b.WriteString(f.Name)
	default:
		b.WriteString(string(f.Kind))
	}
	b.WriteString(formatComponents(f.Inputs))
	if f.Mutability != "" && f.Mutability != NonPayable {
		b.WriteString(" ")
		b.WriteString(string(f.Mutability))
	}
	if len(f.Outputs) > 0 {
		b.WriteString(" returns ")
		b.WriteString(formatComponents(f.Outputs))
	}
	return b.String()
}

func formatComponents(cs []Component) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = formatComponent(c)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatComponent(c Component) string {
	tag := c.Type
	if strings.HasPrefix(tag, "tuple") {
		tag = formatComponents(c.Components) + strings.TrimPrefix(tag, "tuple")
	}
	if c.Name == "" {
		return tag
	}
	return tag + " " + c.Name
}

// FunctionRef is the value of the ABI "function" type: a contract address
// followed by a selector.
type FunctionRef struct {
	Address  address.Address
	Selector [SelectorLength]byte
}

// NewFunctionRef points at fn on the contract at addr.
func NewFunctionRef(addr address.Address, fn *Function) (FunctionRef, error) {
	sel, err := fn.Selector()
	if err != nil {
		return FunctionRef{}, err
	}
	return FunctionRef{Address: addr, Selector: sel}, nil
}

// Bytes returns the 24-byte packed form.
func (r FunctionRef) Bytes() []byte {
	out := make([]byte, 0, address.Length+SelectorLength)
	out = append(out, r.Address[:]...)
	return append(out, r.Selector[:]...)
}
