package abi

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dmagro/abikit/internal/address"
)

var (
	bigOne   = big.NewInt(1)
	twoTo256 = new(big.Int).Lsh(bigOne, 256)
)

// maxWordDigits is the decimal length of 2^256, the widest value a word holds.
const maxWordDigits = 78

// toNumeric converts numeric input into an exact decimal. Accepted inputs are
// Go integer and float kinds, *big.Int, big.Int, decimal.Decimal, json.Number
// and strings holding a decimal ("-1.25"), scientific ("1e18") or
// 0x-prefixed hexadecimal number.
func toNumeric(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromBigInt(n, 0), true
	case big.Int:
		return decimal.NewFromBigInt(&n, 0), true
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Decimal{}, false
		}
		return *n, true
	case json.Number:
		return parseNumericString(string(n))
	case string:
		return parseNumericString(n)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(f), true
	}
	return decimal.Decimal{}, false
}

func parseNumericString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	unsigned := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X") {
		n, ok := new(big.Int).SetString(unsigned[2:], 16)
		if !ok {
			return decimal.Decimal{}, false
		}
		if strings.HasPrefix(s, "-") {
			n.Neg(n)
		}
		return decimal.NewFromBigInt(n, 0), true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// toInteger normalises v into the integer stored in the ABI word for t.
// Fixed-point values are scaled by 10^Decimals and any remaining fraction is
// truncated; integer types reject fractional input.
func toInteger(t *Type, v interface{}) (*big.Int, error) {
	d, ok := toNumeric(v)
	if !ok {
		return nil, typeMismatch(t, v)
	}
	fixed := t.Kind == UfixedKind || t.Kind == FixedKind
	if fixed {
		d = d.Shift(int32(t.Decimals))
	}
	if d.IsZero() {
		return new(big.Int), nil
	}
	// Size the integer part from the exponent so "1e10000000" is rejected
	// without expanding it.
	digits := integerDigits(d)
	switch {
	case digits > maxWordDigits:
		return nil, errors.Wrapf(ErrRange, "value with %d integer digits does not fit %s", digits, t)
	case digits <= 0 && fixed:
		return new(big.Int), nil
	case digits <= 0:
		return nil, errors.Wrapf(ErrTypeMismatch, "fractional value for %s", t)
	case !fixed && !d.IsInteger():
		return nil, errors.Wrapf(ErrTypeMismatch, "fractional value %s for %s", d, t)
	}
	n := d.BigInt()
	if err := checkRange(t, n); err != nil {
		return nil, err
	}
	return n, nil
}

// integerDigits is the number of decimal digits left of the point in d.
// Zero or less means |d| < 1.
func integerDigits(d decimal.Decimal) int64 {
	coef := d.Coefficient()
	return int64(len(coef.Abs(coef).String())) + int64(d.Exponent())
}

// checkRange enforces the M-bit range: [0, 2^M) for unsigned types and
// [-2^(M-1), 2^(M-1)) for signed ones.
func checkRange(t *Type, n *big.Int) error {
	if t.Kind == UintKind || t.Kind == UfixedKind {
		if n.Sign() < 0 || n.BitLen() > t.Bits {
			return errors.Wrapf(ErrRange, "%s does not fit %s", n, t)
		}
		return nil
	}
	limit := new(big.Int).Lsh(bigOne, uint(t.Bits-1))
	if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
		return errors.Wrapf(ErrRange, "%s does not fit %s", n, t)
	}
	return nil
}

func toBool(t *Type, v interface{}) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err == nil {
			return parsed, nil
		}
	}
	return false, typeMismatch(t, v)
}

func toAddress(t *Type, v interface{}) (address.Address, error) {
	switch a := v.(type) {
	case address.Address:
		return a, nil
	case *address.Address:
		if a != nil {
			return *a, nil
		}
	case common.Address:
		return address.Address(a), nil
	case [address.Length]byte:
		return address.Address(a), nil
	case []byte:
		parsed, err := address.FromBytes(a)
		if err != nil {
			return parsed, errors.Wrapf(ErrValidation, "%v", err)
		}
		return parsed, nil
	case string:
		parsed, err := address.Parse(strings.TrimSpace(a))
		if err != nil {
			return parsed, errors.Wrapf(ErrValidation, "%v", err)
		}
		return parsed, nil
	}
	return address.Address{}, typeMismatch(t, v)
}

// toBytes accepts byte slices, byte arrays of any length and 0x-prefixed hex
// strings.
func toBytes(t *Type, v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		s := strings.TrimSpace(b)
		if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
			return nil, errors.Wrapf(ErrTypeMismatch, "%s value must be 0x-prefixed hex, got %q", t, b)
		}
		out, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, errors.Wrapf(ErrTypeMismatch, "%s value %q: %v", t, b, err)
		}
		return out, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, nil
	}
	return nil, typeMismatch(t, v)
}

func toText(t *Type, v interface{}) ([]byte, error) {
	switch s := v.(type) {
	case string:
		return []byte(s), nil
	case []byte:
		return s, nil
	}
	return nil, typeMismatch(t, v)
}

func toFunctionRef(t *Type, v interface{}) ([]byte, error) {
	switch r := v.(type) {
	case FunctionRef:
		return r.Bytes(), nil
	case *FunctionRef:
		if r != nil {
			return r.Bytes(), nil
		}
		return nil, typeMismatch(t, v)
	}
	b, err := toBytes(t, v)
	if err != nil {
		return nil, err
	}
	if len(b) != address.Length+SelectorLength {
		return nil, errors.Wrapf(ErrTypeMismatch, "function value must be %d bytes, got %d", address.Length+SelectorLength, len(b))
	}
	return b, nil
}

// toList returns the elements of any Go slice or array. Strings are not
// lists.
func toList(t *Type, v interface{}) ([]interface{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, typeMismatch(t, v)
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// toTupleValues orders tuple input by member position. Positional input is a
// slice or array; keyed input is a map, an ordered map or a struct whose
// fields match member names (case-insensitively, or through an `abi` tag).
func toTupleValues(t *Type, v interface{}) ([]interface{}, error) {
	var lookup func(name string) (interface{}, bool)

	switch m := v.(type) {
	case map[string]interface{}:
		lookup = func(name string) (interface{}, bool) {
			val, ok := m[name]
			return val, ok
		}
	case *orderedmap.OrderedMap[string, interface{}]:
		if m == nil {
			return nil, typeMismatch(t, v)
		}
		lookup = m.Get
	default:
		rv := reflect.Indirect(reflect.ValueOf(v))
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			vals, err := toList(t, rv.Interface())
			if err != nil {
				return nil, err
			}
			if len(vals) != len(t.Members) {
				return nil, errors.Wrapf(ErrTypeMismatch, "%s expects %d values, got %d", t, len(t.Members), len(vals))
			}
			return vals, nil
		case reflect.Struct:
			lookup = structLookup(rv)
		default:
			return nil, typeMismatch(t, v)
		}
	}

	vals := make([]interface{}, len(t.Members))
	for i, c := range t.Components {
		// Unnamed members are keyed by position, as DecodeStruct produces them.
		key := c.Name
		if key == "" {
			key = strconv.Itoa(i)
		}
		val, ok := lookup(key)
		if !ok {
			return nil, errors.Wrapf(ErrTypeMismatch, "missing value for %s member %q", t, key)
		}
		vals[i] = val
	}
	return vals, nil
}

func structLookup(rv reflect.Value) func(string) (interface{}, bool) {
	rt := rv.Type()
	return func(name string) (interface{}, bool) {
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			if tag := f.Tag.Get("abi"); tag == name || (tag == "" && strings.EqualFold(f.Name, name)) {
				return rv.Field(i).Interface(), true
			}
		}
		return nil, false
	}
}
