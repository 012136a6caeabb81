// Package address implements 20-byte account addresses and their EIP-55
// mixed-case checksum encoding.
package address

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// Length is the size of an address in bytes.
const Length = 20

// ErrInvalidAddress is returned for malformed addresses and checksum failures.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a 20-byte account address.
type Address [Length]byte

// Keccak256 hashes the concatenation of data with legacy Keccak-256.
func Keccak256(data ...[]byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	for _, b := range data {
		hasher.Write(b)
	}
	return hasher.Sum(nil)
}

// FromBytes copies b into an Address. b must be exactly 20 bytes long.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Length {
		return a, errors.Wrapf(ErrInvalidAddress, "expected %d bytes, got %d", Length, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// Parse decodes a hex address with or without the 0x prefix. All-lowercase
// and all-uppercase input is accepted as is; mixed-case input must carry a
// correct checksum.
func Parse(s string) (Address, error) {
	if !IsValidAddress(s, true) {
		if err := checkFormat(trimPrefix(s)); err != nil {
			return Address{}, err
		}
		return Address{}, errors.Wrapf(ErrInvalidAddress, "bad checksum %q", s)
	}
	return mustDecode(trimPrefix(s)), nil
}

// ToChecksumAddress renders addr in EIP-55 form with a 0x prefix.
//
// With validate set, addr must be 40 hex digits and, when it is mixed-case,
// already carry the correct checksum. Passing validate=false skips every
// check and only recases the input; callers doing so accept that garbage in
// yields garbage out.
func ToChecksumAddress(addr string, validate bool) (string, error) {
	digits := trimPrefix(addr)
	if validate {
		if err := checkFormat(digits); err != nil {
			return "", err
		}
		if isMixedCase(digits) && checksum(digits) != digits {
			return "", errors.Wrapf(ErrInvalidAddress, "bad checksum %q", addr)
		}
	}
	return "0x" + checksum(digits), nil
}

// IsValidAddress reports whether addr is a well-formed address. Strict mode
// requires the exact EIP-55 casing; lenient mode also accepts addresses
// written entirely in lower or upper case.
func IsValidAddress(addr string, lenient bool) bool {
	digits := trimPrefix(addr)
	if checkFormat(digits) != nil {
		return false
	}
	if lenient && !isMixedCase(digits) {
		return true
	}
	return checksum(digits) == digits
}

// Hex returns the checksummed 0x-prefixed form.
func (a Address) Hex() string {
	return "0x" + checksum(hex.EncodeToString(a[:]))
}

func (a Address) String() string {
	return a.Hex()
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, Length)
	copy(out, a[:])
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// checksum applies EIP-55 casing to 40 hex digits. Unvalidated input may be
// longer; digits past the 64 the hash covers stay lowercase.
func checksum(digits string) string {
	lower := strings.ToLower(digits)
	hash := Keccak256([]byte(lower))
	out := []byte(lower)
	for i, c := range out {
		if i >= 2*len(hash) {
			break
		}
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f > 7 {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

func checkFormat(digits string) error {
	if len(digits) != 2*Length {
		return errors.Wrapf(ErrInvalidAddress, "expected %d hex chars, got %d", 2*Length, len(digits))
	}
	if _, err := hex.DecodeString(digits); err != nil {
		return errors.Wrap(ErrInvalidAddress, "contains non-hex characters")
	}
	return nil
}

func isMixedCase(digits string) bool {
	return strings.ToLower(digits) != digits && strings.ToUpper(digits) != digits
}

func trimPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

func mustDecode(digits string) Address {
	var a Address
	b, _ := hex.DecodeString(digits)
	copy(a[:], b)
	return a
}
