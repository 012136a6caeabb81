package abi

import "math/big"

// segment is one member of an encoded region. It is either bytes stored
// inline in the region's head, or a nested region stored in the tail and
// referenced from the head by an offset word.
type segment struct {
	inline []byte
	ref    *region
}

// region is a self-contained block of encoded data. Offsets written into its
// head are relative to the first head byte, which follows any prefix.
type region struct {
	prefix  []byte // length word of dynamic arrays, bytes and strings
	members []segment
	payload []byte // right-padded content of bytes and strings
}

// headSize is the width of the region's head: inline bytes as they are, one
// word per referenced region.
func (r *region) headSize() int {
	size := 0
	for _, m := range r.members {
		if m.ref != nil {
			size += wordSize
			continue
		}
		size += len(m.inline)
	}
	return size
}

// layout flattens the region. It folds over the members left to right,
// carrying the running tail offset, and has no other state.
func (r *region) layout() []byte {
	head := make([]byte, 0, len(r.prefix)+r.headSize()+len(r.payload))
	head = append(head, r.prefix...)
	head = append(head, r.payload...)

	var tail []byte
	offset := r.headSize()
	for _, m := range r.members {
		if m.ref == nil {
			head = append(head, m.inline...)
			continue
		}
		body := m.ref.layout()
		head = append(head, uintWord(uint64(offset))...)
		tail = append(tail, body...)
		offset += len(body)
	}
	return append(head, tail...)
}

func uintWord(n uint64) []byte {
	return bigWord(new(big.Int).SetUint64(n))
}

// bigWord writes n as a 32-byte two's complement word. n must already be
// range checked.
func bigWord(n *big.Int) []byte {
	word := make([]byte, wordSize)
	if n.Sign() < 0 {
		new(big.Int).Add(n, twoTo256).FillBytes(word)
		return word
	}
	n.FillBytes(word)
	return word
}

func padRight(b []byte) []byte {
	size := (len(b) + wordSize - 1) / wordSize * wordSize
	out := make([]byte, size)
	copy(out, b)
	return out
}

func padLeft(b []byte) []byte {
	out := make([]byte, wordSize)
	copy(out[wordSize-len(b):], b)
	return out
}
