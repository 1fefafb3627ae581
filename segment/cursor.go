package segment

import (
	"bytes"
	"strconv"
)

// Value is a decoded entry: either a byte string or a signed 64-bit integer.
// Data is nil exactly when the entry is an integer; an empty byte string
// decodes to a non-nil empty slice.
type Value struct {
	// Data holds the raw bytes of a string entry. It aliases the segment
	// buffer and is valid only until the next mutation; copy it to keep it.
	Data []byte

	// Int holds the value of an integer entry.
	Int int64
}

// IsInt reports whether the value is an integer entry.
func (v Value) IsInt() bool {
	return v.Data == nil
}

// String renders the value: the raw bytes of a string entry, or the decimal
// form of an integer entry.
func (v Value) String() string {
	if v.IsInt() {
		return strconv.FormatInt(v.Int, 10)
	}

	return string(v.Data)
}

// AppendBytes appends the canonical byte form of the value to dst: the raw
// bytes of a string entry, or the decimal ASCII form of an integer entry.
func (v Value) AppendBytes(dst []byte) []byte {
	if v.IsInt() {
		return strconv.AppendInt(dst, v.Int, 10)
	}

	return append(dst, v.Data...)
}

// firstEntry returns the cursor of the first entry, or false when the
// segment is empty.
func (s Segment) firstEntry() (int, bool) {
	if s[HeaderSize] == terminator {
		return -1, false
	}

	return HeaderSize, true
}

// Next returns the cursor of the entry following p, or false when p names
// the last entry.
func (s Segment) Next(p int) (int, bool) {
	np := p + s.entryAt(p).size()
	if s[np] == terminator {
		return -1, false
	}

	return np, true
}

// Prev returns the cursor of the entry preceding p, or false when p names
// the first entry. It walks backwards through the prev-entry-length field.
func (s Segment) Prev(p int) (int, bool) {
	e := s.entryAt(p)
	if e.prevLen == 0 {
		return -1, false
	}

	return p - e.prevLen, true
}

// Index returns the cursor of the i-th entry. Non-negative indices walk
// forward from the first entry; negative indices walk backwards from the
// tail, with -1 naming the last entry. Returns false when out of range.
func (s Segment) Index(i int) (int, bool) {
	if i >= 0 {
		p, ok := s.firstEntry()
		if !ok {
			return -1, false
		}
		for ; i > 0; i-- {
			p, ok = s.Next(p)
			if !ok {
				return -1, false
			}
		}

		return p, true
	}

	if s[HeaderSize] == terminator {
		return -1, false
	}
	p := s.tailOffset()
	for i++; i < 0; i++ {
		var ok bool
		p, ok = s.Prev(p)
		if !ok {
			return -1, false
		}
	}

	return p, true
}

// Get decodes the entry at cursor p. Returns false when p does not name an
// entry (for example the terminator offset of an empty segment).
func (s Segment) Get(p int) (Value, bool) {
	if p < HeaderSize || p >= len(s)-terminatorSize || s[p] == terminator {
		return Value{}, false
	}

	e := s.entryAt(p)
	base := p + e.headerSize()
	if !e.isInt {
		return Value{Data: s[base : base+e.payloadLen]}, true
	}

	switch prefix := s[p+e.prevLenSize]; prefix {
	case int8Prefix:
		return Value{Int: int64(int8(s[base]))}, true
	case int16Prefix:
		return Value{Int: int64(int16(intEngine.Uint16(s[base:])))}, true //nolint:gosec
	case int24Prefix:
		v := int32(s[base])<<16 | int32(s[base+1])<<8 | int32(s[base+2])
		v = v << 8 >> 8 // sign-extend from bit 23

		return Value{Int: int64(v)}, true
	case int32Prefix:
		return Value{Int: int64(int32(intEngine.Uint32(s[base:])))}, true //nolint:gosec
	case int64Prefix:
		return Value{Int: int64(intEngine.Uint64(s[base:]))}, true //nolint:gosec
	default:
		return Value{Int: int64(prefix&0x0F) - 1}, true
	}
}

// Compare reports whether the entry at cursor p equals data. String entries
// compare byte-for-byte; integer entries compare numerically against the
// canonical integer parse of data, and unequal kinds never match.
func (s Segment) Compare(p int, data []byte) bool {
	v, ok := s.Get(p)
	if !ok {
		return false
	}
	if !v.IsInt() {
		return bytes.Equal(v.Data, data)
	}

	n, ok := tryInt(data)

	return ok && n == v.Int
}
