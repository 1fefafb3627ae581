package segment

import (
	"bytes"
	"math"
	"strconv"
)

// Entry encoding prefixes. The top two bits of the first prefix byte select
// between the string forms and the integer family:
//
//	00xxxxxx            short string, length 0..63
//	01xxxxxx yyyyyyyy   medium string, length 0..16383 (xxxxxx<<8 | yyyyyyyy)
//	10000000 + u32 LE   long string, length 0..2^32-1
//	11000000            int16, 2-byte payload
//	11010000            int32, 4-byte payload
//	11100000            int64, 8-byte payload
//	11110000            int24, 3-byte payload
//	11111110            int8, 1-byte payload
//	1111xxxx, x in 1..13  immediate integer, value x-1 (0..12), no payload
//
// Integer payloads are big-endian two's-complement. 0xFF never starts an
// entry; it is reserved for the terminator.
const (
	strShortPrefix  = 0x00
	strMediumPrefix = 0x40
	strLongPrefix   = 0x80
	int16Prefix     = 0xC0
	int32Prefix     = 0xD0
	int64Prefix     = 0xE0
	int24Prefix     = 0xF0
	int8Prefix      = 0xFE
	immediateMin    = 0xF1
	immediateMax    = 0xFD

	strKindMask   = 0xC0
	strShortMax   = 63
	strMediumMax  = 16383
	strLenLowMask = 0x3F

	int24Max = 1<<23 - 1
	int24Min = -1 << 23
)

// prevLenMarker starts the 5-byte form of the prev-entry-length field; it is
// followed by a 4-byte little-endian length. Record lengths below the marker
// fit the 1-byte form.
const prevLenMarker = 0xFE

// maxIntDigits bounds the inputs probed for integer storage: the longest
// canonical int64 is 20 bytes ("-9223372036854775808").
const maxIntDigits = 20

// encSpec describes how a value will be encoded: its kind, prefix width and
// payload width, plus the parsed value for integer entries.
type encSpec struct {
	isInt      bool
	ival       int64
	prefixSize int
	payloadLen int
}

func (e encSpec) contentSize() int {
	return e.prefixSize + e.payloadLen
}

// tryInt reports whether data is the canonical decimal form of a signed
// 64-bit integer. Spellings that parse but do not round-trip byte-for-byte
// ("01", "+5", " 1") are rejected so they survive as strings.
func tryInt(data []byte) (int64, bool) {
	if len(data) == 0 || len(data) > maxIntDigits {
		return 0, false
	}

	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, false
	}

	var buf [maxIntDigits]byte
	if !bytes.Equal(strconv.AppendInt(buf[:0], v, 10), data) {
		return 0, false
	}

	return v, true
}

// analyzeValue picks the most compact encoding for data.
func analyzeValue(data []byte) encSpec {
	if v, ok := tryInt(data); ok {
		switch {
		case v >= 0 && v <= 12:
			return encSpec{isInt: true, ival: v, prefixSize: 1, payloadLen: 0}
		case v >= math.MinInt8 && v <= math.MaxInt8:
			return encSpec{isInt: true, ival: v, prefixSize: 1, payloadLen: 1}
		case v >= math.MinInt16 && v <= math.MaxInt16:
			return encSpec{isInt: true, ival: v, prefixSize: 1, payloadLen: 2}
		case v >= int24Min && v <= int24Max:
			return encSpec{isInt: true, ival: v, prefixSize: 1, payloadLen: 3}
		case v >= math.MinInt32 && v <= math.MaxInt32:
			return encSpec{isInt: true, ival: v, prefixSize: 1, payloadLen: 4}
		default:
			return encSpec{isInt: true, ival: v, prefixSize: 1, payloadLen: 8}
		}
	}

	switch {
	case len(data) <= strShortMax:
		return encSpec{prefixSize: 1, payloadLen: len(data)}
	case len(data) <= strMediumMax:
		return encSpec{prefixSize: 2, payloadLen: len(data)}
	default:
		return encSpec{prefixSize: 5, payloadLen: len(data)}
	}
}

// writeContent writes the encoding prefix and payload for enc into dst and
// returns the number of bytes written. data is only consulted for strings.
func writeContent(dst []byte, enc encSpec, data []byte) int {
	if !enc.isInt {
		switch enc.prefixSize {
		case 1:
			dst[0] = strShortPrefix | byte(len(data))
		case 2:
			dst[0] = strMediumPrefix | byte(len(data)>>8)
			dst[1] = byte(len(data))
		default:
			dst[0] = strLongPrefix
			hdrEngine.PutUint32(dst[1:5], uint32(len(data))) //nolint:gosec
		}
		copy(dst[enc.prefixSize:], data)

		return enc.prefixSize + len(data)
	}

	v := enc.ival
	switch enc.payloadLen {
	case 0:
		dst[0] = immediateMin + byte(v)
	case 1:
		dst[0] = int8Prefix
		dst[1] = byte(int8(v))
	case 2:
		dst[0] = int16Prefix
		intEngine.PutUint16(dst[1:3], uint16(v)) //nolint:gosec
	case 3:
		dst[0] = int24Prefix
		dst[1] = byte(v >> 16)
		dst[2] = byte(v >> 8)
		dst[3] = byte(v)
	case 4:
		dst[0] = int32Prefix
		intEngine.PutUint32(dst[1:5], uint32(v)) //nolint:gosec
	default:
		dst[0] = int64Prefix
		intEngine.PutUint64(dst[1:9], uint64(v)) //nolint:gosec
	}

	return enc.contentSize()
}

// decodePrefix decodes the encoding prefix at the start of b and returns the
// prefix width, payload width and whether the entry is an integer. It assumes
// a well-formed segment; Validate uses the checked variant instead.
func decodePrefix(b []byte) (prefixSize, payloadLen int, isInt bool) {
	prefixSize, payloadLen, isInt, _ = decodePrefixChecked(b)
	return prefixSize, payloadLen, isInt
}

func decodePrefixChecked(b []byte) (prefixSize, payloadLen int, isInt, ok bool) {
	if len(b) == 0 {
		return 0, 0, false, false
	}

	switch c := b[0]; {
	case c&strKindMask == strShortPrefix:
		return 1, int(c & strLenLowMask), false, true
	case c&strKindMask == strMediumPrefix:
		if len(b) < 2 {
			return 0, 0, false, false
		}
		return 2, int(c&strLenLowMask)<<8 | int(b[1]), false, true
	case c == strLongPrefix:
		if len(b) < 5 {
			return 0, 0, false, false
		}
		return 5, int(hdrEngine.Uint32(b[1:5])), false, true
	case c == int16Prefix:
		return 1, 2, true, true
	case c == int32Prefix:
		return 1, 4, true, true
	case c == int64Prefix:
		return 1, 8, true, true
	case c == int24Prefix:
		return 1, 3, true, true
	case c == int8Prefix:
		return 1, 1, true, true
	case c >= immediateMin && c <= immediateMax:
		return 1, 0, true, true
	default:
		return 0, 0, false, false
	}
}

// prevLenFieldSize returns the width of the prev-entry-length field needed
// to store prevLen: 1 byte below the marker, else 5.
func prevLenFieldSize(prevLen int) int {
	if prevLen < prevLenMarker {
		return 1
	}

	return 5
}

// decodePrevLen decodes the prev-entry-length field at the start of b.
func decodePrevLen(b []byte) (prevLen, size int) {
	if b[0] == prevLenMarker {
		return int(hdrEngine.Uint32(b[1:5])), 5
	}

	return int(b[0]), 1
}

func decodePrevLenChecked(b []byte) (prevLen, size int, ok bool) {
	if len(b) == 0 {
		return 0, 0, false
	}
	if b[0] == prevLenMarker {
		if len(b) < 5 {
			return 0, 0, false
		}
		return int(hdrEngine.Uint32(b[1:5])), 5, true
	}

	return int(b[0]), 1, true
}

// putPrevLen writes prevLen into a field of the given width. A 5-byte field
// may carry a value that would fit the 1-byte form; the wide form stays
// valid after its predecessor shrinks.
func putPrevLen(b []byte, prevLen, size int) {
	if size == 1 {
		b[0] = byte(prevLen)
		return
	}

	b[0] = prevLenMarker
	hdrEngine.PutUint32(b[1:5], uint32(prevLen)) //nolint:gosec
}

// entryInfo describes the record at a cursor: the widths of its fields and
// the decoded back-pointer.
type entryInfo struct {
	prevLen     int // byte length of the preceding entry's record
	prevLenSize int // 1 or 5
	prefixSize  int
	payloadLen  int
	isInt       bool
}

func (e entryInfo) headerSize() int {
	return e.prevLenSize + e.prefixSize
}

func (e entryInfo) size() int {
	return e.headerSize() + e.payloadLen
}

// entryAt decodes the record structure at byte offset p. The segment must be
// well-formed and p must name an entry's first byte.
func (s Segment) entryAt(p int) entryInfo {
	prevLen, prevLenSize := decodePrevLen(s[p:])
	prefixSize, payloadLen, isInt := decodePrefix(s[p+prevLenSize:])

	return entryInfo{
		prevLen:     prevLen,
		prevLenSize: prevLenSize,
		prefixSize:  prefixSize,
		payloadLen:  payloadLen,
		isInt:       isInt,
	}
}
