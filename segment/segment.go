package segment

import (
	"fmt"

	"github.com/arloliu/seqlist/endian"
	"github.com/arloliu/seqlist/errs"
)

// Header field offsets and sizes. The header is followed directly by the
// packed entry records and the trailing terminator byte.
const (
	totalBytesOffset = 0 // uint32 LE: size of the whole segment in bytes
	tailOffsetOffset = 4 // uint32 LE: byte offset of the last entry
	countOffset      = 8 // uint16 LE: entry count, 0xFFFF = overflow

	// HeaderSize is the fixed byte size of the segment header.
	HeaderSize = 10

	terminator     = 0xFF
	terminatorSize = 1

	// countOverflow is the stored entry count's saturation value. Once the
	// header reaches it, Len falls back to a forward scan.
	countOverflow = 0xFFFF
)

var (
	// hdrEngine reads and writes header scalars, string length fields and
	// the wide form of the prev-entry-length field.
	hdrEngine = endian.GetLittleEndianEngine()

	// intEngine reads and writes the fixed-width integer payloads, stored
	// as big-endian two's-complement.
	intEngine = endian.GetBigEndianEngine()
)

// Where selects which end of a segment an operation applies to.
type Where int

const (
	// Head addresses the first entry of a segment.
	Head Where = iota
	// Tail addresses the last entry of a segment.
	Tail
)

// Segment is a packed byte buffer holding an ordered sequence of entries.
// The zero value is not usable; obtain one from New.
type Segment []byte

// New allocates the minimum segment: header plus terminator, no entries.
func New() Segment {
	s := make(Segment, HeaderSize+terminatorSize)
	hdrEngine.PutUint32(s[totalBytesOffset:], uint32(len(s)))
	hdrEngine.PutUint32(s[tailOffsetOffset:], HeaderSize)
	s[len(s)-1] = terminator

	return s
}

// BlobLen returns the stored total byte size of the segment.
func (s Segment) BlobLen() int {
	return int(hdrEngine.Uint32(s[totalBytesOffset:]))
}

// Len returns the number of entries in the segment.
//
// The stored count is authoritative until it saturates at the overflow
// marker; from then on Len counts by scanning and writes the true count
// back once it fits the field again.
func (s Segment) Len() int {
	if c := s.storedCount(); c < countOverflow {
		return c
	}

	n := 0
	for p := HeaderSize; s[p] != terminator; {
		p += s.entryAt(p).size()
		n++
	}
	if n < countOverflow {
		s.setCount(n)
	}

	return n
}

func (s Segment) tailOffset() int {
	return int(hdrEngine.Uint32(s[tailOffsetOffset:]))
}

func (s Segment) setTailOffset(n int) {
	hdrEngine.PutUint32(s[tailOffsetOffset:], uint32(n)) //nolint:gosec
}

func (s Segment) setTotal(n int) {
	hdrEngine.PutUint32(s[totalBytesOffset:], uint32(n)) //nolint:gosec
}

func (s Segment) storedCount() int {
	return int(hdrEngine.Uint16(s[countOffset:]))
}

func (s Segment) setCount(n int) {
	hdrEngine.PutUint16(s[countOffset:], uint16(n)) //nolint:gosec
}

// incrCount adjusts the stored entry count by delta. A count that has
// saturated at the overflow marker stays there; Len recovers the true
// value by scanning.
func (s Segment) incrCount(delta int) {
	c := s.storedCount()
	if c >= countOverflow {
		return
	}
	n := c + delta
	if n > countOverflow {
		n = countOverflow
	}
	s.setCount(n)
}

// Validate checks the segment's well-formedness: header totals, terminator
// placement, decodable entry records, back-pointer agreement and the tail
// offset. It returns nil for a well-formed segment and a wrapped sentinel
// from the errs package on the first violation found.
func (s Segment) Validate() error {
	if len(s) < HeaderSize+terminatorSize {
		return fmt.Errorf("%w: %d bytes is below the minimum segment size", errs.ErrCorruptSegment, len(s))
	}
	if s.BlobLen() != len(s) {
		return fmt.Errorf("%w: header claims %d bytes, buffer holds %d", errs.ErrCorruptSegment, s.BlobLen(), len(s))
	}
	if s[len(s)-1] != terminator {
		return fmt.Errorf("%w: last byte is 0x%02X", errs.ErrBadTerminator, s[len(s)-1])
	}

	end := len(s) - terminatorSize
	p := HeaderSize
	n := 0
	prevRecLen := 0
	lastStart := HeaderSize

	for p < end && s[p] != terminator {
		prevLen, prevLenSize, ok := decodePrevLenChecked(s[p:end])
		if !ok {
			return fmt.Errorf("%w: truncated prev-entry length at offset %d", errs.ErrCorruptSegment, p)
		}
		if prevLen != prevRecLen {
			return fmt.Errorf("%w: entry %d stores %d, predecessor record is %d bytes",
				errs.ErrBadPrevLength, n, prevLen, prevRecLen)
		}

		prefixSize, payloadLen, _, ok := decodePrefixChecked(s[p+prevLenSize : end])
		if !ok {
			return fmt.Errorf("%w: invalid encoding prefix at offset %d", errs.ErrCorruptSegment, p+prevLenSize)
		}

		recLen := prevLenSize + prefixSize + payloadLen
		if p+recLen > end {
			return fmt.Errorf("%w: entry %d overruns the terminator", errs.ErrCorruptSegment, n)
		}

		lastStart = p
		prevRecLen = recLen
		p += recLen
		n++
	}

	if p != end {
		return fmt.Errorf("%w: entry walk stops at offset %d of %d", errs.ErrBadTerminator, p, end)
	}

	if c := s.storedCount(); c != countOverflow && c != n {
		return fmt.Errorf("%w: header stores %d, scan found %d", errs.ErrCountMismatch, c, n)
	}

	expectTail := HeaderSize
	if n > 0 {
		expectTail = lastStart
	}
	if got := s.tailOffset(); got != expectTail {
		return fmt.Errorf("%w: header stores %d, last entry starts at %d", errs.ErrBadTailOffset, got, expectTail)
	}

	return nil
}
