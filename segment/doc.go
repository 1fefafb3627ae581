// Package segment implements the packed byte segment: a contiguous buffer
// that encodes an ordered sequence of variable-length entries with a fixed
// header, a per-entry back-pointer for reverse traversal, and a one-byte
// terminator.
//
// # Byte Layout
//
// A segment is a single byte slice with this structure:
//
//	+------------+------------+-------------+---------------+------+
//	| total (4B) | tail (4B)  | count (2B)  | entries (var) | 0xFF |
//	+------------+------------+-------------+---------------+------+
//
//   - total: size in bytes of the whole segment, little-endian
//   - tail: byte offset of the last entry's record, little-endian;
//     points at the entry area start when the segment is empty
//   - count: number of entries, little-endian; 0xFFFF means "overflow,
//     compute by scan"
//
// Each entry record is:
//
//  1. prev-entry-length: 1 byte when the previous record is shorter than
//     254 bytes, else 0xFE followed by a 4-byte little-endian length.
//     The first entry stores 0.
//  2. encoding prefix: 1-5 bytes identifying the entry kind and, for byte
//     strings, the payload length.
//  3. payload: raw bytes for strings; big-endian two's-complement bytes
//     for the fixed-width integer forms; nothing for immediate integers.
//
// # Ownership
//
// Every mutating operation may reallocate the buffer and returns the new
// Segment; callers must replace their reference with the returned value,
// exactly as with append. Cursors (byte offsets of an entry's first byte)
// are invalidated by any mutation.
package segment
