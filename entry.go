package seqlist

import "github.com/arloliu/seqlist/segment"

// Entry is a decoded list element together with the anchor naming its
// position: the owning segment, the byte cursor of the entry's record and
// its in-segment offset. Entries are produced by Index and by iterators and
// anchor InsertBefore and InsertAfter.
//
// An Entry is invalidated by any mutation of the list, including a delete
// issued through the iterator that produced it; the iterator itself stays
// usable after its Delete.
type Entry struct {
	// Value is the decoded element. Its Data, if any, aliases the segment
	// buffer and is valid only until the next mutation.
	Value segment.Value

	node   *node
	cursor int
	offset int
}

// Compare reports whether the anchored entry equals data, using the
// segment codec's comparison rules: byte equality for strings, numeric
// equality for integer entries. The zero Entry never matches.
func (e Entry) Compare(data []byte) bool {
	if e.node == nil {
		return false
	}

	return e.node.seg.Compare(e.cursor, data)
}
