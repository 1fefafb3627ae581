package seqlist

import (
	"fmt"

	"github.com/arloliu/seqlist/endian"
	"github.com/arloliu/seqlist/errs"
	"github.com/arloliu/seqlist/internal/hash"
	"github.com/arloliu/seqlist/internal/pool"
	"github.com/arloliu/seqlist/segment"
)

// node is one link of the segment chain. It owns its packed segment and
// caches the segment's entry count.
type node struct {
	prev, next *node
	seg        segment.Segment
	count      int
}

func newNode() *node {
	return &node{seg: segment.New()}
}

// List is an ordered sequence container backed by a doubly linked chain of
// packed segments. The zero value is an empty list ready for use.
type List struct {
	head, tail *node
	segments   int // number of segments in the chain
	count      int // total number of entries across all segments
}

// Len returns the total number of entries in the list.
func (l *List) Len() int {
	return l.count
}

// SegmentCount returns the number of segments in the chain.
func (l *List) SegmentCount() int {
	return l.segments
}

// Reset detaches every segment, leaving the list empty.
func (l *List) Reset() {
	l.head, l.tail = nil, nil
	l.segments, l.count = 0, 0
}

// spliceNode links n into the chain after old (when after is true) or
// before it. A nil old on an empty chain makes n the sole node.
func (l *List) spliceNode(old, n *node, after bool) {
	if after {
		n.prev = old
		if old != nil {
			n.next = old.next
			if old.next != nil {
				old.next.prev = n
			}
			old.next = n
		}
		if l.tail == old {
			l.tail = n
		}
	} else {
		n.next = old
		if old != nil {
			n.prev = old.prev
			if old.prev != nil {
				old.prev.next = n
			}
			old.prev = n
		}
		if l.head == old {
			l.head = n
		}
	}

	if l.segments == 0 {
		l.head, l.tail = n, n
	}
	l.segments++
}

// removeNode unlinks n from the chain and drops its entries from the cached
// totals.
func (l *List) removeNode(n *node) {
	if n.next != nil {
		n.next.prev = n.prev
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n == l.tail {
		l.tail = n.prev
	}
	if n == l.head {
		l.head = n.next
	}

	l.count -= n.count
	l.segments--
	n.prev, n.next = nil, nil
	n.seg = nil
}

// delEntry removes the entry at byte offset p in n's segment, detaching the
// node when it empties. Reports the successor cursor within the segment and
// whether the node was removed.
func (l *List) delEntry(n *node, p int) (next int, hasNext, nodeGone bool) {
	n.seg, next, hasNext = n.seg.Delete(p)
	n.count--
	l.count--
	if n.count == 0 {
		l.removeNode(n)
		return -1, false, true
	}

	return next, hasNext, false
}

// PushHead prepends data to the list. The head segment takes the entry while
// it holds fewer than fill entries; otherwise a fresh segment is spliced in
// front.
func (l *List) PushHead(fill int, data []byte) {
	fill = normalizeFill(fill)
	if l.head != nil && l.head.count < fill {
		l.head.seg = l.head.seg.Push(data, segment.Head)
	} else {
		n := newNode()
		n.seg = n.seg.Push(data, segment.Head)
		l.spliceNode(l.head, n, false)
	}
	l.count++
	l.head.count++
}

// PushTail appends data to the list under the same fill policy as PushHead.
func (l *List) PushTail(fill int, data []byte) {
	fill = normalizeFill(fill)
	if l.tail != nil && l.tail.count < fill {
		l.tail.seg = l.tail.seg.Push(data, segment.Tail)
	} else {
		n := newNode()
		n.seg = n.seg.Push(data, segment.Tail)
		l.spliceNode(l.tail, n, true)
	}
	l.count++
	l.tail.count++
}

// Push adds data at the selected end of the list.
func (l *List) Push(fill int, data []byte, where Where) {
	if where == Head {
		l.PushHead(fill, data)
	} else {
		l.PushTail(fill, data)
	}
}

// Pop removes and returns the entry at the selected end. The returned
// value's Data, if any, is a fresh copy owned by the caller. Returns false
// on an empty list.
func (l *List) Pop(where Where) (segment.Value, bool) {
	if l.count == 0 {
		return segment.Value{}, false
	}

	n, pos := l.head, 0
	if where == Tail {
		n, pos = l.tail, -1
	}

	p, _ := n.seg.Index(pos)
	v, _ := n.seg.Get(p)
	if !v.IsInt() {
		data := make([]byte, len(v.Data))
		copy(data, v.Data)
		v.Data = data
	}
	l.delEntry(n, p)

	return v, true
}

// PopHead removes and returns the first entry.
func (l *List) PopHead() (segment.Value, bool) {
	return l.Pop(Head)
}

// PopTail removes and returns the last entry.
func (l *List) PopTail() (segment.Value, bool) {
	return l.Pop(Tail)
}

// Index returns the entry at the given zero-based index, where 0 is the
// head. Negative indices count from the tail: -1 is the last entry. The
// returned Entry anchors the position for InsertBefore and InsertAfter.
// Returns false when the index is out of range.
func (l *List) Index(idx int) (Entry, bool) {
	forward := idx >= 0

	var n *node
	var index int
	if forward {
		index = idx
		n = l.head
	} else {
		index = -idx - 1
		n = l.tail
	}
	if index >= l.count {
		return Entry{}, false
	}

	accum := 0
	for n != nil {
		if accum+n.count > index {
			break
		}
		accum += n.count
		if forward {
			n = n.next
		} else {
			n = n.prev
		}
	}
	if n == nil {
		return Entry{}, false
	}

	e := Entry{node: n}
	if forward {
		// Normal head-to-tail offset within the found segment.
		e.offset = index - accum
	} else {
		// Negative tail-to-head offset, undoing the index inversion above.
		e.offset = idx + accum
	}

	p, ok := n.seg.Index(e.offset)
	if !ok {
		return Entry{}, false
	}
	e.cursor = p
	e.Value, _ = n.seg.Get(p)

	return e, true
}

// InsertBefore places data immediately before the anchored entry.
func (l *List) InsertBefore(fill int, e Entry, data []byte) {
	l.insert(fill, e, data, false)
}

// InsertAfter places data immediately after the anchored entry.
func (l *List) InsertAfter(fill int, e Entry, data []byte) {
	l.insert(fill, e, data, true)
}

func (l *List) insert(fill int, e Entry, data []byte, after bool) {
	fill = normalizeFill(fill)
	n := e.node

	if n == nil {
		// No anchor: the list is empty, create its only segment.
		nn := newNode()
		nn.seg = nn.seg.Push(data, segment.Head)
		nn.count = 1
		l.spliceNode(nil, nn, after)
		l.count++

		return
	}

	full := n.count >= fill

	var atTail, atHead, fullNext, fullPrev bool
	if after {
		_, hasNext := n.seg.Next(e.cursor)
		atTail = !hasNext
		fullNext = atTail && n.next != nil && n.next.count >= fill
	} else {
		_, hasPrev := n.seg.Prev(e.cursor)
		atHead = !hasPrev
		fullPrev = atHead && n.prev != nil && n.prev.count >= fill
	}

	switch {
	case !full && after:
		if np, ok := n.seg.Next(e.cursor); ok {
			n.seg = n.seg.Insert(np, data)
		} else {
			n.seg = n.seg.Push(data, segment.Tail)
		}
		n.count++

	case !full:
		n.seg = n.seg.Insert(e.cursor, data)
		n.count++

	case atTail && after && n.next != nil && !fullNext:
		// Anchored at the tail of a full segment with room behind: the
		// entry lands at the head of the next segment.
		nn := n.next
		nn.seg = nn.seg.Push(data, segment.Head)
		nn.count++

	case atHead && !after && n.prev != nil && !fullPrev:
		nn := n.prev
		nn.seg = nn.seg.Push(data, segment.Tail)
		nn.count++

	case (atTail && after && (n.next == nil || fullNext)) ||
		(atHead && !after && (n.prev == nil || fullPrev)):
		// Full segment, anchored at an edge, no neighbour with room: a
		// fresh segment holding only the new entry is spliced alongside.
		nn := newNode()
		nn.seg = nn.seg.Push(data, segment.Head)
		nn.count = 1
		l.spliceNode(n, nn, after)

	default:
		// Full segment, anchor in the middle: split around the anchor,
		// seed the new half with the entry, then compact the neighbours.
		nn := l.splitNode(n, e.offset, after)
		where := segment.Tail
		if after {
			where = segment.Head
		}
		nn.seg = nn.seg.Push(data, where)
		nn.count++
		l.spliceNode(n, nn, after)
		l.mergeNeighbours(fill, n)
	}

	l.count++
}

// splitNode divides n at the given in-segment entry offset. With after set,
// the returned node takes the entries following the offset and n keeps the
// rest; otherwise the returned node takes the entries preceding it. The
// returned node is not yet linked into the chain.
func (l *List) splitNode(n *node, offset int, after bool) *node {
	if offset < 0 {
		offset += n.count
	}

	dup := make(segment.Segment, len(n.seg))
	copy(dup, n.seg)
	nn := &node{seg: dup}

	if after {
		n.seg = n.seg.DeleteRange(offset+1, -1)
		nn.seg = nn.seg.DeleteRange(0, offset+1)
	} else {
		n.seg = n.seg.DeleteRange(0, offset)
		nn.seg = nn.seg.DeleteRange(offset, -1)
	}
	n.count = n.seg.Len()
	nn.count = nn.seg.Len()

	return nn
}

// mergePair merges the entries of two adjacent nodes into the one that
// started larger, frees the other, and returns the survivor. a must precede
// b in the chain. Returns nil when either side is empty.
func (l *List) mergePair(a, b *node) *node {
	if a.count == 0 || b.count == 0 {
		return nil
	}

	target := b
	if a.count > b.count {
		target = a
	}

	buf := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(buf)

	if target == a {
		// Append b's entries to a in order.
		p, ok := b.seg.Index(0)
		for ok {
			v, _ := b.seg.Get(p)
			buf.B = v.AppendBytes(buf.B[:0])
			a.seg = a.seg.Push(buf.B, segment.Tail)
			a.count++
			b.count--
			p, ok = b.seg.Next(p)
		}
		l.removeNode(b)
	} else {
		// Prepend a's entries to b, walking a in reverse to keep order.
		p, ok := a.seg.Index(-1)
		for ok {
			v, _ := a.seg.Get(p)
			buf.B = v.AppendBytes(buf.B[:0])
			b.seg = b.seg.Push(buf.B, segment.Head)
			b.count++
			a.count--
			p, ok = a.seg.Prev(p)
		}
		l.removeNode(a)
	}

	return target
}

// mergeNeighbours compacts the chain around a freshly split center node.
// The pairs are attempted in a fixed order, each only when the combined
// entry count fits the fill factor:
//
//	(center.prev.prev, center.prev)
//	(center.next, center.next.next)
//	(center.prev, center)
//	(center or the survivor of the previous pair, its next)
//
// Node references are invalidated by each merge; fresh neighbour pointers
// are read between attempts.
func (l *List) mergeNeighbours(fill int, center *node) {
	var prev, prevPrev, next, nextNext *node
	if center.prev != nil {
		prev = center.prev
		prevPrev = center.prev.prev
	}
	if center.next != nil {
		next = center.next
		nextNext = center.next.next
	}

	if prev != nil && prevPrev != nil && prev.count+prevPrev.count <= fill {
		l.mergePair(prevPrev, prev)
	}

	if next != nil && nextNext != nil && next.count+nextNext.count <= fill {
		l.mergePair(next, nextNext)
	}

	target := center
	if center.prev != nil && center.count+center.prev.count <= fill {
		target = l.mergePair(center.prev, center)
	}

	if target != nil && target.next != nil && target.count+target.next.count <= fill {
		l.mergePair(target, target.next)
	}
}

// ReplaceAtIndex swaps the entry at the given index for data, keeping its
// position. Returns false when the index is out of range.
func (l *List) ReplaceAtIndex(idx int, data []byte) bool {
	e, ok := l.Index(idx)
	if !ok {
		return false
	}

	n := e.node
	ns, p, hasNext := n.seg.Delete(e.cursor)
	if !hasNext {
		// Replaced the last entry; re-insert at the terminator.
		p = len(ns) - 1
	}
	n.seg = ns.Insert(p, data)

	return true
}

// DeleteRange removes up to count entries starting at the signed global
// index start (negative start counts from the tail). The count is clamped
// to the entries available from start through the end. Returns false when
// nothing was deleted.
func (l *List) DeleteRange(start, count int) bool {
	if count <= 0 {
		return false
	}

	extent := count
	if start >= 0 {
		if extent > l.count-start {
			extent = l.count - start
		}
	} else if extent > l.count+start+1 {
		// Negative start: -start entries remain through the tail; a larger
		// request just deletes until the end.
		extent = -start
	}

	e, ok := l.Index(start)
	if !ok {
		return false
	}

	n := e.node
	offset := e.offset
	for extent > 0 && n != nil {
		next := n.next

		var del int
		wholeNode := false
		switch {
		case offset == 0 && extent >= n.count:
			// The range swallows this segment whole; detach it without
			// any byte-level work.
			wholeNode = true
			del = n.count
		case offset >= 0 && extent+offset >= n.count:
			del = n.count - offset
		case offset < 0:
			// First pass with a tail-relative offset: -offset entries
			// remain in this segment.
			del = -offset
			if del > extent {
				del = extent
			}
		default:
			del = extent
		}

		if wholeNode {
			l.removeNode(n)
		} else {
			n.seg = n.seg.DeleteRange(offset, del)
			n.count -= del
			l.count -= del
			if n.count == 0 {
				l.removeNode(n)
			}
		}

		extent -= del
		n = next
		offset = 0
	}

	return true
}

// Rotate moves the last entry of the list to its head. Lists with fewer
// than two entries are left unchanged.
//
// The tail value is copied out before the push: pushing may reallocate the
// very segment the tail entry lives in, so the read must not alias it.
func (l *List) Rotate(fill int) {
	if l.count <= 1 {
		return
	}

	tail := l.tail
	p, _ := tail.seg.Index(-1)
	v, _ := tail.seg.Get(p)

	buf := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(buf)
	buf.B = v.AppendBytes(buf.B[:0])

	l.PushHead(fill, buf.B)

	// Re-resolve the tail cursor; the push may have moved the buffer.
	p, _ = tail.seg.Index(-1)
	l.delEntry(tail, p)
}

// Dup returns a deep copy of the list. Segment buffers are copied wholesale,
// so the copy shares no memory with the original.
func (l *List) Dup() *List {
	cp := New()
	for n := l.head; n != nil; n = n.next {
		dn := &node{count: n.count}
		dn.seg = make(segment.Segment, len(n.seg))
		copy(dn.seg, n.seg)
		cp.count += dn.count
		cp.spliceNode(cp.tail, dn, true)
	}

	return cp
}

// AppendPacked attaches a pre-formed packed segment at the tail of the
// list, taking ownership of seg. The segment is validated first; corrupt or
// empty segments are rejected with a wrapped errs sentinel.
func (l *List) AppendPacked(seg segment.Segment) error {
	if err := seg.Validate(); err != nil {
		return err
	}
	count := seg.Len()
	if count == 0 {
		return fmt.Errorf("%w: refusing to attach a segment with no entries", errs.ErrEmptySegment)
	}

	n := &node{seg: seg, count: count}
	l.spliceNode(l.tail, n, true)
	l.count += count

	return nil
}

// Fingerprint returns the xxHash64 of the list's content in iteration
// order. Each value is hashed in its canonical byte form behind a 4-byte
// length prefix, so lists holding the same sequence hash equal regardless
// of their segment layout.
func (l *List) Fingerprint() uint64 {
	engine := endian.GetLittleEndianEngine()
	d := hash.NewDigest()

	buf := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(buf)

	var hdr [4]byte
	for _, v := range l.All() {
		buf.B = v.AppendBytes(buf.B[:0])
		engine.PutUint32(hdr[:], uint32(len(buf.B))) //nolint:gosec
		_, _ = d.Write(hdr[:])
		_, _ = d.Write(buf.B)
	}

	return d.Sum64()
}
