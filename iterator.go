package seqlist

import (
	"iter"

	"github.com/arloliu/seqlist/segment"
)

// Iterator walks the list in a fixed direction. Inserting into the list
// during iteration is undefined; recreate the iterator after an insert.
// Deleting the current entry through Delete is supported and re-anchors the
// iterator so that Next continues with the following element.
type Iterator struct {
	list      *List
	current   *node
	direction Direction
	cursor    int // byte offset of the current entry; -1 when unresolved
	offset    int // in-segment entry offset; negative counts from the tail
	entry     Entry
}

// Iterator returns an iterator positioned before the first element in the
// given direction.
func (l *List) Iterator(dir Direction) *Iterator {
	it := &Iterator{list: l, direction: dir, cursor: -1}
	if dir == Forward {
		it.current = l.head
		it.offset = 0
	} else {
		it.current = l.tail
		it.offset = -1
	}

	return it
}

// IteratorAt returns an iterator whose first Next yields the entry at the
// given global index, continuing in the given direction. Returns nil when
// the index is out of range.
func (l *List) IteratorAt(dir Direction, idx int) *Iterator {
	e, ok := l.Index(idx)
	if !ok {
		return nil
	}

	return &Iterator{
		list:      l,
		direction: dir,
		cursor:    -1,
		current:   e.node,
		offset:    e.offset,
	}
}

// Next advances to the next element, crossing segment boundaries as needed.
// Returns false when the iteration is exhausted.
func (it *Iterator) Next() bool {
	for it.current != nil {
		n := it.current

		var ok bool
		if it.cursor < 0 {
			// Unresolved position: bind the cursor at the stored offset.
			it.cursor, ok = n.seg.Index(it.offset)
		} else if it.direction == Forward {
			it.cursor, ok = n.seg.Next(it.cursor)
			it.offset++
		} else {
			it.cursor, ok = n.seg.Prev(it.cursor)
			it.offset--
		}

		if ok {
			v, _ := n.seg.Get(it.cursor)
			it.entry = Entry{Value: v, node: n, cursor: it.cursor, offset: it.offset}

			return true
		}

		// Fell off this segment; continue in the neighbour.
		if it.direction == Forward {
			it.current = n.next
			it.offset = 0
		} else {
			it.current = n.prev
			it.offset = -1
		}
		it.cursor = -1
	}

	return false
}

// Entry returns the element produced by the last successful Next.
func (it *Iterator) Entry() Entry {
	return it.entry
}

// Delete removes the element produced by the last successful Next and
// re-anchors the iterator: the following Next yields the element that came
// after (forward) or before (reverse) the deleted one. Calling Delete
// before Next, or twice in a row, is a no-op.
func (it *Iterator) Delete() {
	if it.current == nil || it.cursor < 0 {
		return
	}

	n := it.current
	prev, next := n.prev, n.next
	_, _, nodeGone := it.list.delEntry(n, it.cursor)
	it.cursor = -1

	if it.direction == Forward {
		if nodeGone || it.offset == -1 {
			// The segment is gone, or its last entry was deleted: the
			// successor is the first entry of the next segment.
			it.current = next
			it.offset = 0
		} else if it.offset < 0 {
			// Tail-relative offsets shift when an element before the tail
			// disappears; the successor now sits one closer to the end.
			it.offset++
		}
		// Non-negative offsets stay put: the same offset now names the
		// successor, which the next Next re-resolves.
	} else {
		if nodeGone || it.offset == 0 {
			// The segment is gone, or its first entry was deleted: the
			// predecessor is the last entry of the previous segment.
			it.current = prev
			it.offset = -1
		} else if it.offset >= 0 {
			it.offset--
		}
		// Negative offsets stay put: the predecessor slid into the same
		// tail-relative position.
	}
}

// All returns a read-only head-to-tail iterator over (ordinal, value)
// pairs, usable with range. The list must not be mutated during iteration.
func (l *List) All() iter.Seq2[int, segment.Value] {
	return func(yield func(int, segment.Value) bool) {
		i := 0
		for n := l.head; n != nil; n = n.next {
			p, ok := n.seg.Index(0)
			for ok {
				v, _ := n.seg.Get(p)
				if !yield(i, v) {
					return
				}
				i++
				p, ok = n.seg.Next(p)
			}
		}
	}
}

// Backward returns a read-only tail-to-head iterator over (ordinal, value)
// pairs; ordinal 0 is the last element. The list must not be mutated during
// iteration.
func (l *List) Backward() iter.Seq2[int, segment.Value] {
	return func(yield func(int, segment.Value) bool) {
		i := 0
		for n := l.tail; n != nil; n = n.prev {
			p, ok := n.seg.Index(-1)
			for ok {
				v, _ := n.seg.Get(p)
				if !yield(i, v) {
					return
				}
				i++
				p, ok = n.seg.Prev(p)
			}
		}
	}
}
