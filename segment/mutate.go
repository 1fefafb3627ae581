package segment

import "math"

// Push appends data as a new entry at the head or tail of the segment and
// returns the reallocated segment. The input segment must be discarded.
func (s Segment) Push(data []byte, where Where) Segment {
	if where == Head {
		if p, ok := s.firstEntry(); ok {
			return s.insert(p, data)
		}
	}

	return s.insert(len(s)-terminatorSize, data)
}

// Insert places data as a new entry before the entry at cursor p and returns
// the reallocated segment. Passing the terminator offset appends at the tail.
func (s Segment) Insert(p int, data []byte) Segment {
	return s.insert(p, data)
}

// Delete removes the entry at cursor p. It returns the reallocated segment,
// the cursor of the entry that now occupies p, and false when the deleted
// entry was the last one.
func (s Segment) Delete(p int) (Segment, int, bool) {
	ns := s.deleteAt(p, 1)
	if p >= len(ns)-terminatorSize || ns[p] == terminator {
		return ns, -1, false
	}

	return ns, p, true
}

// DeleteRange removes up to count consecutive entries starting at the entry
// with index i (negative i counts from the tail). A negative count deletes
// through the end. Out-of-range indices leave the segment unchanged.
func (s Segment) DeleteRange(i, count int) Segment {
	p, ok := s.Index(i)
	if !ok {
		return s
	}
	if count < 0 {
		count = math.MaxInt
	}

	return s.deleteAt(p, count)
}

// insert writes a new entry at byte offset p, shifting the successor entries
// and growing the successor's prev-entry-length field when the new record
// does not fit its 1-byte form.
func (s Segment) insert(p int, data []byte) Segment {
	atEnd := s[p] == terminator

	// Record length of the entry that will precede the new one.
	var prevLen int
	if atEnd {
		if tail := s.tailOffset(); s[tail] != terminator {
			prevLen = s.entryAt(tail).size()
		}
	} else {
		prevLen, _ = decodePrevLen(s[p:])
	}

	enc := analyzeValue(data)
	prevLenSize := prevLenFieldSize(prevLen)
	reqLen := prevLenSize + enc.contentSize()

	// The successor's prev-entry-length field may need to grow from 1 to 5
	// bytes to hold the new record's length. It never shrinks here.
	nextDiff := 0
	succFieldSize := 0
	if !atEnd {
		_, succFieldSize = decodePrevLen(s[p:])
		if need := prevLenFieldSize(reqLen); need > succFieldSize {
			nextDiff = need - succFieldSize
		}
	}

	ns := make(Segment, len(s)+reqLen+nextDiff)
	copy(ns, s[:p])

	n := p
	putPrevLen(ns[n:], prevLen, prevLenSize)
	n += prevLenSize
	n += writeContent(ns[n:], enc, data)

	if atEnd {
		copy(ns[n:], s[p:]) // just the terminator
		ns.setTailOffset(p)
	} else {
		putPrevLen(ns[n:], reqLen, succFieldSize+nextDiff)
		copy(ns[n+succFieldSize+nextDiff:], s[p+succFieldSize:])

		newTail := s.tailOffset() + reqLen
		if s.tailOffset() != p {
			// The shifted successor is not the tail; later entries also
			// move by the grown field width.
			newTail += nextDiff
		}
		ns.setTailOffset(newTail)
	}

	ns.setTotal(len(ns))
	ns.incrCount(1)

	if nextDiff != 0 {
		ns = ns.cascadeUpdate(n)
	}

	return ns
}

// deleteAt removes up to num consecutive entries starting at byte offset p.
func (s Segment) deleteAt(p, num int) Segment {
	first := s.entryAt(p)

	end := p
	deleted := 0
	for deleted < num && s[end] != terminator {
		end += s.entryAt(end).size()
		deleted++
	}
	if deleted == 0 {
		return s
	}
	removed := end - p

	if s[end] == terminator {
		// Deleted through the tail; the predecessor of the range becomes
		// the last entry.
		ns := make(Segment, len(s)-removed)
		copy(ns, s[:p])
		ns[p] = terminator
		if first.prevLen == 0 {
			ns.setTailOffset(HeaderSize)
		} else {
			ns.setTailOffset(p - first.prevLen)
		}
		ns.setTotal(len(ns))
		ns.incrCount(-deleted)

		return ns
	}

	// The successor inherits the range predecessor's record length. Its
	// field may need to grow; an oversized field is left wide.
	_, succFieldSize := decodePrevLen(s[end:])
	newFieldSize := succFieldSize
	if need := prevLenFieldSize(first.prevLen); need > succFieldSize {
		newFieldSize = need
	}
	grow := newFieldSize - succFieldSize

	ns := make(Segment, len(s)-removed+grow)
	copy(ns, s[:p])
	putPrevLen(ns[p:], first.prevLen, newFieldSize)
	copy(ns[p+newFieldSize:], s[end+succFieldSize:])

	newTail := s.tailOffset() - removed
	if s.tailOffset() > end {
		newTail += grow
	}
	ns.setTailOffset(newTail)
	ns.setTotal(len(ns))
	ns.incrCount(-deleted)

	if grow != 0 {
		ns = ns.cascadeUpdate(p)
	}

	return ns
}

// cascadeUpdate repairs prev-entry-length fields forward from the entry at
// byte offset p after its record length changed. Fields grow from 1 to 5
// bytes as needed, which can change the holder's own record length and
// cascade further; an oversized field is rewritten in place and never
// shrunk, which stops the cascade.
func (s Segment) cascadeUpdate(p int) Segment {
	for s[p] != terminator {
		rawLen := s.entryAt(p).size()
		np := p + rawLen
		if s[np] == terminator {
			break
		}

		nextPrevLen, nextFieldSize := decodePrevLen(s[np:])
		if nextPrevLen == rawLen {
			break
		}

		need := prevLenFieldSize(rawLen)
		if need <= nextFieldSize {
			putPrevLen(s[np:], rawLen, nextFieldSize)
			break
		}

		grow := need - nextFieldSize
		ns := make(Segment, len(s)+grow)
		copy(ns, s[:np])
		putPrevLen(ns[np:], rawLen, need)
		copy(ns[np+need:], s[np+nextFieldSize:])
		ns.setTotal(len(ns))
		if tail := s.tailOffset(); tail > np {
			ns.setTailOffset(tail + grow)
		}

		s = ns
		p = np
	}

	return s
}
