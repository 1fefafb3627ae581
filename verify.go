package seqlist

import (
	"fmt"

	"github.com/arloliu/seqlist/errs"
)

// Validate checks the structural invariants of the list: chain link
// consistency, cached totals, per-segment well-formedness and the absence
// of attached empty segments. It returns nil when every invariant holds and
// a wrapped sentinel from the errs package on the first violation.
//
// Validation walks every entry of every segment; it is meant for tests and
// integrity checks, not hot paths.
func (l *List) Validate() error {
	segs, entries := 0, 0

	var prev *node
	for n := l.head; n != nil; n = n.next {
		if n.prev != prev {
			return fmt.Errorf("%w: segment %d has a stale prev link", errs.ErrBrokenChain, segs)
		}
		if n.count == 0 {
			return fmt.Errorf("%w: segment %d", errs.ErrEmptySegment, segs)
		}
		if err := n.seg.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", segs, err)
		}
		if got := n.seg.Len(); got != n.count {
			return fmt.Errorf("%w: segment %d holds %d entries, node caches %d",
				errs.ErrCountMismatch, segs, got, n.count)
		}

		entries += n.count
		segs++
		prev = n
	}

	if prev != l.tail {
		return fmt.Errorf("%w: tail does not terminate the forward walk", errs.ErrBrokenChain)
	}
	if segs != l.segments {
		return fmt.Errorf("%w: chain has %d segments, list caches %d", errs.ErrBrokenChain, segs, l.segments)
	}
	if entries != l.count {
		return fmt.Errorf("%w: segments hold %d entries, list caches %d", errs.ErrCountMismatch, entries, l.count)
	}

	// The reverse walk must visit the same chain.
	rsegs := 0
	var next *node
	for n := l.tail; n != nil; n = n.prev {
		if n.next != next {
			return fmt.Errorf("%w: segment has a stale next link", errs.ErrBrokenChain)
		}
		rsegs++
		next = n
	}
	if next != l.head || rsegs != segs {
		return fmt.Errorf("%w: reverse walk visits %d segments, forward walk %d", errs.ErrBrokenChain, rsegs, segs)
	}

	return nil
}
