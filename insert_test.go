package seqlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertIntoEmptyList(t *testing.T) {
	l := New()
	l.InsertBefore(testFill, Entry{}, []byte("only"))

	require.Equal(t, []string{"only"}, values(l))
	require.Equal(t, 1, l.SegmentCount())
	require.NoError(t, l.Validate())

	l2 := New()
	l2.InsertAfter(testFill, Entry{}, []byte("only"))
	require.Equal(t, []string{"only"}, values(l2))
}

func TestInsertWithinSegment(t *testing.T) {
	l := New()
	pushWords(l, testFill, "a", "c")

	e, ok := l.Index(1)
	require.True(t, ok)
	l.InsertBefore(testFill, e, []byte("b"))

	e, ok = l.Index(2)
	require.True(t, ok)
	l.InsertAfter(testFill, e, []byte("d"))

	require.Equal(t, []string{"a", "b", "c", "d"}, values(l))
	require.Equal(t, 1, l.SegmentCount())
	require.NoError(t, l.Validate())
}

func TestInsertAfterAtTailOfFullSegmentSpillsToNext(t *testing.T) {
	l := New()
	pushWords(l, 2, "a", "b", "c") // [a b] [c]

	e, ok := l.Index(1)
	require.True(t, ok)
	l.InsertAfter(2, e, []byte("x"))

	require.Equal(t, []string{"a", "b", "x", "c"}, values(l))
	require.Equal(t, 2, l.SegmentCount())
	require.Equal(t, 2, l.head.count)
	require.Equal(t, 2, l.tail.count)
	require.NoError(t, l.Validate())
}

func TestInsertBeforeAtHeadOfFullSegmentSpillsToPrev(t *testing.T) {
	l := New()
	pushWords(l, 2, "b", "c")
	l.PushHead(2, []byte("a")) // [a] [b c]

	e, ok := l.Index(1)
	require.True(t, ok)
	l.InsertBefore(2, e, []byte("x"))

	require.Equal(t, []string{"a", "x", "b", "c"}, values(l))
	require.Equal(t, 2, l.SegmentCount())
	require.NoError(t, l.Validate())
}

func TestInsertAtEdgeWithNoRoomCreatesSegment(t *testing.T) {
	l := New()
	pushWords(l, 2, "a", "b")

	// After the last entry of a full tail segment with no next.
	e, ok := l.Index(-1)
	require.True(t, ok)
	l.InsertAfter(2, e, []byte("x"))
	require.Equal(t, []string{"a", "b", "x"}, values(l))
	require.Equal(t, 2, l.SegmentCount())

	// Before the first entry of a full head segment with no prev.
	e, ok = l.Index(0)
	require.True(t, ok)
	l.InsertBefore(2, e, []byte("w"))
	require.Equal(t, []string{"w", "a", "b", "x"}, values(l))
	require.Equal(t, 3, l.SegmentCount())
	require.NoError(t, l.Validate())
}

func TestInsertMidFullSegmentSplits(t *testing.T) {
	l := New()
	pushWords(l, 4, "0", "1", "2", "3", "4", "5", "6", "7") // [0-3] [4-7]

	e, ok := l.Index(1)
	require.True(t, ok)
	l.InsertAfter(4, e, []byte("x"))

	require.Equal(t, []string{"0", "1", "x", "2", "3", "4", "5", "6", "7"}, values(l))
	require.NoError(t, l.Validate())
}

func TestInsertSplitMergesSmallNeighbours(t *testing.T) {
	l := New()
	pushWords(l, 8, "0", "1", "2", "3", "4", "5", "6", "7") // one full segment
	l.PushTail(1, []byte("a"))
	l.PushTail(1, []byte("b")) // [0-7] [a] [b]
	require.Equal(t, 3, l.SegmentCount())

	e, ok := l.Index(3)
	require.True(t, ok)
	l.InsertAfter(8, e, []byte("x"))

	// The split spliced [x 4 5 6 7] after [0 1 2 3]; the single-entry
	// segment "a" merged into the new right half.
	require.Equal(t, []string{"0", "1", "2", "3", "x", "4", "5", "6", "7", "a", "b"}, values(l))
	require.Equal(t, 3, l.SegmentCount())
	require.Equal(t, 6, l.head.next.count)
	require.Equal(t, 1, l.tail.count)
	require.NoError(t, l.Validate())
}

func TestInsertSplitMergesIntoCenter(t *testing.T) {
	l := New()
	pushWords(l, 8, "0", "1", "2", "3", "4", "5", "6", "7")
	l.PushHead(8, []byte("hb"))
	l.PushHead(8, []byte("ha")) // [ha hb] [0-7]
	l.PushTail(1, []byte("ta"))
	l.PushTail(2, []byte("tb")) // [ha hb] [0-7] [ta tb]
	require.Equal(t, 3, l.SegmentCount())

	e, ok := l.Index(5) // entry "3" in the middle of the full segment
	require.True(t, ok)
	l.InsertAfter(8, e, []byte("x"))

	// Split halves: [0 1 2 3] and [x 4 5 6 7]. The head pair merges into
	// the left half, the tail pair into the right half.
	require.Equal(t,
		[]string{"ha", "hb", "0", "1", "2", "3", "x", "4", "5", "6", "7", "ta", "tb"},
		values(l))
	require.Equal(t, 2, l.SegmentCount())
	require.Equal(t, 6, l.head.count)
	require.Equal(t, 7, l.tail.count)
	require.NoError(t, l.Validate())
}

func TestInsertPreservesIntegerDetection(t *testing.T) {
	l := New()
	pushWords(l, testFill, "a", "b")

	e, ok := l.Index(1)
	require.True(t, ok)
	l.InsertBefore(testFill, e, []byte("4096"))

	e, ok = l.Index(1)
	require.True(t, ok)
	require.True(t, e.Value.IsInt())
	require.Equal(t, int64(4096), e.Value.Int)
}
