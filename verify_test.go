package seqlist

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/seqlist/errs"
	"github.com/arloliu/seqlist/segment"
)

func TestValidateEmptyList(t *testing.T) {
	require.NoError(t, New().Validate())
}

func TestValidateBrokenInvariants(t *testing.T) {
	build := func() *List {
		l := New()
		pushWords(l, 3, "a", "b", "c", "d", "e")
		return l
	}

	t.Run("stale total count", func(t *testing.T) {
		l := build()
		l.count++
		require.ErrorIs(t, l.Validate(), errs.ErrCountMismatch)
	})

	t.Run("stale segment count", func(t *testing.T) {
		l := build()
		l.segments++
		require.ErrorIs(t, l.Validate(), errs.ErrBrokenChain)
	})

	t.Run("stale node count", func(t *testing.T) {
		l := build()
		l.head.count++
		l.count++
		require.ErrorIs(t, l.Validate(), errs.ErrCountMismatch)
	})

	t.Run("empty attached segment", func(t *testing.T) {
		l := build()
		n := l.tail
		l.count -= n.count
		n.count = 0
		require.ErrorIs(t, l.Validate(), errs.ErrEmptySegment)
	})

	t.Run("broken prev link", func(t *testing.T) {
		l := build()
		l.head.next.prev = nil
		require.ErrorIs(t, l.Validate(), errs.ErrBrokenChain)
	})

	t.Run("corrupt segment surfaces", func(t *testing.T) {
		l := build()
		l.head.seg[len(l.head.seg)-1] = 0x00
		require.ErrorIs(t, l.Validate(), errs.ErrBadTerminator)
	})
}

func TestDup(t *testing.T) {
	l := New()
	for i := 0; i < 100; i++ {
		l.PushTail(8, []byte("item-"+strconv.Itoa(i)))
	}

	cp := l.Dup()
	require.Equal(t, l.Len(), cp.Len())
	require.Equal(t, l.SegmentCount(), cp.SegmentCount())
	require.Equal(t, values(l), values(cp))
	require.NoError(t, cp.Validate())
	require.Equal(t, l.Fingerprint(), cp.Fingerprint())

	// The copy owns disjoint buffers: mutating it leaves the original
	// untouched.
	require.True(t, cp.ReplaceAtIndex(0, []byte("changed")))
	cp.PushTail(8, []byte("extra"))

	e, ok := l.Index(0)
	require.True(t, ok)
	require.Equal(t, "item-0", e.Value.String())
	require.Equal(t, 100, l.Len())
	require.NotEqual(t, l.Fingerprint(), cp.Fingerprint())
}

func TestDupEmpty(t *testing.T) {
	cp := New().Dup()
	require.Equal(t, 0, cp.Len())
	require.NoError(t, cp.Validate())
}

func TestFingerprint(t *testing.T) {
	a := New()
	b := New()
	pushWords(a, 2, "x", "y", "42")
	pushWords(b, 100, "x", "y", "42")

	// Equal sequences hash equal regardless of segment layout.
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	// Order matters.
	c := New()
	pushWords(c, 2, "y", "x", "42")
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	// Value boundaries matter: ["ab"] and ["a","b"] must differ.
	d := New()
	e := New()
	pushWords(d, 2, "ab")
	pushWords(e, 2, "a", "b")
	require.NotEqual(t, d.Fingerprint(), e.Fingerprint())

	require.Equal(t, New().Fingerprint(), New().Fingerprint())
}

func TestAppendPacked(t *testing.T) {
	seg := segment.New()
	for _, v := range []string{"p", "q", "777"} {
		seg = seg.Push([]byte(v), segment.Tail)
	}

	l := New()
	pushWords(l, 2, "a", "b")
	require.NoError(t, l.AppendPacked(seg))

	require.Equal(t, []string{"a", "b", "p", "q", "777"}, values(l))
	require.Equal(t, 5, l.Len())
	require.Equal(t, 2, l.SegmentCount())
	require.NoError(t, l.Validate())
}

func TestAppendPackedRejectsEmpty(t *testing.T) {
	l := New()
	err := l.AppendPacked(segment.New())
	require.ErrorIs(t, err, errs.ErrEmptySegment)
	require.Equal(t, 0, l.Len())
}

func TestAppendPackedRejectsCorrupt(t *testing.T) {
	seg := segment.New().Push([]byte("v"), segment.Tail)
	seg[len(seg)-1] = 0x00

	l := New()
	err := l.AppendPacked(seg)
	require.ErrorIs(t, err, errs.ErrBadTerminator)
	require.Equal(t, 0, l.Len())
	require.Equal(t, 0, l.SegmentCount())
}

func TestResetDropsEverything(t *testing.T) {
	l := New()
	pushWords(l, 2, "a", "b", "c")

	l.Reset()
	require.Equal(t, 0, l.Len())
	require.Equal(t, 0, l.SegmentCount())
	require.NoError(t, l.Validate())

	l.PushTail(2, []byte("again"))
	require.Equal(t, []string{"again"}, values(l))
}
