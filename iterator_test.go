package seqlist

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func pushWords(l *List, fill int, words ...string) {
	for _, w := range words {
		l.PushTail(fill, []byte(w))
	}
}

func TestIteratorForward(t *testing.T) {
	l := New()
	pushWords(l, 3, "a", "b", "c", "d", "e", "f", "g")

	var got []string
	it := l.Iterator(Forward)
	for it.Next() {
		got = append(got, it.Entry().Value.String())
	}
	require.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, got)
}

func TestIteratorReverse(t *testing.T) {
	l := New()
	pushWords(l, 3, "a", "b", "c", "d", "e", "f", "g")

	var got []string
	it := l.Iterator(Reverse)
	for it.Next() {
		got = append(got, it.Entry().Value.String())
	}
	require.Equal(t, []string{"g", "f", "e", "d", "c", "b", "a"}, got)
}

func TestIteratorEmptyList(t *testing.T) {
	l := New()
	require.False(t, l.Iterator(Forward).Next())
	require.False(t, l.Iterator(Reverse).Next())
	require.Nil(t, l.IteratorAt(Forward, 0))
}

func TestIteratorAt(t *testing.T) {
	l := New()
	pushWords(l, 3, "a", "b", "c", "d", "e", "f", "g")

	it := l.IteratorAt(Forward, 4)
	var got []string
	for it.Next() {
		got = append(got, it.Entry().Value.String())
	}
	require.Equal(t, []string{"e", "f", "g"}, got)

	it = l.IteratorAt(Reverse, -3)
	got = nil
	for it.Next() {
		got = append(got, it.Entry().Value.String())
	}
	require.Equal(t, []string{"e", "d", "c", "b", "a"}, got)

	require.Nil(t, l.IteratorAt(Forward, 7))
	require.Nil(t, l.IteratorAt(Reverse, -8))
}

// Deleting matching entries mid-iteration keeps the remaining sequence
// intact and visits every element exactly once.
func TestIteratorDeleteMatches(t *testing.T) {
	words := []string{"abc", "foo", "bar", "foobar", "foobared", "zap", "bar", "test", "foo"}
	want := []string{"abc", "foo", "foobar", "foobared", "zap", "test", "foo"}

	for _, fill := range []int{1, 2, 32} {
		t.Run("fill="+strconv.Itoa(fill), func(t *testing.T) {
			l := New()
			pushWords(l, fill, words...)

			visited := 0
			it := l.Iterator(Forward)
			for it.Next() {
				visited++
				if it.Entry().Compare([]byte("bar")) {
					it.Delete()
				}
			}

			require.Equal(t, len(words), visited)
			require.Equal(t, want, values(l))
			require.NoError(t, l.Validate())
		})
	}
}

func TestIteratorDeleteReverse(t *testing.T) {
	for _, fill := range []int{1, 2, 32} {
		t.Run("fill="+strconv.Itoa(fill), func(t *testing.T) {
			l := New()
			pushWords(l, fill, "a", "bar", "b", "bar", "c")

			it := l.Iterator(Reverse)
			var seen []string
			for it.Next() {
				seen = append(seen, it.Entry().Value.String())
				if it.Entry().Compare([]byte("bar")) {
					it.Delete()
				}
			}

			require.Equal(t, []string{"c", "bar", "b", "bar", "a"}, seen)
			require.Equal(t, []string{"a", "b", "c"}, values(l))
			require.NoError(t, l.Validate())
		})
	}
}

func TestIteratorDeleteAll(t *testing.T) {
	for _, dir := range []Direction{Forward, Reverse} {
		l := New()
		pushWords(l, 2, "a", "b", "c", "d", "e")

		it := l.Iterator(dir)
		for it.Next() {
			it.Delete()
		}

		require.Equal(t, 0, l.Len())
		require.Equal(t, 0, l.SegmentCount())
		require.NoError(t, l.Validate())
	}
}

func TestIteratorDeleteConsecutive(t *testing.T) {
	l := New()
	pushWords(l, 3, "x", "del", "del", "del", "y")

	it := l.Iterator(Forward)
	for it.Next() {
		if it.Entry().Compare([]byte("del")) {
			it.Delete()
		}
	}

	require.Equal(t, []string{"x", "y"}, values(l))
	require.NoError(t, l.Validate())
}

func TestIteratorDeleteWithoutNext(t *testing.T) {
	l := New()
	pushWords(l, 2, "a", "b")

	// Delete before the first Next, and a double Delete, are no-ops.
	it := l.Iterator(Forward)
	it.Delete()
	require.Equal(t, 2, l.Len())

	require.True(t, it.Next())
	it.Delete()
	it.Delete()
	require.Equal(t, 1, l.Len())
	require.Equal(t, []string{"b"}, values(l))
}

func TestAllEarlyBreak(t *testing.T) {
	l := New()
	pushWords(l, 2, "a", "b", "c", "d")

	var got []string
	for i, v := range l.All() {
		if i == 2 {
			break
		}
		got = append(got, v.String())
	}
	require.Equal(t, []string{"a", "b"}, got)
}

func TestBackwardOrdinals(t *testing.T) {
	l := New()
	pushWords(l, 2, "a", "b", "c")

	var ords []int
	var got []string
	for i, v := range l.Backward() {
		ords = append(ords, i)
		got = append(got, v.String())
	}
	require.Equal(t, []int{0, 1, 2}, ords)
	require.Equal(t, []string{"c", "b", "a"}, got)
}
