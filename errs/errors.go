// Package errs defines the sentinel errors shared across seqlist packages.
//
// All errors are plain sentinels suitable for errors.Is checks. Call sites
// wrap them with fmt.Errorf("%w: ...") to attach context.
package errs

import "errors"

var (
	// ErrCorruptSegment indicates a packed segment whose byte layout cannot
	// be decoded: truncated buffer, invalid encoding prefix, or an entry
	// overrunning the terminator.
	ErrCorruptSegment = errors.New("corrupt segment")

	// ErrBadTerminator indicates a segment whose final byte is not the
	// 0xFF terminator, or whose entry walk does not land on it.
	ErrBadTerminator = errors.New("missing or misplaced segment terminator")

	// ErrBadPrevLength indicates an entry whose prev-entry-length field
	// disagrees with the actual record length of its predecessor.
	ErrBadPrevLength = errors.New("invalid prev-entry length")

	// ErrBadTailOffset indicates a segment header whose tail offset does
	// not point at the first byte of the last entry.
	ErrBadTailOffset = errors.New("invalid tail offset")

	// ErrCountMismatch indicates a stored entry count that disagrees with
	// the count obtained by scanning.
	ErrCountMismatch = errors.New("entry count mismatch")

	// ErrBrokenChain indicates a container whose doubly linked segment
	// chain is inconsistent: bad prev/next links or stale cached totals.
	ErrBrokenChain = errors.New("broken segment chain")

	// ErrEmptySegment indicates a segment with zero entries attached to a
	// container chain; empty segments must be detached immediately.
	ErrEmptySegment = errors.New("empty segment attached to chain")
)
