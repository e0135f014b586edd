package zipvfs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds named in the design: not-an-archive,
// corrupted, unsupported-archive, no-such-file, not-a-directory, past-EOF,
// symlink-loop, and read-only. Callers should check with errors.Is: the
// failures this package detects itself wrap one of these with
// fmt.Errorf("%w: ..."), while I/O errors from a ByteSource are wrapped
// as they are and DEFLATE decoder failures are returned as a *DecodeError.
var (
	// ErrNotArchive is returned when a source has no end-of-central-directory
	// record within the bytes this package is willing to scan.
	ErrNotArchive = errors.New("zipvfs: not an archive")

	// ErrCorrupted is returned when a structure parses but fails a
	// consistency check (bad signature, size mismatch, truncated record).
	ErrCorrupted = errors.New("zipvfs: corrupted archive")

	// ErrUnsupported is returned for archives using a feature this package
	// deliberately does not implement: multiple disks, ZIP64, encryption, or
	// a compression method other than STORE or DEFLATE.
	ErrUnsupported = errors.New("zipvfs: unsupported archive feature")

	// ErrNoSuchFile is returned when a name has no matching entry.
	ErrNoSuchFile = errors.New("zipvfs: no such file")

	// ErrNotDirectory names the not-a-directory error kind. No function in
	// this package returns it: IsDirectory reports a regular file as false
	// with a nil error, and Enumerate of a regular file returns no names.
	ErrNotDirectory = errors.New("zipvfs: not a directory")

	// ErrPastEOF is returned by Seek when the target offset exceeds the
	// entry's uncompressed size. It is not fatal: the handle remains usable.
	ErrPastEOF = errors.New("zipvfs: seek past end of file")

	// ErrSymlinkLoop is returned when resolving an entry recurses into an
	// entry that is already being resolved.
	ErrSymlinkLoop = errors.New("zipvfs: symlink loop")

	// ErrReadOnly is returned by any write-side operation; this package
	// never implements one itself, but it is exported for callers building
	// a host VFS facade on top that needs a canonical "read-only" error.
	ErrReadOnly = errors.New("zipvfs: archive is read-only")
)

// DecodeError wraps a failure from the underlying DEFLATE stream decoder.
type DecodeError struct {
	Entry string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("zipvfs: decode %q: %v", e.Entry, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
