// Package zipvfs presents the contents of a ZIP archive as a read-only,
// hierarchical virtual filesystem: existence checks, directory enumeration,
// modification times, UNIX-style symlink resolution, and streaming or
// random-access reads with transparent DEFLATE decompression.
//
// It implements only the ZIP archiver backend described by the design: a
// host virtual-filesystem facade (mount points, search paths, the write
// directory), the platform I/O abstraction, and error-state reporting to a
// host are all external collaborators this package does not provide. Write,
// create, mkdir, and remove are non-goals — the archive is read-only.
// Multi-disk archives, ZIP64, encryption, and compression methods other
// than STORE and DEFLATE are rejected with ErrUnsupported.
package zipvfs

import (
	"fmt"
	"io"
	"os"
)

// Archive is an opened ZIP archive: an in-memory index of every central
// directory entry, sorted by name, plus whatever is needed to reopen the
// underlying bytes on demand. Archive methods are not safe to call
// concurrently on the same entry — see the package-level concurrency note
// on ByteSource — but distinct OpenFile handles against the same Archive may
// be read and seeked independently, since each owns its own ByteSource.
type Archive struct {
	name    string
	opener  Opener
	entries []*Entry
}

// OpenArchive opens the named local file as a ZIP archive.
func OpenArchive(name string) (*Archive, error) {
	return OpenArchiveFrom(name, func() (ByteSource, error) {
		return os.Open(name)
	})
}

// OpenArchiveFrom opens a ZIP archive from an arbitrary byte source, such as
// one backed by s3src or an in-memory buffer. name is purely descriptive
// (used in error messages and as the Archive's Name); opener must return a
// freshly positioned, independent ByteSource each time it is called, since
// resolve and OpenRead each need their own handle.
//
// OpenArchiveFrom parses the end-of-central-directory record and the full
// central directory up front (spec.md §2, §4.3); it never touches a local
// file header at open time — that work is deferred to Archive.resolve on
// first use of each entry, per spec.md §9's "lazy resolve" note.
func OpenArchiveFrom(name string, opener Opener) (a *Archive, err error) {
	src, err := opener()
	if err != nil {
		return nil, fmt.Errorf("zipvfs: open %q: %w", name, err)
	}
	defer func() {
		if cerr := src.Close(); err == nil {
			err = cerr
		}
	}()

	entries, err := parseCentralDirectory(src)
	if err != nil {
		return nil, fmt.Errorf("zipvfs: open %q: %w", name, err)
	}
	sortEntries(entries)

	return &Archive{name: name, opener: opener, entries: entries}, nil
}

// Name returns the descriptive name the archive was opened with.
func (a *Archive) Name() string { return a.name }

// Close releases the archive's index and name. It does not need to close
// any byte source itself, since OpenArchiveFrom always closes the handle it
// used for the initial scan and every later operation opens and closes its
// own independent handle via Opener.
func (a *Archive) Close() error {
	a.entries = nil
	a.opener = nil
	a.name = ""
	return nil
}

// entryIndex returns the index of the named entry in a.entries, or -1.
func (a *Archive) entryIndex(name string) int {
	return find(a.entries, []byte(name))
}

// Stat returns the Entry for name, resolving it first (following a symlink
// chain down to its final non-symlink target) so the caller always gets size
// and mod-time information for the concrete file data, not the symlink
// record itself. Use Lstat to inspect the symlink record without following
// it.
func (a *Archive) Stat(name string) (*Entry, error) {
	idx := a.entryIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchFile, name)
	}
	return a.resolved(idx)
}

// Lstat returns the Entry for name without following a symlink chain.
func (a *Archive) Lstat(name string) (*Entry, error) {
	idx := a.entryIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchFile, name)
	}
	return a.entries[idx], nil
}

// resolved resolves the entry at idx and returns the entry a reader should
// actually read from: itself if it is not a symlink, or its final target if
// it is.
func (a *Archive) resolved(idx int) (*Entry, error) {
	if err := a.resolve(idx); err != nil {
		return nil, err
	}
	e := a.entries[idx]
	if e.symlink >= 0 {
		return a.entries[e.symlink], nil
	}
	return e, nil
}

// openSource opens a fresh ByteSource and seeks it to the given offset.
func (a *Archive) openSource(offset int64) (ByteSource, error) {
	src, err := a.opener()
	if err != nil {
		return nil, fmt.Errorf("zipvfs: open archive source: %w", err)
	}
	if _, err = src.Seek(offset, io.SeekStart); err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("zipvfs: seek archive source: %w", err)
	}
	return src, nil
}
