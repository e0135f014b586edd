package zipvfs

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// seekDiscardBufferSize is the throwaway-buffer size used by Seek's
// read-and-discard loop, per spec.md §4.9.
const seekDiscardBufferSize = 512

// OpenFile is an open read handle onto one archive entry's uncompressed
// byte stream. It implements io.Reader directly (Read(p) is spec.md §4.9's
// Read with obj_size fixed at 1) plus the Tell/EOF/Length/Seek/Close
// operations the design calls out separately.
//
// An OpenFile owns an independent ByteSource from the archive it was
// opened against (see Archive.openSource), so multiple OpenFile handles
// against the same Archive may be read and seeked independently.
type OpenFile struct {
	a     *Archive
	entry *Entry // resolved, non-symlink entry being read

	src ByteSource

	uncompressedPos int64

	// inflater is nil for STORE entries. For DEFLATE, it reads from lr,
	// which bounds it to exactly entry.compressedSize bytes of input; the
	// flate.Reader manages its own internal input buffering, so there is
	// no separate fixed-size staging buffer here the way a manual
	// feed-the-inflater loop would need one.
	inflater io.ReadCloser
	lr       *io.LimitedReader
}

// OpenRead looks up name, resolves it (following a symlink chain to its
// final non-symlink target), and opens a fresh independent ByteSource
// positioned at the resolved entry's file data, per spec.md §4.9.
func (a *Archive) OpenRead(name string) (*OpenFile, error) {
	idx := a.entryIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchFile, name)
	}

	entry, err := a.resolved(idx)
	if err != nil {
		return nil, err
	}

	f := &OpenFile{a: a, entry: entry}
	if err = f.reinit(); err != nil {
		return nil, err
	}
	return f, nil
}

// reinit (re)acquires a fresh source at the entry's data offset and resets
// all decoder state to the start of the stream. Seek uses this to
// implement DEFLATE's "full restart" backward-seek strategy.
func (f *OpenFile) reinit() error {
	if f.src != nil {
		_ = f.src.Close()
	}

	src, err := f.a.openSource(f.entry.offset)
	if err != nil {
		return err
	}
	f.src = src
	f.uncompressedPos = 0

	switch f.entry.method {
	case methodStore:
		f.inflater = nil
		f.lr = nil

	case methodDeflate:
		f.lr = &io.LimitedReader{R: f.src, N: int64(f.entry.compressedSize)}
		f.inflater = flate.NewReader(f.lr)

	default:
		return fmt.Errorf("%w: compression method %d for %q", ErrUnsupported, f.entry.method, f.entry.Name())
	}

	return nil
}

// Read fills p with up to len(p) bytes of uncompressed file data, reading
// never past the entry's uncompressed size. It returns io.EOF once
// uncompressedPos has reached the entry's size; a read past EOF is not an
// error condition for the handle itself (spec.md §7) — later Seeks and
// reads continue to work normally.
func (f *OpenFile) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	avail := f.entry.Size() - f.uncompressedPos
	if avail <= 0 {
		return 0, io.EOF
	}

	want := int64(len(p))
	if want > avail {
		want = avail
	}

	var n int
	var err error
	switch f.entry.method {
	case methodStore:
		n, err = io.ReadFull(f.src, p[:want])
	default:
		n, err = io.ReadFull(f.inflater, p[:want])
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			err = &DecodeError{Entry: f.entry.Name(), Err: err}
		}
	}
	f.uncompressedPos += int64(n)

	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = fmt.Errorf("%w: %q: %v", ErrCorrupted, f.entry.Name(), err)
	}
	return n, err
}

// Tell returns the current uncompressed read position.
func (f *OpenFile) Tell() int64 { return f.uncompressedPos }

// EOF reports whether the current position has reached the entry's
// uncompressed size.
func (f *OpenFile) EOF() bool { return f.uncompressedPos >= f.entry.Size() }

// Length returns the entry's uncompressed size.
func (f *OpenFile) Length() int64 { return f.entry.Size() }

// Seek moves the read position to target, an absolute uncompressed-byte
// offset. For STORE entries this is a direct underlying seek. For DEFLATE,
// a forward seek is a read-and-discard loop from the current position; a
// backward seek fully restarts the inflater (re-opening the source and
// reinitializing decoder state) and then read-and-discards from zero,
// since DEFLATE has no general-purpose backward seek without
// checkpointing (spec.md §4.9, §9).
func (f *OpenFile) Seek(target int64) error {
	if target > f.entry.Size() {
		return ErrPastEOF
	}

	if f.entry.method == methodStore {
		if _, err := f.src.Seek(f.entry.offset+target, io.SeekStart); err != nil {
			return fmt.Errorf("zipvfs: seek %q: %w", f.entry.Name(), err)
		}
		f.uncompressedPos = target
		return nil
	}

	if target < f.uncompressedPos {
		if err := f.reinit(); err != nil {
			return err
		}
	}

	discard := make([]byte, seekDiscardBufferSize)
	for f.uncompressedPos < target {
		n := int64(len(discard))
		if remain := target - f.uncompressedPos; remain < n {
			n = remain
		}
		if _, err := f.Read(discard[:n]); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the handle's underlying source and, for DEFLATE entries,
// its inflater.
func (f *OpenFile) Close() error {
	var err error
	if f.inflater != nil {
		err = f.inflater.Close()
	}
	if f.src != nil {
		if cerr := f.src.Close(); err == nil {
			err = cerr
		}
	}
	f.inflater = nil
	f.lr = nil
	f.src = nil
	return err
}
