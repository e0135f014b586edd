package zipvfs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
)

// localFixed is the 30-byte fixed portion of a local file header.
type localFixed struct {
	Signature        uint32
	VersionNeeded    uint16
	Flags            uint16
	Method           uint16
	ModTime          uint16
	ModDate          uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	NameLength       uint16
	ExtraLength      uint16
}

// resolve performs spec.md §4.7's on-first-use resolution of the entry at
// index idx: idempotent, fails fast on a cached terminal failure, and
// detects cycles by observing its own "resolving" marker on re-entry (the
// state machine recommended by spec.md §9: a recursive call landing on
// stateResolving proves a cycle without any separate visited-set).
func (a *Archive) resolve(idx int) error {
	e := a.entries[idx]

	switch e.state {
	case stateResolved:
		return nil
	case stateBrokenFile, stateBrokenSymlink:
		return fmt.Errorf("%w: entry previously failed to resolve", ErrCorrupted)
	case stateResolving:
		return ErrSymlinkLoop
	}

	wantSymlink := e.state == stateUnresolvedSymlink
	e.state = stateResolving

	src, err := a.opener()
	if err != nil {
		e.state = brokenState(wantSymlink)
		return fmt.Errorf("zipvfs: open archive source to resolve %q: %w", e.Name(), err)
	}
	defer src.Close()

	n, extraLen, err := validateLocalHeader(src, e)
	if err != nil {
		e.state = brokenState(wantSymlink)
		return err
	}
	e.offset += 30 + int64(n) + int64(extraLen)

	if _, err = io.CopyN(io.Discard, src, int64(n)+int64(extraLen)); err != nil {
		e.state = brokenState(wantSymlink)
		return fmt.Errorf("%w: skip name/extra fields for %q: %v", ErrCorrupted, e.Name(), err)
	}

	if !wantSymlink {
		e.state = stateResolved
		return nil
	}

	target, err := readSymlinkTarget(src, e)
	if err != nil {
		e.state = stateBrokenSymlink
		return err
	}

	if e.hostType == 0 { // FAT
		target = strings.ReplaceAll(target, "\\", "/")
	}
	target = normalizeSymlinkTarget(target)

	targetIdx := find(a.entries, []byte(target))
	if targetIdx < 0 {
		e.state = stateBrokenSymlink
		return fmt.Errorf("%w: symlink %q targets missing entry %q", ErrCorrupted, e.Name(), target)
	}

	if err = a.resolve(targetIdx); err != nil {
		e.state = stateBrokenSymlink
		return err
	}

	final := a.entries[targetIdx]
	if final.symlink >= 0 {
		targetIdx = final.symlink
	}
	e.symlink = targetIdx
	e.state = stateResolved
	return nil
}

// brokenState picks the terminal failure state matching whether the entry
// being resolved was a symlink candidate or a plain file.
func brokenState(wasSymlink bool) resolveState {
	if wasSymlink {
		return stateBrokenSymlink
	}
	return stateBrokenFile
}

// validateLocalHeader seeks src to e.offset (the still-unfixed local header
// offset), parses the 30-byte fixed local file header, and cross-checks it
// against the central directory record already parsed for e, per spec.md
// §4.7. It returns the local header's name and extra field lengths so the
// caller can compute the file-data start offset.
func validateLocalHeader(src ByteSource, e *Entry) (nameLen, extraLen uint16, err error) {
	if _, err = src.Seek(e.offset, io.SeekStart); err != nil {
		return 0, 0, fmt.Errorf("zipvfs: seek local header for %q: %w", e.Name(), err)
	}

	var fixed localFixed
	if err = binary.Read(src, binary.LittleEndian, &fixed); err != nil {
		return 0, 0, fmt.Errorf("%w: read local header for %q: %v", ErrCorrupted, e.Name(), err)
	}

	switch {
	case fixed.Signature != sigLocalFileHeader:
		return 0, 0, fmt.Errorf("%w: bad local header signature for %q", ErrCorrupted, e.Name())
	case fixed.Flags&0x1 != 0:
		return 0, 0, fmt.Errorf("%w: encrypted entry %q", ErrUnsupported, e.Name())
	case fixed.VersionNeeded != e.versionNeeded:
		return 0, 0, fmt.Errorf("%w: local header version-needed mismatch for %q", ErrCorrupted, e.Name())
	case fixed.Method != e.method:
		return 0, 0, fmt.Errorf("%w: local header method mismatch for %q", ErrCorrupted, e.Name())
	case fixed.CRC32 != e.crc32:
		return 0, 0, fmt.Errorf("%w: local header CRC-32 mismatch for %q", ErrCorrupted, e.Name())
	case fixed.CompressedSize != e.compressedSize:
		return 0, 0, fmt.Errorf("%w: local header compressed size mismatch for %q", ErrCorrupted, e.Name())
	case fixed.UncompressedSize != e.uncompressedSize:
		return 0, 0, fmt.Errorf("%w: local header uncompressed size mismatch for %q", ErrCorrupted, e.Name())
	}

	return fixed.NameLength, fixed.ExtraLength, nil
}

// readSymlinkTarget reads and decompresses the full content of a symlink
// entry: its file data, per spec.md §4.7, is the link's textual target, not
// NUL-terminated. src must already be positioned at the file-data start —
// the caller must have skipped past the local header's name and extra
// fields, which validateLocalHeader only measures and does not itself skip.
func readSymlinkTarget(src io.Reader, e *Entry) (string, error) {
	lr := io.LimitReader(src, int64(e.compressedSize))

	switch e.method {
	case methodStore:
		buf := make([]byte, e.uncompressedSize)
		if _, err := io.ReadFull(lr, buf); err != nil {
			return "", fmt.Errorf("%w: read symlink target for %q: %v", ErrCorrupted, e.Name(), err)
		}
		return string(buf), nil

	case methodDeflate:
		fr := flate.NewReader(lr)
		defer fr.Close()

		buf := make([]byte, e.uncompressedSize)
		if _, err := io.ReadFull(fr, buf); err != nil {
			return "", &DecodeError{Entry: e.Name(), Err: err}
		}
		return string(buf), nil

	default:
		return "", fmt.Errorf("%w: compression method %d for %q", ErrUnsupported, e.method, e.Name())
	}
}

// isLoop reports whether err denotes a symlink cycle, a thin readability
// helper over errors.Is(err, ErrSymlinkLoop).
func isLoop(err error) bool {
	return errors.Is(err, ErrSymlinkLoop)
}
