package zipvfs

import "io"

// ByteSource is the platform I/O abstraction this package depends on: a
// little-endian, seekable byte source. A local file, an in-memory buffer, or
// s3src's ranged-GetObject reader all satisfy it.
//
// Open-file handles each own an independent ByteSource (see Opener), so
// concurrent reads against the same Archive do not contend on seek
// position; resolving an Entry is not safe to do concurrently with itself,
// since resolve mutates the Entry without any locking.
type ByteSource interface {
	io.ReadSeeker
	io.Closer
}

// Opener produces a fresh ByteSource positioned at the start of the archive's
// bytes. OpenArchive calls it once to parse the central directory; resolve
// and OpenRead each call it again to get an independent handle.
type Opener func() (ByteSource, error)

// sourceLen returns the total length of src without disturbing its current
// position.
func sourceLen(src io.ReadSeeker) (int64, error) {
	cur, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err = src.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return end, nil
}

// ZIP structure signatures, little-endian encoded 32-bit magic numbers.
const (
	sigLocalFileHeader = 0x04034b50
	sigCentralDirHdr   = 0x02014b50
	sigEndOfCentralDir = 0x06054b50
)

// compression methods this package understands. Any other value recorded on
// an Entry is rejected with ErrUnsupported at open-read time, not at archive
// open time (spec.md §9).
const (
	methodStore   = 0
	methodDeflate = 8
)

// host-type codes (high byte of version-made-by) that never carry UNIX mode
// bits in their external attributes. Anything outside this set is treated as
// UNIX-like for the purposes of symlink detection.
var nonUnixHostTypes = map[byte]bool{
	0:  true, // FAT
	1:  true, // Amiga
	2:  true, // VMS
	4:  true, // VM/CMS
	6:  true, // HPFS
	11: true, // NTFS
	13: true, // Acorn
	14: true, // VFAT
	15: true, // MVS
	18: true, // THEOS
}

const (
	sIFLNK = 0o120000
	sIFMT  = 0o170000
)
