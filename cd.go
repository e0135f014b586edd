package zipvfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"
)

// eocdFixed is the 22-byte fixed portion of the end-of-central-directory
// record (spec.md §4.3), decoded with encoding/binary.Read the same way
// nguyengg-xy3/z/cd.go decodes fixedSizeCDFileHeader: field order defines the
// wire layout, not Go struct padding.
type eocdFixed struct {
	Signature         uint32
	ThisDisk          uint16
	CDStartDisk       uint16
	CDRecordsThisDisk uint16
	CDRecordsTotal    uint16
	CDSize            uint32
	CDOffset          uint32
	CommentLength     uint16
}

// cdFixed is the 46-byte fixed portion of a central directory file header.
type cdFixed struct {
	Signature         uint32
	VersionMadeBy     uint16
	VersionNeeded     uint16
	Flags             uint16
	Method            uint16
	ModTime           uint16
	ModDate           uint16
	CRC32             uint32
	CompressedSize    uint32
	UncompressedSize  uint32
	NameLength        uint16
	ExtraLength       uint16
	CommentLength     uint16
	DiskNumberStart   uint16
	InternalAttrs     uint16
	ExternalAttrs     uint32
	LocalHeaderOffset uint32
}

// parseCentralDirectory locates the EOCD, validates it, and reads every
// central-directory record into a slice of *Entry. Grounded on
// nguyengg-xy3/z/cd.go's Scan and zipper/headers.go's ExtractZipHeaders,
// merged into a single pass and extended with the single-disk and
// comment-length consistency checks spec.md §4.3 requires but the teacher
// (which assumes well-formed input) does not bother with.
func parseCentralDirectory(src io.ReadSeeker) ([]*Entry, error) {
	eocdPos, err := findEOCD(src)
	if err != nil {
		return nil, err
	}

	length, err := sourceLen(src)
	if err != nil {
		return nil, fmt.Errorf("zipvfs: determine archive length: %w", err)
	}

	if _, err = src.Seek(eocdPos, io.SeekStart); err != nil {
		return nil, fmt.Errorf("zipvfs: seek EOCD: %w", err)
	}

	var eocd eocdFixed
	if err = binary.Read(src, binary.LittleEndian, &eocd); err != nil {
		return nil, fmt.Errorf("%w: read EOCD record: %v", ErrCorrupted, err)
	}
	if eocd.Signature != sigEndOfCentralDir {
		return nil, fmt.Errorf("%w: bad EOCD signature", ErrCorrupted)
	}

	if eocd.ThisDisk != 0 || eocd.CDStartDisk != 0 {
		return nil, fmt.Errorf("%w: multi-disk archives are not supported", ErrUnsupported)
	}
	if eocd.CDRecordsThisDisk != eocd.CDRecordsTotal {
		return nil, fmt.Errorf("%w: per-disk entry count disagrees with total entry count", ErrUnsupported)
	}
	if eocd.CDRecordsTotal == 0xffff || eocd.CDSize == 0xffffffff || eocd.CDOffset == 0xffffffff {
		return nil, fmt.Errorf("%w: ZIP64 archives are not supported", ErrUnsupported)
	}
	if eocdPos+22+int64(eocd.CommentLength) != length {
		return nil, fmt.Errorf("%w: EOCD comment length does not reach end of file", ErrCorrupted)
	}

	prefix := eocdPos - (int64(eocd.CDOffset) + int64(eocd.CDSize))

	if _, err = src.Seek(int64(eocd.CDOffset)+prefix, io.SeekStart); err != nil {
		return nil, fmt.Errorf("zipvfs: seek central directory: %w", err)
	}

	entries := make([]*Entry, 0, eocd.CDRecordsTotal)
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	for i := 0; i < int(eocd.CDRecordsTotal); i++ {
		e, err := readCDRecord(src, bb, prefix)
		if err != nil {
			return nil, fmt.Errorf("zipvfs: central directory record %d: %w", i, err)
		}
		if e.compressedSize == 0xffffffff || e.uncompressedSize == 0xffffffff {
			return nil, fmt.Errorf("%w: ZIP64 entry %q is not supported", ErrUnsupported, e.Name())
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// readCDRecord reads one 46-byte-plus-variable-length central directory file
// header from src (which must already be positioned at its start) and
// returns the resulting Entry, with offset already shifted by prefix.
func readCDRecord(src io.Reader, bb *bytebufferpool.ByteBuffer, prefix int64) (*Entry, error) {
	bb.Reset()
	if _, err := bb.ReadFrom(io.LimitReader(src, 46)); err != nil {
		return nil, fmt.Errorf("read fixed header: %w", err)
	}
	if len(bb.B) < 46 {
		return nil, fmt.Errorf("%w: truncated central directory record", ErrCorrupted)
	}

	var fixed cdFixed
	if err := binary.Read(bytes.NewReader(bb.B[:46]), binary.LittleEndian, &fixed); err != nil {
		return nil, fmt.Errorf("decode fixed header: %w", err)
	}
	if fixed.Signature != sigCentralDirHdr {
		return nil, fmt.Errorf("%w: bad central directory signature", ErrCorrupted)
	}

	varLen := int(fixed.NameLength) + int(fixed.ExtraLength) + int(fixed.CommentLength)
	bb.Reset()
	if varLen > 0 {
		if _, err := bb.ReadFrom(io.LimitReader(src, int64(varLen))); err != nil {
			return nil, fmt.Errorf("read variable-length fields: %w", err)
		}
		if len(bb.B) < int(fixed.NameLength) {
			return nil, fmt.Errorf("%w: truncated file name", ErrCorrupted)
		}
	}

	name := make([]byte, fixed.NameLength)
	copy(name, bb.B[:fixed.NameLength])

	hostType := byte(fixed.VersionMadeBy >> 8)
	if hostType == 0 { // FAT
		for i, c := range name {
			if c == '\\' {
				name[i] = '/'
			}
		}
	}

	e := &Entry{
		name:             name,
		offset:           int64(fixed.LocalHeaderOffset) + prefix,
		versionMadeBy:    fixed.VersionMadeBy,
		versionNeeded:    fixed.VersionNeeded,
		method:           fixed.Method,
		crc32:            fixed.CRC32,
		compressedSize:   fixed.CompressedSize,
		uncompressedSize: fixed.UncompressedSize,
		modTime:          dosTimeToUnix(uint32(fixed.ModDate)<<16 | uint32(fixed.ModTime)),
		hostType:         hostType,
		symlink:          -1,
	}

	isSymlinkCandidate := !nonUnixHostTypes[hostType] &&
		(fixed.ExternalAttrs>>16)&sIFMT == sIFLNK &&
		fixed.UncompressedSize > 0

	if isSymlinkCandidate {
		e.state = stateUnresolvedSymlink
	} else {
		e.state = stateUnresolvedFile
	}

	return e, nil
}
