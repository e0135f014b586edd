package zipvfs

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxEOCDScan bounds how far back from EOF the EOCD locator will look: the
// maximum comment length (65,535) plus the fixed 22-byte EOCD record.
const maxEOCDScan = 65_535 + 22

// eocdWindow is the size of each backward-scanning read. Windows overlap by
// eocdOverlap bytes so a signature straddling a slide boundary is still
// found, per spec.md §4.1.
const (
	eocdWindow  = 256
	eocdOverlap = 3
)

// findEOCD scans backward from the end of src for the EOCD signature
// (0x06054b50), tolerating a variable-length archive comment and an
// arbitrary-length prefix of non-ZIP data before the first ZIP structure.
//
// It returns the absolute file offset of the signature byte. Ties are
// broken toward the occurrence nearest EOF, matching the teacher's
// bytes.LastIndex idiom (nguyengg-xy3/z/cd.go findEOCD) and spec.md §4.1's
// "rightmost occurrence" requirement — within each window the scan walks
// high index to low, so a spurious earlier match never wins over a later
// one in the same window.
//
// This is grounded on nguyengg-xy3/z/cd.go's findEOCD and zipper/headers.go's
// findCDFH, both of which slide a fixed-size window backward and re-scan;
// the window size, overlap, and 65,557-byte bound are rewritten to match
// spec.md §4.1 exactly (the teacher's windows are 1024 bytes with no
// guaranteed overlap, which can miss a signature at a slide boundary).
func findEOCD(src io.ReadSeeker) (int64, error) {
	length, err := sourceLen(src)
	if err != nil {
		return 0, fmt.Errorf("zipvfs: determine archive length: %w", err)
	}

	scanned := int64(0)
	// windowEnd is the absolute offset one past the last byte of the current
	// window; it starts at EOF and slides toward the start of the file.
	windowEnd := length
	buf := make([]byte, eocdWindow)

	for scanned < maxEOCDScan && windowEnd > 0 {
		windowStart := windowEnd - eocdWindow
		if windowStart < 0 {
			windowStart = 0
		}
		n := int(windowEnd - windowStart)

		if _, err = src.Seek(windowStart, io.SeekStart); err != nil {
			return 0, fmt.Errorf("zipvfs: seek EOCD window: %w", err)
		}
		if _, err = io.ReadFull(src, buf[:n]); err != nil {
			return 0, fmt.Errorf("zipvfs: read EOCD window: %w", err)
		}

		for i := n - 4; i >= 0; i-- {
			if binary.LittleEndian.Uint32(buf[i:i+4]) == sigEndOfCentralDir {
				return windowStart + int64(i), nil
			}
		}

		scanned = length - windowStart
		if windowStart == 0 {
			break
		}
		// slide earlier, retaining eocdOverlap bytes of look-back so a
		// signature straddling this boundary is caught by the next window.
		windowEnd = windowStart + eocdOverlap
	}

	return 0, fmt.Errorf("%w: no end-of-central-directory signature within %d bytes of EOF", ErrNotArchive, maxEOCDScan)
}

// IsArchive reports whether src looks like a ZIP archive: either it begins
// with the local-file-header signature, or the EOCD locator can find a
// trailer. It never returns an error; any failure to probe is reported as
// false, matching spec.md §4.2's isArchive contract.
func IsArchive(src io.ReadSeeker) bool {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return false
	}

	var head [4]byte
	if _, err := io.ReadFull(src, head[:]); err == nil {
		if binary.LittleEndian.Uint32(head[:]) == sigLocalFileHeader {
			return true
		}
	}

	_, err := findEOCD(src)
	return err == nil
}
