package zipvfs

// resolveState is the tagged-variant resolution state machine from spec.md
// §3 / §9: {Unresolved(kind), Resolving, Resolved, Broken(kind)}. It is kept
// as a flat six-value enum rather than a Go sum type (no sealed-interface
// machinery) because every transition is a simple compare-and-set guarded by
// Archive.resolve, and a flat enum is what every state-machine-shaped teacher
// file in the corpus uses (e.g. CDScanner's own err/eof booleans).
type resolveState uint8

const (
	stateUnresolvedFile resolveState = iota
	stateUnresolvedSymlink
	stateResolving
	stateResolved
	stateBrokenFile
	stateBrokenSymlink
)

// Entry represents one central-directory record. It is mutated only by
// Archive.resolve (offset fixup, state transition, symlink link); all other
// fields are fixed at archive-open time.
type Entry struct {
	name []byte // NUL-free, '/' separated, unique within the archive

	// offset starts as the local-file-header offset (prefix already applied)
	// and is advanced past the header/name/extra once resolved, at which
	// point it points at the first byte of file data.
	offset int64

	versionMadeBy   uint16
	versionNeeded   uint16
	method          uint16
	crc32           uint32
	compressedSize  uint32
	uncompressedSize uint32
	modTime         int64 // seconds since Unix epoch, local civil time per §4.5

	hostType byte // high byte of versionMadeBy

	state   resolveState
	symlink int // index into Archive.entries, or -1
}

// Name returns the entry's path within the archive, '/' separated.
func (e *Entry) Name() string { return string(e.name) }

// Size returns the uncompressed size in bytes.
func (e *Entry) Size() int64 { return int64(e.uncompressedSize) }

// CompressedSize returns the compressed size in bytes (equal to Size for
// STORE entries).
func (e *Entry) CompressedSize() int64 { return int64(e.compressedSize) }

// Method returns the recorded compression method (0 = STORE, 8 = DEFLATE, or
// any other value recorded but rejected on open).
func (e *Entry) Method() uint16 { return e.method }

// CRC32 returns the recorded CRC-32 of the uncompressed data. It is never
// verified by this package during reads (spec.md §7, §9); a caller that
// wants verification must compute it itself.
func (e *Entry) CRC32() uint32 { return e.crc32 }

// ModTime returns the entry's last-modified time as seconds since the Unix
// epoch, converted from the archive's MS-DOS date/time fields.
func (e *Entry) ModTime() int64 { return e.modTime }

// isUnresolvedSymlink reports whether the initial central-directory scan
// classified this entry as a symlink candidate (external attrs S_IFLNK bit
// under a UNIX-like host type, per spec.md §4.3) that has not resolved
// successfully: it is still unresolved, or a resolve attempt left it broken.
func (e *Entry) isUnresolvedSymlink() bool {
	return e.state == stateUnresolvedSymlink || e.state == stateBrokenSymlink
}
