package zipvfs

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"hash/crc32"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource adapts a bytes.Reader into a ByteSource for tests that build
// archives entirely in memory instead of relying on committed testdata
// files.
type memSource struct{ *bytes.Reader }

func (memSource) Close() error { return nil }

func openerFor(data []byte) Opener {
	return func() (ByteSource, error) {
		return memSource{bytes.NewReader(data)}, nil
	}
}

// zipEntrySpec describes one entry to write with buildZip.
type zipEntrySpec struct {
	name    string
	data    []byte
	method  uint16 // zip.Store or zip.Deflate
	symlink string // if non-empty, data is ignored and this is written as the link target, with a Unix symlink mode set
	dir     bool   // self-entry for an explicit directory record (name should end in "/")
}

// buildZip constructs a ZIP archive in memory using the standard library's
// archive/zip writer, the same way the teacher's tests use committed
// testdata/*.zip files — except generated at test time, since this
// exercise cannot commit binary fixtures it never ran a toolchain to
// produce. zip.FileHeader.SetMode stamps both the Unix mode bits into
// ExternalAttrs and the Unix host-type byte into CreatorVersion, so a
// symlink entry written this way is detected as a symlink candidate by
// readCDRecord exactly as it would be from a real Info-ZIP-produced
// archive.
//
// Entries are written via CreateRaw with the CRC-32 and sizes pre-computed,
// rather than CreateHeader, because CreateHeader unconditionally sets the
// data-descriptor flag for non-directory entries: the local header would
// carry zeroed CRC/size fields, which validateLocalHeader (spec.md §4.7)
// correctly rejects as a mismatch against the central directory record.
// Real-world archives this package targets (e.g. Info-ZIP's) write the
// actual CRC/sizes directly into the local header.
func buildZip(t testing.TB, entries []zipEntrySpec) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	for _, e := range entries {
		data := e.data
		if e.symlink != "" {
			data = []byte(e.symlink)
		}

		var compressed []byte
		switch e.method {
		case zip.Store:
			compressed = data
		case zip.Deflate:
			var cb bytes.Buffer
			fw, err := flate.NewWriter(&cb, flate.DefaultCompression)
			require.NoError(t, err)
			_, err = fw.Write(data)
			require.NoError(t, err)
			require.NoError(t, fw.Close())
			compressed = cb.Bytes()
		default:
			t.Fatalf("buildZip: unsupported method %d", e.method)
		}

		fh := &zip.FileHeader{
			Name:               e.name,
			Method:             e.method,
			CRC32:              crc32.ChecksumIEEE(data),
			UncompressedSize64: uint64(len(data)),
			CompressedSize64:   uint64(len(compressed)),
		}

		switch {
		case e.symlink != "":
			fh.SetMode(os.ModeSymlink | 0777)
		case e.dir:
			fh.SetMode(os.ModeDir | 0755)
		default:
			fh.SetMode(0644)
		}

		w, err := zw.CreateRaw(fh)
		require.NoError(t, err)

		_, err = w.Write(compressed)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenArchiveFrom(t *testing.T) {
	data := buildZip(t, []zipEntrySpec{
		{name: "a.txt", data: []byte("hello"), method: zip.Store},
		{name: "dir/b.txt", data: []byte("world"), method: zip.Deflate},
	})

	a, err := OpenArchiveFrom("test.zip", openerFor(data))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "test.zip", a.Name())
	assert.Equal(t, 2, len(a.entries))

	e, err := a.Lstat("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", e.Name())
	assert.EqualValues(t, 5, e.Size())

	_, err = a.Lstat("missing.txt")
	assert.ErrorIs(t, err, ErrNoSuchFile)
}

func TestArchiveStatFollowsSymlink(t *testing.T) {
	data := buildZip(t, []zipEntrySpec{
		{name: "real.txt", data: []byte("payload"), method: zip.Store},
		{name: "link.txt", symlink: "real.txt", method: zip.Store},
	})

	a, err := OpenArchiveFrom("test.zip", openerFor(data))
	require.NoError(t, err)
	defer a.Close()

	e, err := a.Stat("link.txt")
	require.NoError(t, err)
	assert.Equal(t, "real.txt", e.Name())

	lst, err := a.Lstat("link.txt")
	require.NoError(t, err)
	assert.Equal(t, "link.txt", lst.Name())
}
