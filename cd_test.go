package zipvfs

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCentralDirectory(t *testing.T) {
	data := buildZip(t, []zipEntrySpec{
		{name: "a.txt", data: []byte("hello"), method: zip.Store},
		{name: "dir/b.txt", data: bytes.Repeat([]byte("x"), 1000), method: zip.Deflate},
	})

	entries, err := parseCentralDirectory(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]*Entry{}
	for _, e := range entries {
		byName[e.Name()] = e
	}

	a := byName["a.txt"]
	require.NotNil(t, a)
	assert.EqualValues(t, 5, a.Size())
	assert.Equal(t, uint16(methodStore), a.Method())

	b := byName["dir/b.txt"]
	require.NotNil(t, b)
	assert.EqualValues(t, 1000, b.Size())
	assert.Equal(t, uint16(methodDeflate), b.Method())
}

func TestParseCentralDirectoryMultiDiskRejected(t *testing.T) {
	// Hand-build a minimal, otherwise-valid EOCD record with ThisDisk != 0
	// to exercise the single-disk validation that archive/zip's writer
	// never exercises for us, since it never emits multi-disk archives.
	var buf bytes.Buffer
	eocd := eocdFixed{
		Signature:         sigEndOfCentralDir,
		ThisDisk:          1,
		CDStartDisk:       0,
		CDRecordsThisDisk: 0,
		CDRecordsTotal:    0,
		CDSize:            0,
		CDOffset:          0,
		CommentLength:     0,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &eocd))

	_, err := parseCentralDirectory(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParseCentralDirectoryBadCommentLength(t *testing.T) {
	var buf bytes.Buffer
	eocd := eocdFixed{
		Signature:     sigEndOfCentralDir,
		CommentLength: 5, // claims 5 bytes of comment that are not actually present
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &eocd))

	_, err := parseCentralDirectory(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrCorrupted)
}
