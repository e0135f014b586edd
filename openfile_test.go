package zipvfs

import (
	"archive/zip"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigBinData(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func TestOpenFileDeflateSeekForwardThenRestart(t *testing.T) {
	data := buildZip(t, []zipEntrySpec{
		{name: "big.bin", data: bigBinData(100_000), method: zip.Deflate},
	})

	a, err := OpenArchiveFrom("test.zip", openerFor(data))
	require.NoError(t, err)
	defer a.Close()

	f, err := a.OpenRead("big.bin")
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Seek(50_000))
	buf := make([]byte, 10)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	for i, b := range buf {
		assert.Equal(t, byte((50_000+i)%251), b)
	}

	// backward seek: forces a full inflater restart.
	require.NoError(t, f.Seek(10))
	buf2 := make([]byte, 5)
	n, err = f.Read(buf2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	for i, b := range buf2 {
		assert.Equal(t, byte((10+i)%251), b)
	}
}

func TestOpenFileStoreSeek(t *testing.T) {
	data := buildZip(t, []zipEntrySpec{
		{name: "plain.bin", data: bigBinData(1000), method: zip.Store},
	})

	a, err := OpenArchiveFrom("test.zip", openerFor(data))
	require.NoError(t, err)
	defer a.Close()

	f, err := a.OpenRead("plain.bin")
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Seek(500))
	buf := make([]byte, 10)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, byte(500%251), buf[0])
	assert.EqualValues(t, 510, f.Tell())
}

func TestOpenFileReadPastEOF(t *testing.T) {
	data := buildZip(t, []zipEntrySpec{{name: "small.txt", data: []byte("hi"), method: zip.Store}})

	a, err := OpenArchiveFrom("test.zip", openerFor(data))
	require.NoError(t, err)
	defer a.Close()

	f, err := a.OpenRead("small.txt")
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 2)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, f.EOF())

	n, err = f.Read(buf)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenFileSeekPastEOF(t *testing.T) {
	data := buildZip(t, []zipEntrySpec{{name: "small.txt", data: []byte("hi"), method: zip.Store}})

	a, err := OpenArchiveFrom("test.zip", openerFor(data))
	require.NoError(t, err)
	defer a.Close()

	f, err := a.OpenRead("small.txt")
	require.NoError(t, err)
	defer f.Close()

	assert.ErrorIs(t, f.Seek(100), ErrPastEOF)
}
