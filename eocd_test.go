package zipvfs

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindEOCD(t *testing.T) {
	data := buildZip(t, []zipEntrySpec{{name: "a.txt", data: []byte("hi"), method: zip.Store}})

	src := memSource{Reader: bytes.NewReader(data)}
	pos, err := findEOCD(src)
	require.NoError(t, err)

	length, err := sourceLen(src)
	require.NoError(t, err)
	assert.Equal(t, length-22, pos)
}

func TestFindEOCDWithSelfExtractingPrefix(t *testing.T) {
	zipData := buildZip(t, []zipEntrySpec{{name: "a.txt", data: []byte("hi"), method: zip.Store}})

	prefix := make([]byte, 4096)
	for i := range prefix {
		prefix[i] = byte(i)
	}
	data := append(prefix, zipData...)

	src := memSource{Reader: bytes.NewReader(data)}
	pos, err := findEOCD(src)
	require.NoError(t, err)

	length, err := sourceLen(src)
	require.NoError(t, err)
	assert.Equal(t, length-22, pos)
}

func TestFindEOCDNotAnArchive(t *testing.T) {
	src := memSource{Reader: bytes.NewReader([]byte("this is not a zip file at all"))}
	_, err := findEOCD(src)
	assert.ErrorIs(t, err, ErrNotArchive)
}

func TestIsArchive(t *testing.T) {
	data := buildZip(t, []zipEntrySpec{{name: "a.txt", data: []byte("hi"), method: zip.Store}})

	assert.True(t, IsArchive(memSource{Reader: bytes.NewReader(data)}))
	assert.False(t, IsArchive(memSource{Reader: bytes.NewReader([]byte("nope"))}))
}
