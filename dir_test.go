package zipvfs

import (
	"archive/zip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestArchive(t *testing.T, entries []zipEntrySpec) *Archive {
	t.Helper()
	data := buildZip(t, entries)
	a, err := OpenArchiveFrom("test.zip", openerFor(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestExists(t *testing.T) {
	a := openTestArchive(t, []zipEntrySpec{
		{name: "a.txt", data: []byte("x"), method: zip.Store},
		{name: "dir/b.txt", data: []byte("y"), method: zip.Store},
	})

	assert.True(t, a.Exists("a.txt"))
	assert.True(t, a.Exists("dir/b.txt"))
	assert.True(t, a.Exists("dir")) // implicit directory prefix
	assert.False(t, a.Exists("nope.txt"))
}

func TestIsDirectory(t *testing.T) {
	a := openTestArchive(t, []zipEntrySpec{
		{name: "a.txt", data: []byte("x"), method: zip.Store},
		{name: "dir", data: []byte{}, method: zip.Store},
		{name: "dir/b.txt", data: []byte("y"), method: zip.Store},
		{name: "link-to-dir", symlink: "dir", method: zip.Store},
	})

	isDir, err := a.IsDirectory("dir")
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = a.IsDirectory("a.txt")
	require.NoError(t, err)
	assert.False(t, isDir)

	isDir, err = a.IsDirectory("link-to-dir")
	require.NoError(t, err)
	assert.True(t, isDir)

	_, err = a.IsDirectory("missing")
	assert.ErrorIs(t, err, ErrNoSuchFile)
}

func TestIsSymLink(t *testing.T) {
	a := openTestArchive(t, []zipEntrySpec{
		{name: "real.txt", data: []byte("x"), method: zip.Store},
		{name: "link.txt", symlink: "real.txt", method: zip.Store},
	})

	isLink, err := a.IsSymLink("link.txt")
	require.NoError(t, err)
	assert.True(t, isLink)

	isLink, err = a.IsSymLink("real.txt")
	require.NoError(t, err)
	assert.False(t, isLink)
}

func TestGetLastModTime(t *testing.T) {
	a := openTestArchive(t, []zipEntrySpec{
		{name: "a.txt", data: []byte("x"), method: zip.Store},
	})

	assert.NotEqual(t, int64(-1), a.GetLastModTime("a.txt"))
	assert.Equal(t, int64(-1), a.GetLastModTime("missing"))
}

func TestEnumerate(t *testing.T) {
	a := openTestArchive(t, []zipEntrySpec{
		{name: "a.txt", data: []byte("x"), method: zip.Store},
		{name: "dir/b.txt", data: []byte("y"), method: zip.Store},
		{name: "dir/sub/c.txt", data: []byte("z"), method: zip.Store},
		{name: "link.txt", symlink: "a.txt", method: zip.Store},
	})

	root, err := a.Enumerate("", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "dir", "link.txt"}, root)

	rootNoLinks, err := a.Enumerate("", true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "dir"}, rootNoLinks)

	children, err := a.Enumerate("dir", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b.txt", "sub"}, children)
}
