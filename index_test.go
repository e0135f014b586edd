package zipvfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func entriesFor(names ...string) []*Entry {
	es := make([]*Entry, len(names))
	for i, n := range names {
		es[i] = &Entry{name: []byte(n), symlink: -1}
	}
	sortEntries(es)
	return es
}

func TestFind(t *testing.T) {
	es := entriesFor("a.txt", "dir/b.txt", "dir/c.txt", "z.txt")

	idx := find(es, []byte("dir/b.txt"))
	assert.Equal(t, "dir/b.txt", es[idx].Name())

	assert.Equal(t, -1, find(es, []byte("nope.txt")))
}

func TestFindStartOfDir(t *testing.T) {
	es := entriesFor(
		"a.txt",
		"dir",
		"dir/b.txt",
		"dir/c.txt",
		"dirx.txt",
		"z.txt",
	)

	// root directory always starts at index 0.
	assert.Equal(t, 0, findStartOfDir(es, "", false))

	// "dir" itself (the self-entry with no trailing slash) sorts before
	// anything inside it, so the directory's contents start one past it.
	start := findStartOfDir(es, "dir", false)
	assert.Equal(t, "dir/b.txt", es[start].Name())

	// stopOnFirstFind still lands inside the directory's run, just not
	// necessarily at its first member.
	stopEarly := findStartOfDir(es, "dir", true)
	assert.True(t, stopEarly >= start)
	assert.Contains(t, es[stopEarly].Name(), "dir/")

	// a directory with no entries inside it is not found.
	assert.Equal(t, -1, findStartOfDir(es, "nonexistent", false))
}

func TestFindStartOfDirEmptyArchive(t *testing.T) {
	assert.Equal(t, -1, findStartOfDir(nil, "", false))
}
