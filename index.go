package zipvfs

import (
	"bytes"
	"sort"
)

// sortEntries sorts entries in place, ascending by byte-wise name compare.
// spec.md §4.4 and §9 note the original C source's quicksort/insertion-sort
// split has an inverted threshold test and is not worth reproducing: "the
// SPEC requires fully sorted ascending regardless — implementers must simply
// sort." sort.Slice is the only grounded choice in the corpus; no example
// repo or original_source file implements or imports a custom sort routine
// for byte strings.
func sortEntries(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].name, entries[j].name) < 0
	})
}

// find performs an exact binary search by name, returning the matching
// entry's index or -1 if absent.
func find(entries []*Entry, name []byte) int {
	i := sort.Search(len(entries), func(i int) bool {
		return bytes.Compare(entries[i].name, name) >= 0
	})
	if i < len(entries) && bytes.Equal(entries[i].name, name) {
		return i
	}
	return -1
}

// findStartOfDir implements spec.md §4.6's zip_find_start_of_dir: treats dir
// as a directory prefix (stripping one trailing '/'), and returns the index
// of the first entry whose name lies inside that directory (i.e. starts with
// dir + "/"). Returns -1 if no such entry exists. The root directory ("")
// always starts at index 0, matching spec.md's special case (but still
// returns -1 on an empty archive, since there is nothing "inside" it).
//
// stopOnFirstFind short-circuits the search as soon as any in-directory
// match is seen (for isDirectory-style existence checks); otherwise the
// search continues narrowing to the leftmost such match (for enumeration,
// which needs to start iterating from the first child).
func findStartOfDir(entries []*Entry, dir string, stopOnFirstFind bool) int {
	d := dir
	if len(d) > 0 && d[len(d)-1] == '/' {
		d = d[:len(d)-1]
	}

	if d == "" {
		if len(entries) == 0 {
			return -1
		}
		return 0
	}

	dlen := len(d)
	lo, hi := 0, len(entries)

	for lo < hi {
		mid := (lo + hi) / 2
		name := entries[mid].name

		switch cmpDirPrefix(name, d, dlen) {
		case -1:
			lo = mid + 1
		case 1:
			hi = mid
		default: // 0: inside the directory
			if stopOnFirstFind {
				return mid
			}
			hi = mid
		}
	}

	if lo < len(entries) && cmpDirPrefix(entries[lo].name, d, dlen) == 0 {
		return lo
	}
	return -1
}

// cmpDirPrefix compares name against the directory prefix d (of length
// dlen), per spec.md §4.6: compare the first dlen bytes; if equal, inspect
// the byte at position dlen. '<' '/' sorts the candidate earlier (-1), '>'
// '/' sorts it later (+1), '==' '/' means the candidate lies inside the
// directory (0). A name shorter than dlen, or not matching the prefix at
// all, falls back to an ordinary byte compare against d so binary search
// still converges correctly outside the directory's run.
func cmpDirPrefix(name []byte, d string, dlen int) int {
	if len(name) < dlen {
		return bytes.Compare(name, []byte(d))
	}

	c := bytes.Compare(name[:dlen], []byte(d))
	if c != 0 {
		return c
	}
	if len(name) == dlen {
		// name == d exactly: this is the directory's own self-entry, which
		// sorts before anything inside it.
		return -1
	}

	switch b := name[dlen]; {
	case b < '/':
		return -1
	case b > '/':
		return 1
	default:
		return 0
	}
}
