package zipvfs

import (
	"errors"
	"fmt"
	"strings"
)

// Exists reports whether name names any entry in the archive, file or
// directory. A directory "exists" purely as a prefix of other entries'
// names (spec.md §4.10) — there is no separate directory record to find.
func (a *Archive) Exists(name string) bool {
	if findStartOfDir(a.entries, name, true) >= 0 {
		return true
	}
	return a.entryIndex(name) >= 0
}

// IsDirectory reports whether name is a directory: either directly (some
// entry's name has name+"/" as a prefix) or, failing that, because name is
// a symlink whose fully resolved target is itself a directory by the same
// rule. A plain file entry that is not a directory prefix and not a
// symlink is definitively not a directory.
//
// Grounded on original_source/archivers/zip.c's ZIP_isDirectory: try the
// directory-prefix lookup first: if anything sorts inside name as a
// directory, it's definitely a directory. Otherwise look up name exactly;
// if it is an unresolved symlink, resolve it now (opening a fresh source),
// then redo the directory-prefix lookup against the resolved target's
// name, not against any flag on the target entry itself.
func (a *Archive) IsDirectory(name string) (bool, error) {
	if findStartOfDir(a.entries, name, true) >= 0 {
		return true, nil
	}

	idx := a.entryIndex(name)
	if idx < 0 {
		return false, fmt.Errorf("%w: %q", ErrNoSuchFile, name)
	}

	e := a.entries[idx]
	if e.state == stateUnresolvedSymlink {
		if err := a.resolve(idx); err != nil {
			if errors.Is(err, ErrSymlinkLoop) {
				return false, err
			}
			return false, nil
		}
		e = a.entries[idx]
	}

	if e.state == stateBrokenSymlink {
		return false, nil
	}
	if e.symlink < 0 {
		return false, nil
	}

	return findStartOfDir(a.entries, a.entries[e.symlink].Name(), true) >= 0, nil
}

// IsSymLink reports whether name names a symlink entry: unresolved,
// resolved-to-a-target, or broken. A plain file or directory is not a
// symlink.
func (a *Archive) IsSymLink(name string) (bool, error) {
	idx := a.entryIndex(name)
	if idx < 0 {
		return false, fmt.Errorf("%w: %q", ErrNoSuchFile, name)
	}

	switch e := a.entries[idx]; e.state {
	case stateUnresolvedSymlink, stateBrokenSymlink:
		return true, nil
	case stateResolved:
		return e.symlink >= 0, nil
	default:
		return false, nil
	}
}

// GetLastModTime returns name's recorded modification time (seconds since
// the Unix epoch), or -1 if name does not exist. Directories that exist
// only as a prefix of other entries carry no modification time of their
// own and also report -1.
func (a *Archive) GetLastModTime(name string) int64 {
	idx := a.entryIndex(name)
	if idx < 0 {
		return -1
	}
	return a.entries[idx].modTime
}

// Enumerate lists the immediate children of dir: files and subdirectories
// one path component below dir, deduplicating repeated subdirectory
// prefixes the same way spec.md §4.10 and Lemon4ksan-GoZip/zip_fs.go's
// ReadDir do, but walking the single sorted-prefix run the index already
// gives us instead of building a map. If omitSymlinks is true, entries
// that are symlinks (resolved or not) are left out of the result.
func (a *Archive) Enumerate(dir string, omitSymlinks bool) ([]string, error) {
	start := findStartOfDir(a.entries, dir, false)
	if start < 0 {
		if !a.Exists(dir) {
			return nil, fmt.Errorf("%w: %q", ErrNoSuchFile, dir)
		}
		return nil, nil
	}

	prefix := strings.TrimSuffix(dir, "/")
	var prefixLen int
	if prefix != "" {
		prefixLen = len(prefix) + 1 // account for the separating '/'
	}

	var names []string
	var lastChild string

	for i := start; i < len(a.entries); i++ {
		e := a.entries[i]
		name := e.Name()

		if prefix != "" {
			if !strings.HasPrefix(name, prefix+"/") {
				break
			}
		}

		rel := name[prefixLen:]
		if rel == "" {
			continue
		}

		child := rel
		if j := strings.IndexByte(rel, '/'); j >= 0 {
			child = rel[:j]
		}

		if child == lastChild {
			continue
		}
		lastChild = child

		if omitSymlinks && child == rel {
			if e.state == stateUnresolvedSymlink || e.state == stateBrokenSymlink ||
				(e.state == stateResolved && e.symlink >= 0) {
				continue
			}
		}

		names = append(names, child)
	}

	return names, nil
}
