package zipvfs

import "strings"

// normalizeSymlinkTarget applies spec.md §4.8's '.'/'..' collapse to a
// symlink target path read from a symlink entry's file data. It scans
// components left to right, dropping "." components and popping the
// previous component on "..", but leaves a ".." in place when there is no
// preceding component to collapse against — spec.md is explicit that
// "absolute-to-root is not handled specially": there is no special case for
// a leading '/', so a leading empty component (from an absolute path) is
// just another poppable component like any other.
//
// This is grounded on original_source/archivers/zip.c's
// zip_expand_symlink_path, which performs the same collapse via in-place
// pointer/memmove surgery on a C string; that function's literal control
// flow never advances its scan pointer past a non-dot component (it only
// does for the dot cases), which would not terminate on an ordinary
// multi-component path with no "." or ".." segments. spec.md §4.8 describes
// the intended per-component semantics, not that control-flow quirk, so this
// is a component-stack reimplementation of the described behavior rather
// than a byte-for-byte port of the C function.
func normalizeSymlinkTarget(path string) string {
	components := strings.Split(path, "/")
	stack := make([]string, 0, len(components))

	for _, c := range components {
		switch c {
		case ".":
			// current dir: drop it.
		case "..":
			if len(stack) > 0 && stack[len(stack)-1] != ".." {
				stack = stack[:len(stack)-1]
			} else {
				// nothing to collapse backward against: keep it.
				stack = append(stack, c)
			}
		default:
			stack = append(stack, c)
		}
	}

	return strings.Join(stack, "/")
}
