package zipvfs

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"time"
)

var (
	_ fs.FS        = (*zipFS)(nil)
	_ fs.StatFS    = (*zipFS)(nil)
	_ fs.ReadDirFS = (*zipFS)(nil)
)

// FS adapts a as a standard io/fs.FS, so it can be passed to anything that
// accepts one (http.FileServer, text/template.ParseFS, and so on).
// Directories are synthesized from the entry index the same way
// Archive.Enumerate does; there is no separate directory record. Unlike
// Lemon4ksan-GoZip/zip_fs.go (the model this is grounded on), Open and
// Stat here are symlink-aware: a symlink entry transparently opens its
// resolved target's data.
func (a *Archive) FS() fs.FS { return &zipFS{a: a} }

type zipFS struct{ a *Archive }

// Open implements fs.FS.
func (zfs *zipFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if name == "." {
		return &fsDir{fsys: zfs, name: "."}, nil
	}

	isDir, err := zfs.a.IsDirectory(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: toFSError(err)}
	}
	if isDir {
		return &fsDir{fsys: zfs, name: name}, nil
	}

	entry, err := zfs.a.Stat(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: toFSError(err)}
	}

	f, err := zfs.a.OpenRead(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: toFSError(err)}
	}

	return &fsFile{fsys: zfs, name: name, entry: entry, f: f}, nil
}

// Stat implements fs.StatFS.
func (zfs *zipFS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}

	if name == "." {
		return fileInfoAdapter{name: ".", isDir: true}, nil
	}

	isDir, err := zfs.a.IsDirectory(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: toFSError(err)}
	}
	if isDir {
		return fileInfoAdapter{name: name, isDir: true}, nil
	}

	entry, err := zfs.a.Stat(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: toFSError(err)}
	}
	return fileInfoAdapter{name: name, entry: entry}, nil
}

// ReadDir implements fs.ReadDirFS.
func (zfs *zipFS) ReadDir(name string) ([]fs.DirEntry, error) {
	dirname := name
	if dirname == "." {
		dirname = ""
	}

	children, err := zfs.a.Enumerate(dirname, false)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: toFSError(err)}
	}

	entries := make([]fs.DirEntry, 0, len(children))
	for _, child := range children {
		full := child
		if dirname != "" {
			full = dirname + "/" + child
		}

		info, err := zfs.Stat(full)
		if err != nil {
			return nil, &fs.PathError{Op: "readdir", Path: name, Err: toFSError(err)}
		}
		entries = append(entries, fsDirEntryAdapter{name: child, info: info})
	}

	return entries, nil
}

// fsFile wraps an OpenFile to satisfy fs.File.
type fsFile struct {
	fsys  *zipFS
	name  string
	entry *Entry
	f     *OpenFile
}

func (ff *fsFile) Stat() (fs.FileInfo, error) {
	return fileInfoAdapter{name: ff.name, entry: ff.entry}, nil
}
func (ff *fsFile) Read(p []byte) (int, error) { return ff.f.Read(p) }
func (ff *fsFile) Close() error               { return ff.f.Close() }

// fsDir wraps a synthesized directory to satisfy fs.ReadDirFile. Unlike
// Lemon4ksan-GoZip/zip_fs.go's fsDir (which re-lists and re-slices from
// the start on every ReadDir call, so a caller doing paginated n>0 reads
// would see the same entries repeated forever), this one loads the
// listing once and tracks a cursor, so successive ReadDir(n) calls walk
// forward through the directory the way io/fs.ReadDirFile requires.
type fsDir struct {
	fsys *zipFS
	name string

	loaded  bool
	entries []fs.DirEntry
	pos     int
}

func (fd *fsDir) Stat() (fs.FileInfo, error) {
	return fileInfoAdapter{name: fd.name, isDir: true}, nil
}
func (fd *fsDir) Close() error { return nil }
func (fd *fsDir) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: fd.name, Err: fs.ErrInvalid}
}

func (fd *fsDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if !fd.loaded {
		entries, err := fd.fsys.ReadDir(fd.name)
		if err != nil {
			return nil, err
		}
		fd.entries = entries
		fd.loaded = true
	}

	if n <= 0 {
		rest := fd.entries[fd.pos:]
		fd.pos = len(fd.entries)
		return rest, nil
	}

	if fd.pos >= len(fd.entries) {
		return nil, io.EOF
	}

	end := fd.pos + n
	if end > len(fd.entries) {
		end = len(fd.entries)
	}
	out := fd.entries[fd.pos:end]
	fd.pos = end
	return out, nil
}

type fileInfoAdapter struct {
	name  string
	entry *Entry // nil for a synthesized directory
	isDir bool
}

func (i fileInfoAdapter) Name() string { return path.Base(i.name) }

func (i fileInfoAdapter) Size() int64 {
	if i.entry == nil {
		return 0
	}
	return i.entry.Size()
}

func (i fileInfoAdapter) Mode() fs.FileMode {
	if i.isDir || i.entry == nil {
		return fs.ModeDir | 0555
	}
	return 0444
}

func (i fileInfoAdapter) ModTime() time.Time {
	if i.entry == nil {
		return time.Time{}
	}
	return time.Unix(i.entry.ModTime(), 0)
}

func (i fileInfoAdapter) IsDir() bool { return i.isDir || i.entry == nil }

func (i fileInfoAdapter) Sys() interface{} { return nil }

type fsDirEntryAdapter struct {
	name string
	info fs.FileInfo
}

func (e fsDirEntryAdapter) Name() string               { return e.name }
func (e fsDirEntryAdapter) IsDir() bool                { return e.info.IsDir() }
func (e fsDirEntryAdapter) Type() fs.FileMode           { return e.info.Mode().Type() }
func (e fsDirEntryAdapter) Info() (fs.FileInfo, error)  { return e.info, nil }

// toFSError maps this package's sentinel errors to the io/fs ones a
// generic fs.FS consumer expects to see with errors.Is.
func toFSError(err error) error {
	if errors.Is(err, ErrNoSuchFile) {
		return fs.ErrNotExist
	}
	return err
}
