package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/nguyengg/zipvfs"
	"github.com/nguyengg/zipvfs/internal/cmdutil"
)

// extractCommand extracts every file in the archive to a local directory,
// grounded on nguyengg-xy3/internal/extract.ZipExtractor.Extract: same
// progress-bar-over-io.MultiWriter copy shape, generalized from stdlib
// archive/zip's flat file list to a recursive walk over zipvfs's
// directory-prefix index (files may be arbitrarily nested, and entries may
// be symlinks that resolve to other entries' data).
type extractCommand struct {
	Output string `short:"o" long:"output" description:"destination directory; defaults to a freshly generated directory name"`

	Args struct {
		Archive string `positional-arg-name:"archive" required:"true"`
	} `positional-args:"true"`
}

func (c *extractCommand) Execute(_ []string) error {
	output := c.Output
	if output == "" {
		output = "zipvfs-extract-" + uuid.NewString()
	}

	ctx := context.Background()
	logger := cmdutil.NewLogger(output)

	a, cleanup, err := openArchiveForExtract(ctx, c.Args.Archive, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	defer a.Close()

	files, totalSize, err := walk(a, "")
	if err != nil {
		return err
	}
	logger.Printf("extracting %d files", len(files))

	bar := progressbar.NewOptions64(totalSize,
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(1*time.Second),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(os.Stderr, "\n")
		}))
	defer bar.Close()

	for _, name := range files {
		dst := filepath.Join(output, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := extractOne(a, name, dst, bar); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func extractOne(a *zipvfs.Archive, name, dst string, bar io.Writer) error {
	f, err := a.OpenRead(name)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = io.Copy(io.MultiWriter(w, bar), f)
	return err
}

// walk recursively enumerates dir and every subdirectory beneath it,
// returning every file's full archive path and the total uncompressed
// size across them. Symlinks are included (extraction follows them via
// OpenRead, unlike ls's --omit-symlinks listing option).
func walk(a *zipvfs.Archive, dir string) (files []string, totalSize int64, err error) {
	children, err := a.Enumerate(dir, false)
	if err != nil {
		return nil, 0, err
	}

	for _, child := range children {
		full := child
		if dir != "" {
			full = dir + "/" + child
		}

		isDir, err := a.IsDirectory(full)
		if err != nil {
			return nil, 0, err
		}

		if isDir {
			subFiles, subSize, werr := walk(a, full)
			if werr != nil {
				return nil, 0, werr
			}
			files = append(files, subFiles...)
			totalSize += subSize
			continue
		}

		e, err := a.Stat(full)
		if err != nil {
			return nil, 0, err
		}

		files = append(files, full)
		totalSize += e.Size()
	}

	return files, totalSize, nil
}
