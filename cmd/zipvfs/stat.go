package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// statCommand prints metadata about one archive entry: size, compression
// method, modification time, and whether it is a directory or symlink.
type statCommand struct {
	Args struct {
		Archive string `positional-arg-name:"archive" required:"true"`
		Entry   string `positional-arg-name:"entry" required:"true"`
	} `positional-args:"true"`
}

func (c *statCommand) Execute(_ []string) error {
	ctx := context.Background()

	a, err := openArchive(ctx, c.Args.Archive, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	isDir, err := a.IsDirectory(c.Args.Entry)
	if err != nil {
		return err
	}

	fmt.Printf("name:       %s\n", c.Args.Entry)
	fmt.Printf("directory:  %t\n", isDir)

	if isDir {
		// An implicit directory (one that exists only as a path prefix of
		// other entries, the common case) has no own central-directory
		// record, so IsSymLink's exact lookup would fail with
		// ErrNoSuchFile here; a directory is never itself a symlink target
		// worth checking.
		return nil
	}

	isSymLink, err := a.IsSymLink(c.Args.Entry)
	if err != nil {
		return err
	}
	fmt.Printf("symlink:    %t\n", isSymLink)

	e, err := a.Stat(c.Args.Entry)
	if err != nil {
		return err
	}

	method := "store"
	if e.Method() == 8 {
		method = "deflate"
	}

	fmt.Printf("size:       %s (%d bytes)\n", humanize.Bytes(uint64(e.Size())), e.Size())
	fmt.Printf("compressed: %s (%d bytes)\n", humanize.Bytes(uint64(e.CompressedSize())), e.CompressedSize())
	fmt.Printf("method:     %s\n", method)
	fmt.Printf("modified:   %s\n", time.Unix(e.ModTime(), 0).Format(time.RFC3339))
	fmt.Printf("crc32:      %08x\n", e.CRC32())

	return nil
}
