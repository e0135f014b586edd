package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// lsCommand lists the immediate children of a directory inside the
// archive, the CLI surface over Archive.Enumerate.
type lsCommand struct {
	Long         bool `short:"l" long:"long" description:"show size and modification time for each entry"`
	OmitSymlinks bool `long:"omit-symlinks" description:"do not list symlink entries"`

	Args struct {
		Archive string `positional-arg-name:"archive" required:"true"`
		Dir     string `positional-arg-name:"dir"`
	} `positional-args:"true"`
}

func (c *lsCommand) Execute(_ []string) error {
	ctx := context.Background()

	a, err := openArchive(ctx, c.Args.Archive, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	children, err := a.Enumerate(c.Args.Dir, c.OmitSymlinks)
	if err != nil {
		return err
	}

	if !c.Long {
		for _, name := range children {
			fmt.Println(name)
		}
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	for _, name := range children {
		full := name
		if c.Args.Dir != "" {
			full = c.Args.Dir + "/" + name
		}

		isDir, err := a.IsDirectory(full)
		if err != nil {
			return fmt.Errorf("%s: %w", full, err)
		}

		if isDir {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s/\n", "-", "-", name)
			continue
		}

		e, err := a.Lstat(full)
		if err != nil {
			return fmt.Errorf("%s: %w", full, err)
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n",
			humanize.Bytes(uint64(e.Size())),
			time.Unix(e.ModTime(), 0).Format(time.RFC3339),
			name)
	}

	return nil
}
