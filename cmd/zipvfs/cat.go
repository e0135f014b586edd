package main

import (
	"context"
	"io"
	"log"
	"os"
)

// catCommand streams one archive entry's decompressed contents to stdout.
type catCommand struct {
	Args struct {
		Archive string `positional-arg-name:"archive" required:"true"`
		Entry   string `positional-arg-name:"entry" required:"true"`
	} `positional-args:"true"`
}

func (c *catCommand) Execute(_ []string) error {
	ctx := context.Background()

	progressLogger := log.New(os.Stderr, "", log.LstdFlags)

	a, err := openArchive(ctx, c.Args.Archive, progressLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := a.OpenRead(c.Args.Entry)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(os.Stdout, f)
	return err
}
