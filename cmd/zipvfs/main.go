// Command zipvfs inspects and extracts ZIP archives without ever writing
// a decompressed copy to a local staging directory: every subcommand
// reads through zipvfs's resolver and open-file engine, against either a
// local file or an S3 object given as "s3://bucket/key". ls, cat and stat
// read an S3 object directly by ranged requests; extract first downloads
// it whole to a temporary local file and reads that.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/jessevdk/go-flags"
)

var opts struct {
	Profile string         `short:"p" long:"profile" description:"override AWS_PROFILE when reading from S3"`
	Ls      lsCommand      `command:"ls" description:"list the files and directories under a path inside the archive"`
	Cat     catCommand     `command:"cat" description:"print the decompressed contents of one archive entry to stdout"`
	Stat    statCommand    `command:"stat" description:"print metadata about one archive entry"`
	Extract extractCommand `command:"extract" alias:"x" description:"extract the archive's contents to a local directory"`
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(command flags.Commander, args []string) error {
		if opts.Profile != "" {
			if err := os.Setenv("AWS_PROFILE", opts.Profile); err != nil {
				return fmt.Errorf("set AWS_PROFILE error: %w", err)
			}
		}
		return command.Execute(args)
	}

	_, err := p.Parse()

	if runtime.GOOS == "windows" {
		_, _ = fmt.Fprintf(os.Stderr, "Press any key to close console\n")
		_, _ = fmt.Scanf("h")
	}

	if err != nil && !flags.WroteHelp(err) {
		os.Exit(1)
	}
}
