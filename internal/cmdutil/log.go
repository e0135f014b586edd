// Package cmdutil holds the small pieces of CLI scaffolding shared by the
// zipvfs command tree, adapted from nguyengg-xy3/internal.
package cmdutil

import (
	"fmt"
	"log"
	"os"
)

// NewLogger returns a *log.Logger writing to stderr with a
// `"<name>" - ` prefix, the single-command equivalent of
// nguyengg-xy3/internal.WithPrefixLogger/MustLogger. The teacher threads
// the logger through context.Context because its upload/download commands
// fan out across goroutines and recursive directory walks that need to
// recover it at arbitrary call depth; cmd/zipvfs's extract is one flat
// function processing one archive, so the logger is just a local variable
// here and context-value plumbing (and the unused i/n-ordinal Prefix
// helper it existed to format) has no reason to exist.
func NewLogger(name string) *log.Logger {
	return log.New(os.Stderr, fmt.Sprintf("%q - ", name), 0)
}
