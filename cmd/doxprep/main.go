// Command doxprep prepares Markdown documentation for Doxygen and repairs the
// section ids in Doxygen's XML output.
//
// # Usage
//
//	doxprep filter [file...]       filter Markdown to stdout (Doxygen INPUT_FILTER)
//	doxprep examples [flags]       convert example ReadMe files to .dox files
//	doxprep repair [flags] [dir]   repair section ids in example XML artifacts
//	doxprep theme                  print the m.css conf.py
//	doxprep schema                 print the configuration JSON Schema
//	doxprep version                print build information
//
// Settings come from the file named by --config (YAML or TOML), falling back
// to the built-in layout of the Arduino SDI-12 documentation. Relative paths
// are resolved against the working directory.
//
// The examples and repair commands accept -d to print a diff and -l to list
// the files that would change, without writing. The exit code is non-zero
// when any file failed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
