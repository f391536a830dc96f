package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

const (
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// reportError prints err on stderr, in red when a person is watching.
func reportError(stderr io.Writer, err error) {
	if !isTerminal(stderr) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return
	}
	if runtime.GOOS == "windows" {
		enableVT()
	}
	fmt.Fprintf(stderr, "%serror:%s %v\n", colorRed, colorReset, err)
}
