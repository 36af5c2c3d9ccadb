//go:build !windows

package main

import (
	"fmt"
	"os"
)

func showFatalError(message string) {
	fmt.Fprintf(os.Stderr, "phybkcd fatal error: %s\n", message)
}
