// Package main provides dojoctl, the dojolog admin CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dojoctl:", err)
		os.Exit(1)
	}
}
