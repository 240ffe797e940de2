// Package main is the entry point for the gitglow CLI.
package main

import (
	"fmt"
	"os"

	"github.com/glowstack/gitglow/cmd/gitglow/commands"
)

func main() {
	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
