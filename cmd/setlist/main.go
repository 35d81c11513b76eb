// Package main is the entry point for the setlist CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/setlist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
