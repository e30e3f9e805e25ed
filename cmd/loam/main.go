// Package main is the entry point for the loam CLI tool.
package main

import (
	"os"

	"github.com/loamkb/loam/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
