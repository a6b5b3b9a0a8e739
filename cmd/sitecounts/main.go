// Package main is the entry point for the sitecounts CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sitecounts/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
