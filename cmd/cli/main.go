// Package main is the entry point for the retreat-quote CLI.
package main

import (
	"os"

	"retreat-quote/cmd/cli/cmd"
	"retreat-quote/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
