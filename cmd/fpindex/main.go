package main

import (
	"os"

	"github.com/soundhash/fpindex/cmd/fpindex/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
