package main

import (
	"os"

	"github.com/rustyeddy/measures/cmd/measures/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
