package main

import (
	"os"

	"github.com/rustyeddy/wealthgrid/cmd/wealthgrid/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
