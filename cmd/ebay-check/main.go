package main

import (
	"os"

	"github.com/maltedev/ebay-ui-check/cmd/ebay-check/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
