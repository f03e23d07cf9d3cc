package main

import (
	"os"

	"sodiumbridge/cmd/sodiumbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
