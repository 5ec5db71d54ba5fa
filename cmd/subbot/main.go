package main

import (
	"os"

	"github.com/m3rciful/subbot/cmd/subbot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
