package main

import (
	"os"

	"github.com/wonny/investo/cmd/investo/commands"
)

// main is the entry point for the Investo CLI
// ⭐ single CLI entry point: go run ./cmd/investo [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
