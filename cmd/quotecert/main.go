package main

import (
	"os"

	"github.com/wonny/quotecert/cmd/quotecert/commands"
)

// main is the entry point for the quotecert CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/quotecert [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
