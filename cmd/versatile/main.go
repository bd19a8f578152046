// Package main is the entry point for the versatile retrieval CLI.
package main

import (
	"os"

	"github.com/mouramax/versatile-retrieval/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
