package main

import (
	"os"

	"github.com/tcfw/starregistry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
