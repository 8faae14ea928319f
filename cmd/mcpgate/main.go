package main

import (
	"os"

	"github.com/interop-desk/mcpgate/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
