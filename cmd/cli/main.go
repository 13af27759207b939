package main

import (
	"os"

	"github.com/portald-dev/portald/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
