package main

import (
	"os"

	"github.com/runnerr0/pulse/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// go-flags has already printed parse and command errors.
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
