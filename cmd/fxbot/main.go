package main

import (
	"os"

	"github.com/rustyeddy/fxbot/cmd/fxbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
