package main

import (
	"os"

	"github.com/caffeine-labs/caff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
