package main

import (
	"os"

	"github.com/finquest/finquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
