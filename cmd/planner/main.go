package main

import (
	"os"

	"github.com/tgienger/planner/internal/cli"
)

func main() {
	// cobra has already printed the error
	if err := cli.New().Execute(); err != nil {
		os.Exit(1)
	}
}
