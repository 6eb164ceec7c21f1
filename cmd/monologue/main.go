package main

import (
	"os"

	"github.com/lazypower/monologue/internal/cli"
	"github.com/lazypower/monologue/internal/report"
)

func main() {
	if err := cli.Execute(); err != nil {
		report.Error(os.Stderr, err)
		os.Exit(1)
	}
}
