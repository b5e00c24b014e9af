package main

import (
	"ecotrack/internal/di"
	"ecotrack/internal/structures"
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

func main() {
	var cli structures.CliFlags
	parser := goflags.NewParser(&cli, goflags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if _, err := di.InitApp(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "ecotrack: %s\n", err)
		os.Exit(1)
	}
}
