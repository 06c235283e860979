package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}
