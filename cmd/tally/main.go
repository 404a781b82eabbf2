package main

import (
	"fmt"
	"github.com/denismitr/tally/cmd/tally/commands"
	"os"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
