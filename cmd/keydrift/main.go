package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/JonMunkholm/keydrift/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, cli.ErrDrift) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
