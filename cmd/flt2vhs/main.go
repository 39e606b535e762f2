package main

import (
	"fmt"
	"os"

	"github.com/mrkline/flt2vhs/cmd/flt2vhs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
