package main

import (
	"fmt"
	"os"

	"github.com/mickamy/databinge/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "databinge:", err)
		os.Exit(int(cli.Code(err)))
	}
}
