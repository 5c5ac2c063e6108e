package main

import (
	"os"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
