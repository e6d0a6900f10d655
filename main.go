package main

import (
	"os"

	"github.com/faultline/faultline/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
