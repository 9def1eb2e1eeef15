// Package main is the entry point for the svchost sample service
package main

import (
	"os"

	"github.com/ShiftyTR/svcmgr/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
