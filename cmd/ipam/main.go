// Package main is the entry point for the ipam command line tool.
package main

import (
	"os"

	"github.com/maclarensg/ipam2/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
