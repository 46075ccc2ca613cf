// Package main provides the aad command line tool.
package main

import (
	"os"
)

const version = "v0.1.0-dev"

func main() {
	a := &app{}
	if err := a.execute(a.command()); err != nil {
		os.Exit(1)
	}
}
