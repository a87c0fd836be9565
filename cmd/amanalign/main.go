// Package main provides the entry point for the amanalign CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/amanalign/cmd/amanalign/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
