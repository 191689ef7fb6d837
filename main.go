// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for mensad.
//
// Usage:
//
//	go run . [flags]
//	./mensad [flags]
//
// This launches the mensad CLI. See --help for options.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mensahub/mensad/ui/cli"
)

// version is set at build time using -ldflags, e.g.:
// go build -ldflags "-X main.version=1.2.3"
var version = "dev"

// main is the entrypoint for the mensad CLI.
func main() {
	// Print version info if requested (optional, placeholder for future flag parsing)
	if os.Getenv("MENSAD_SHOW_VERSION") == "1" {
		fmt.Fprintf(os.Stderr, "mensad version: %s\n", version)
	}

	if err := cli.Execute(); err != nil {
		log.Printf("mensad CLI error: %v", err)
		os.Exit(1)
	}
}
