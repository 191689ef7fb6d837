// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	log "github.com/charmbracelet/log"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mensahub/mensad/internal/config"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dump debug information about config, env, flags and settings",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("--- MENSAD DEBUG ---")

		// Config file candidates and whether they exist
		fmt.Println("-- config search paths --")
		var candidates []string
		if p, err := config.GetConfigPath(false); err == nil {
			candidates = append(candidates, p)
		}
		if p, err := config.GetConfigPath(true); err == nil {
			candidates = append(candidates, p)
		}
		candidates = append(candidates, "mensad.yaml", ".mensad.yaml")
		for _, p := range candidates {
			marker := "absent"
			if _, err := os.Stat(p); err == nil {
				marker = "found"
			}
			fmt.Printf("%s (%s)\n", p, marker)
		}

		// Resolved configuration. The token is redacted: debug output tends
		// to end up in bug reports.
		redacted := appConfig
		if redacted.Server.Token != "" {
			redacted.Server.Token = "<set>"
		}
		b, err := json.MarshalIndent(redacted, "", "  ")
		if err != nil {
			log.Errorf("could not marshal resolved config: %v", err)
		} else {
			fmt.Println("-- resolved config --")
			fmt.Println(string(b))
		}

		// Flags
		fmt.Println("-- flags --")
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			val := f.Value.String()
			fmt.Printf("%s = %s\n", f.Name, val)
		})

		// Environment variables of interest
		fmt.Println("-- environment (MENSAD_*) --")
		for _, e := range os.Environ() {
			if strings.HasPrefix(e, "MENSAD_") {
				fmt.Println(e)
			}
		}

		fmt.Printf("PWD=%s\n", os.Getenv("PWD"))
		fmt.Println("--- END DEBUG ---")
	},
}
