// Package cmd implements the command-line interface for reelcue.
package cmd

import (
	"encoding/json"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/reelcue-cli/reelcue/sequence"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

// schemaCmd generates the JSON schema describing show manifest files.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for show manifest files",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		schema := reflector.Reflect(&sequence.Manifest{})

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
