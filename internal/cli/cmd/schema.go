package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/bnema/dockwork/internal/domain/entity"
	"github.com/bnema/dockwork/internal/infrastructure/config"
)

var schemaConfig bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the workspace state JSON schema",
	Long: `Print the JSON schema of the persisted workspace state format.

With --config, print the configuration file schema instead.`,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVar(&schemaConfig, "config", false, "print the configuration schema instead")
}

func runSchema(_ *cobra.Command, _ []string) error {
	var schema *jsonschema.Schema
	if schemaConfig {
		schema = config.Schema()
	} else {
		r := new(jsonschema.Reflector)
		schema = r.Reflect(&entity.CollectionSnapshot{})
		schema.ID = "https://github.com/bnema/dockwork/state.schema.json"
		schema.Title = "Dockwork Workspace State"
		schema.Description = "Serialized form of a workspace collection, as persisted and restored by dockwork"
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
