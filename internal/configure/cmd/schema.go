package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/andresj-sanchez/SR2/internal/config"
	"github.com/andresj-sanchez/SR2/internal/segment"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [config|segments]",
		Short:     "Generate JSON schema for configure.yaml or the segment manifest",
		Hidden:    true,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"config", "segments"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var v any = &config.Config{}
			if len(args) == 1 && args[0] == "segments" {
				v = &segment.Manifest{}
			}

			reflector := new(jsonschema.Reflector)
			bts, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bts))
			return nil
		},
	}
}
