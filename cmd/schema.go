package cmd

import (
	"fmt"
	"strings"

	"entity-store/core/schema"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Schema file utilities",
}

var schemaValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a YAML, JSON or CUE schema file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := schema.LoadFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d types\n", args[0], len(registry.Types()))
		for _, name := range registry.Types() {
			entry, _ := registry.Lookup(name)
			fmt.Fprintf(out, "  %s (%s, id %s)%s\n", name, entry.URL, entry.IDAttribute, describeRelations(entry))
		}
		return nil
	},
}

func init() {
	schemaCmd.AddCommand(schemaValidateCmd)
	RootCmd.AddCommand(schemaCmd)
}

func describeRelations(e *schema.Entry) string {
	var parts []string
	for _, rel := range e.OneToMany {
		parts = append(parts, rel.Attribute+"[]→"+rel.Type)
	}
	for _, rel := range e.ForeignKey {
		parts = append(parts, rel.Attribute+"→"+rel.Type)
	}
	if len(parts) == 0 {
		return ""
	}
	return ": " + strings.Join(parts, ", ")
}
