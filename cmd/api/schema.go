package main

import (
	"fmt"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"blogapi/internal/gql"
)

const outputFlag = "output"

func newSchemaCommand() *cobra.Command {
	flags := map[string]cobraflags.Flag{
		outputFlag: &cobraflags.StringFlag{
			Name:  outputFlag,
			Value: "",
			Usage: "File to write the schema to. Prints to stdout if empty",
		},
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Write the GraphQL schema definition",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSchema(cmd, flags[outputFlag].GetString())
		},
	}

	cobraflags.RegisterMap(schemaCmd, flags)
	return schemaCmd
}

func writeSchema(cmd *cobra.Command, output string) error {
	if output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), gql.SDL())
		return err
	}

	if err := os.WriteFile(output, []byte(gql.SDL()), 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema written to %s\n", output)
	return nil
}
