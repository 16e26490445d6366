package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrolens/platescan/internal/app"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "platescan %s\n", app.Version)
			return err
		},
	}
}
