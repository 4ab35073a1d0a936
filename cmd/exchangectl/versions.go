package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/exchange-connect/internal/ews"
)

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List supported Exchange version tags",
		Args:  cobra.NoArgs,
		// The version list is static; skip loading the config file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range ews.Versions() {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			return nil
		},
	}
}
