package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initVersionCmd() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print the version of aws-rotate-key",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "aws-rotate-key", Version)
		},
	})
}
