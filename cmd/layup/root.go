package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "layup",
		Short:         "Layup production scheduler tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newLOPCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
