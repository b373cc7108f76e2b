package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the hrm and layup schema migrations",
	}
	cmd.AddCommand(
		newMigrateStepCmd("up", "Apply all pending migrations", func(rt *cliEnv, ctx context.Context) error {
			return rt.app.Migrations().Up(ctx)
		}),
		newMigrateStepCmd("down", "Roll back the latest migration of every schema", func(rt *cliEnv, ctx context.Context) error {
			return rt.app.Migrations().Down(ctx)
		}),
		newMigrateStepCmd("status", "Print migration status", func(rt *cliEnv, ctx context.Context) error {
			return rt.app.Migrations().Status(ctx)
		}),
	)
	return cmd
}

func newMigrateStepCmd(use, short string, step func(rt *cliEnv, ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := connect(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := step(rt, ctx); err != nil {
				return withCode(exitDB, err)
			}
			return nil
		},
	}
}
