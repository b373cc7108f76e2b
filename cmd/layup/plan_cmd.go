package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/glennajones/gummy-bear/modules/layup/services"
)

var errNegativeTimeout = errors.New("--timeout must not be negative")

type planOptions struct {
	start   string
	apply   bool
	timeout time.Duration
}

func newPlanCmd() *cobra.Command {
	var opts planOptions
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a layup schedule and print it as JSON (dry-run unless --apply)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.start, "start", "", "First candidate day, YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Persist the schedule and record LOP scheduling")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abandon the run after this long (default: LAYUP_RUN_TIMEOUT)")
	return cmd
}

func runPlan(cmd *cobra.Command, opts planOptions) error {
	start, err := parseDateUTC(opts.start)
	if err != nil {
		return err
	}
	if opts.timeout < 0 {
		return withCode(exitUsage, errNegativeTimeout)
	}

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	rt, err := connect(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	svc := rt.app.Service(services.ScheduleService{}).(*services.ScheduleService)
	plan, err := svc.Generate(rt.Context(ctx), services.GenerateOptions{Start: start, Apply: opts.apply})
	if err != nil {
		return withCode(schedulerCode(err), err)
	}
	return writeJSON(cmd.OutOrStdout(), plan)
}
