package main

import (
	"github.com/spf13/cobra"

	"github.com/glennajones/gummy-bear/modules/layup/services"
)

func newLOPCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "lop",
		Short: "Print the LOP adjustment state of the layup queue as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseDateUTC(date)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rt, err := connect(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			svc := rt.app.Service(services.ScheduleService{}).(*services.ScheduleService)
			report, err := svc.LOPReport(rt.Context(ctx), now)
			if err != nil {
				return withCode(exitDB, err)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Evaluate as of this day, YYYY-MM-DD (default: today)")
	return cmd
}
