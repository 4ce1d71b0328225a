package main

import (
	"github.com/spf13/cobra"
)

const rootLongDesc string = `PatientPal helps patients understand their doctor's visit.

Run it using:
  patientpal serve        Run the HTTP server (API + web page)
  patientpal schedule     Print the daily schedule for a medication list`

const rootShortDesc string = "PatientPal - consultation summaries and medication schedules"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "patientpal",
		Short:         rootShortDesc,
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file with configuration")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScheduleCmd())

	return cmd
}
