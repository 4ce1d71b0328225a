package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"patientpal/internal/domain/medication"

	"github.com/spf13/cobra"
)

const scheduleLongDesc string = `Print the daily schedule for a medication list.

Reads one medication per line from FILE (or stdin when FILE is "-" or
missing), e.g.:

  Metformin 500mg twice daily with meals
  Lisinopril 10mg once daily in the morning

Uses the local parser only; no external services are called.`

const scheduleShortDesc string = "Print the daily schedule for a medication list"

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule [FILE]",
		Short: scheduleShortDesc,
		Long:  scheduleLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runSchedule(in, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runSchedule(in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading medications: %w", err)
	}

	entries, err := medication.ParseEntries(medication.SplitLines(string(raw)))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no medications given")
	}

	sched, err := medication.Derive(entries)
	if err != nil {
		return err
	}

	printSchedule(out, sched)
	return nil
}

func printSchedule(w io.Writer, s medication.Schedule) {
	for _, g := range s.Groups() {
		fmt.Fprintf(w, "%s\n", strings.ToUpper(string(g.Bucket)))
		for _, ev := range g.Events {
			line := fmt.Sprintf("  %s  %s", ev.Time, ev.Medication)
			if ev.Dosage != "" {
				line += " " + ev.Dosage
			}
			if ev.Note != "" {
				line += " (" + ev.Note + ")"
			}
			fmt.Fprintln(w, line)
		}
	}
	for _, warn := range s.Warnings {
		fmt.Fprintf(w, "warning: %s: %s\n", warn.Medication, warn.Message)
	}
}
