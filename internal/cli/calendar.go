package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/legisref/internal/calendar"
)

var calendarAt string

// calendarCmd represents the calendar command
var calendarCmd = &cobra.Command{
	Use:   "calendar [year]",
	Short: "Show the legislative year and congress",
	Long: `Calendar prints the legislative year, the congress sitting in it and the two
years that congress spans. Without arguments it uses the current Eastern time;
--at takes an ISO 8601 timestamp instead.

Example:
  legisref calendar
  legisref calendar 2023
  legisref calendar --at 2025-01-03T11:00:00-05:00`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalendar,
}

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().StringVar(&calendarAt, "at", "", "ISO 8601 timestamp to evaluate (default: now)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var year int
	switch {
	case len(args) == 1:
		y, err := strconv.Atoi(args[0])
		if err != nil || y < 1789 {
			return fmt.Errorf("invalid year: %q", args[0])
		}
		year = y
	default:
		at := time.Now()
		if calendarAt != "" {
			t, err := calendar.ParseISO8601(calendarAt)
			if err != nil {
				return err
			}
			at = t
		}
		eastern := calendar.InEastern(at)
		year = calendar.LegislativeYear(eastern)
		fmt.Fprintf(out, "Eastern time:      %s\n", eastern.Format(time.RFC3339))
	}

	congress := calendar.CongressForYear(year)
	years := calendar.YearsForCongress(congress)
	session := 1
	if year == years[1] {
		session = 2
	}

	fmt.Fprintf(out, "Legislative year:  %d\n", year)
	fmt.Fprintf(out, "Congress:          %d (session %d)\n", congress, session)
	fmt.Fprintf(out, "Congress years:    %d-%d\n", years[0], years[1])

	return nil
}
