package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// WindowFlags select the period a fetch covers
type WindowFlags struct {
	CurrentMonth  bool
	PreviousMonth bool
	Months        int
	Days          int

	lookback bool // --months/--days apply when no month flag is set
}

// RegisterWindowFlags adds the period flags to cmd. With lookback set the
// default window is the last month, otherwise the current month.
func RegisterWindowFlags(cmd *cobra.Command, lookback bool) *WindowFlags {
	f := &WindowFlags{lookback: lookback}
	cmd.Flags().BoolVarP(&f.CurrentMonth, "current-month", "c", false, "Only the current month")
	cmd.Flags().BoolVarP(&f.PreviousMonth, "previous-month", "p", false, "Only the previous month")
	if lookback {
		cmd.Flags().IntVarP(&f.Months, "months", "m", 1, "Number of months to look back")
		cmd.Flags().IntVarP(&f.Days, "days", "d", 0, "Additional number of days to look back")
	}
	cmd.MarkFlagsMutuallyExclusive("current-month", "previous-month")
	return f
}

// Window resolves the flags against now
func (f *WindowFlags) Window(now time.Time) (worklog.Window, error) {
	switch {
	case f.CurrentMonth:
		return worklog.CurrentMonth(now), nil
	case f.PreviousMonth:
		return worklog.PreviousMonth(now), nil
	case f.lookback:
		if f.Months < 0 || f.Days < 0 {
			return worklog.Window{}, errors.New("--months and --days must not be negative")
		}
		if f.Months == 0 && f.Days == 0 {
			return worklog.Window{}, errors.New("--months or --days must be greater than zero")
		}
		return worklog.Lookback(now, f.Months, f.Days), nil
	default:
		return worklog.CurrentMonth(now), nil
	}
}

// MonthName is "previous" or "current", used to name fetched files
func (f *WindowFlags) MonthName() string {
	if f.PreviousMonth {
		return "previous"
	}
	return "current"
}
