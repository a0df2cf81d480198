package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cardbinder/cardbinder/pkg/binder"
	"github.com/cardbinder/cardbinder/pkg/domain"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print collection progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				if errors.Is(err, errNotLoggedIn) {
					printBinderGreeting()
					return nil
				}
				return err
			}
			bind, _, seeded, err := s.loadBinder(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				s.writeSeed(cmd.Context(), bind)
			}
			fmt.Print(renderStatsReport(bind.Stats(), bind.Portfolio()))
			return nil
		},
	}
}

const statsBarWidth = 24

// renderStatsReport prints overall and per-type progress bars plus the
// portfolio summary when any holdings are priced.
func renderStatsReport(stats binder.Stats, p binder.Portfolio) string {
	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(title.Sprint("Progress"))
	b.WriteString("\n\n")

	overall := stats.Overall
	fmt.Fprintf(&b, " %s %s %s\n\n",
		bold.Sprintf("%-12s", "overall"),
		textBar(overall.Percent()),
		faint.Sprintf("%d/%d (%d%%)", overall.Collected, overall.Total, overall.Percent()))

	for _, t := range domain.CollectionTypes {
		prog, ok := stats.ByType[t]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, " %-12s %s %s\n",
			string(t),
			textBar(prog.Percent()),
			faint.Sprintf("%d/%d (%d%%)", prog.Collected, prog.Total, prog.Percent()))
	}

	if p.Holdings > 0 {
		gain := color.New(color.FgGreen)
		if p.Gain() < 0 {
			gain = color.New(color.FgRed)
		}
		b.WriteString("\n")
		b.WriteString(title.Sprint("Value"))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, " invested  $%.2f\n value     $%.2f\n gain      %s\n holdings  %d\n",
			p.TotalInvested, p.TotalValue,
			gain.Sprintf("%+.2f (%+.1f%%)", p.Gain(), p.GainPercent()),
			p.Holdings)
	}
	b.WriteString("\n")
	return b.String()
}

// textBar renders a fixed-width progress bar for plain terminal output.
func textBar(percent int) string {
	filled := statsBarWidth * percent / 100
	if filled > statsBarWidth {
		filled = statsBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := color.New(color.FgHiYellow).Sprint(strings.Repeat("█", filled))
	bar += color.New(color.Faint).Sprint(strings.Repeat("░", statsBarWidth-filled))
	return bar
}
