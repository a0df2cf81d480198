package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/cardbinder/cardbinder/pkg/binder"
	"github.com/cardbinder/cardbinder/pkg/domain"
)

func newListCmd() *cobra.Command {
	var (
		needed    bool
		collected bool
		typeName  string
		search    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the checklist",
		Example: `
cardbinder list
cardbinder list --needed
cardbinder list --type chrome
cardbinder list --search refractor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if needed && collected {
				return fmt.Errorf("--needed and --collected are mutually exclusive")
			}
			if typeName != "" && !domain.ValidType(domain.CollectionType(typeName)) {
				return fmt.Errorf("unknown collection type %q", typeName)
			}

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

			q := binder.Query{Search: search, Type: domain.CollectionType(typeName)}
			if needed {
				q.Filter = binder.FilterNeeded
			}
			if collected {
				q.Filter = binder.FilterCollected
			}

			fmt.Print(renderChecklist(bind.View(q), len(bind.HiddenCards())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&needed, "needed", false, "Only cards you are still missing.")
	cmd.Flags().BoolVar(&collected, "collected", false, "Only cards you already have.")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Limit to one collection type.")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Substring match on name, number, parallel, serial, set or source.")
	return cmd
}

// renderChecklist prints each set as a titled table of its cards.
func renderChecklist(sets []binder.SetView, hidden int) string {
	if len(sets) == 0 {
		faint := color.New(color.Faint, color.Italic)
		return faint.Sprint(" nothing matches\n")
	}

	title := color.New(color.Bold, color.Underline)
	count := color.New(color.Faint)
	have := color.New(color.FgGreen)
	miss := color.New(color.Faint)

	var b strings.Builder
	for _, s := range sets {
		b.WriteString("\n")
		b.WriteString(title.Sprint(s.Name))
		b.WriteString(count.Sprintf("  %d/%d\n", s.Collected, len(s.Cards)))

		tbl := uitable.New()
		tbl.Separator = "  "
		for _, c := range s.Cards {
			check := miss.Sprint("·")
			if c.Collected {
				check = have.Sprint("✓")
			}
			serial := c.Serial
			if serial == "" {
				serial = "-"
			}
			tbl.AddRow(check, "#"+c.CardNumber, c.Label(), serial)
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}

	if hidden > 0 {
		faint := color.New(color.Faint)
		b.WriteString(faint.Sprintf("\n%d hidden card(s) not shown\n", hidden))
	}
	return b.String()
}
