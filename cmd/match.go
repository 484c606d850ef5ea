package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"filament-sync/feature/matcher"

	"github.com/spf13/cobra"
)

var matchCount int

// matchCmd prints the swatches closest to a color.
var matchCmd = &cobra.Command{
	Use:   "match [hex]",
	Short: "Find the swatches closest to a color",
	Long:  `Loads every swatch from the store and prints the nearest ones by RGB distance. Malformed colors are treated as black.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatch(cmd.Context(), args[0])
	},
}

func init() {
	matchCmd.Flags().IntVar(&matchCount, "count", 0, "Number of matches (default from MATCHER_DEFAULT_COUNT)")
	RootCmd.AddCommand(matchCmd)
}

func runMatch(ctx context.Context, hex string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	matches, err := matcher.NewService(rt.db, rt.cfg.Matcher, rt.logger).Closest(ctx, hex, matchCount)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tHEX\tNAME\tMANUFACTURER\tTYPE\tDISTANCE")
	for _, m := range matches {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\n", m.ID, m.HexColor, m.ColorName, m.Manufacturer, m.FilamentType, m.Distance)
	}
	return w.Flush()
}
