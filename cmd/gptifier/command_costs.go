package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dsw7/gptifier"
	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

// maxCostDays is the largest bucket limit the costs endpoint accepts.
const maxCostDays = 180

var costsFlags struct {
	days  int
	raw   bool
	graph bool
}

var costsCommand = &cobra.Command{
	Use:   "costs",
	Short: "Show the organization's daily costs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if costsFlags.days < 1 || costsFlags.days > maxCostDays {
			return fmt.Errorf("--days must be between 1 and %d, got %d", maxCostDays, costsFlags.days)
		}

		c, err := platform()
		if err != nil {
			return err
		}

		start := costsStart(time.Now(), costsFlags.days)
		costs, err := busy(cmd, "Fetching costs", func() (gptifier.Costs, error) {
			return c.GetCosts(cmd.Context(), start, costsFlags.days)
		})
		if err != nil {
			return fmt.Errorf("failed to get costs: %w", err)
		}

		out := cmd.OutOrStdout()
		if costsFlags.raw {
			return printRaw(out, costs.Raw)
		}

		serialization.SortCostBuckets(costs.Buckets)
		fmt.Fprint(out, formatCostTable(costs))

		if costsFlags.graph {
			if daily := dailyCosts(costs.Buckets); len(daily) > 1 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, asciigraph.Plot(daily,
					asciigraph.Height(10),
					asciigraph.Caption("daily cost (USD)"),
				))
			}
		}
		return nil
	},
}

func init() {
	costsCommand.Flags().IntVarP(&costsFlags.days, "days", "d", 30, "number of days to report, ending today")
	costsCommand.Flags().BoolVarP(&costsFlags.raw, "raw", "r", false, "print the raw JSON response")
	costsCommand.Flags().BoolVar(&costsFlags.graph, "graph", false, "plot the daily costs")

	rootCmd.AddCommand(costsCommand)
}

// costsStart returns midnight UTC of the first of the last days days,
// today included.
func costsStart(now time.Time, days int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
}

func formatCostTable(costs gptifier.Costs) string {
	if len(costs.Buckets) == 0 {
		return "No cost data found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-20s %-32s %12s\n", "START", "END", "ORGANIZATION", "COST (USD)")
	b.WriteString(strings.Repeat("-", 87) + "\n")

	for _, bucket := range costs.Buckets {
		fmt.Fprintf(&b, "%-20s %-20s %-32s %12.6f\n",
			serialization.FormatTimestamp(bucket.StartTime),
			serialization.FormatTimestamp(bucket.EndTime),
			defaultStr(bucket.OrganizationID, "(none)"),
			bucket.Cost,
		)
	}

	b.WriteString(strings.Repeat("-", 87) + "\n")
	fmt.Fprintf(&b, "%74s %12.6f\n", "TOTAL:", costs.Total)
	return b.String()
}

// dailyCosts sums sorted buckets that share a start time.
func dailyCosts(buckets []gptifier.CostBucket) []float64 {
	var (
		days   []float64
		starts []int64
	)
	for _, bucket := range buckets {
		if i := len(starts) - 1; i >= 0 && starts[i] == bucket.StartTime {
			days[i] += bucket.Cost
			continue
		}
		starts = append(starts, bucket.StartTime)
		days = append(days, bucket.Cost)
	}
	return days
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
