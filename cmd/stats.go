package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marcus/catalog/internal/api"
	"github.com/marcus/catalog/internal/output"
	"github.com/marcus/catalog/internal/session"
	"github.com/marcus/catalog/pkg/dashboard"
)

const defaultStatsWidth = 60

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show item counts per category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		chartType, _ := cmd.Flags().GetString("type")
		if chartType == "" {
			chartType = cfg.ChartType
		}

		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			stats, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				counts := make(map[string]int, len(stats))
				for _, s := range stats {
					counts[s.Category] = s.Count
				}
				return output.JSON(counts)
			}
			chart := dashboard.NewChart(dashboard.ParseChartType(chartType))
			chart.SetStats(stats)
			fmt.Println(chart.View(statsWidth(), false))
			fmt.Printf("%d items in %d categories\n", stats.Total(), len(stats))
			return nil
		}))
	},
}

func statsWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return min(w, 100)
	}
	return defaultStatsWidth
}

func init() {
	addJSONFlag(statsCmd.Flags())
	statsCmd.Flags().String("type", "", "chart type: bar or pie (default from config)")
	rootCmd.AddCommand(statsCmd)
}
