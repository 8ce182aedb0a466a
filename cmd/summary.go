package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	verboseSummary bool
	summaryDays    int
	summaryFrom    string
	summaryTo      string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show your nutrition summary",
	Long: `The summary command shows what you ate over a period: one row per day
plus the daily averages the service computed.

By default it covers the last 7 days. Use --days, or --from/--to with
YYYY-MM-DD dates, to pick a different period.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseSummary {
			os.Setenv("MEALTRACK_VERBOSE", "1")
		}

		from, to, err := summaryWindow(time.Now())
		if err != nil {
			fmt.Println("❌ Dates must look like YYYY-MM-DD.")
			return err
		}

		sess, api, err := openSession()
		if err != nil {
			showOperationError(err, "opening your session")
			return err
		}
		if !ensureSignedIn(sess) {
			return nil
		}

		sum, err := api.Summary(cmd.Context(), sess.Token(), from, to)
		if err != nil {
			showOperationError(err, "loading your nutrition summary")
			return err
		}

		if len(sum.DailyData) == 0 {
			fmt.Println("🍽️  Nothing logged for this period yet.")
			fmt.Println("   Try 'mealtrack log add --food <id> --servings 1'.")
			return nil
		}

		rows := pterm.TableData{{"Date", "kcal", "Protein", "Carbs", "Fat"}}
		for _, day := range sum.DailyData {
			rows = append(rows, []string{
				day.Date,
				f1(day.Calories),
				f1(day.Protein),
				f1(day.Carbs),
				f1(day.Fat),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}

		lines := []string{
			fmt.Sprintf("Calories: %s kcal", f1(sum.AvgCalories)),
			fmt.Sprintf("Protein:  %s g", f1(sum.AvgProtein)),
			fmt.Sprintf("Carbs:    %s g", f1(sum.AvgCarbs)),
			fmt.Sprintf("Fat:      %s g", f1(sum.AvgFat)),
		}
		if sum.AvgFiber != nil {
			lines = append(lines, fmt.Sprintf("Fiber:    %s g", f1(*sum.AvgFiber)))
		}
		if sum.AvgSugar != nil {
			lines = append(lines, fmt.Sprintf("Sugar:    %s g", f1(*sum.AvgSugar)))
		}
		title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Daily Averages")
		pterm.Println(pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(strings.Join(lines, "\n")))
		return nil
	},
}

// summaryWindow resolves --days or --from/--to into a date range.
func summaryWindow(now time.Time) (time.Time, time.Time, error) {
	if summaryFrom == "" && summaryTo == "" {
		days := summaryDays
		if days < 1 {
			days = 1
		}
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		return start.AddDate(0, 0, -(days - 1)), now, nil
	}

	from, err := time.ParseInLocation("2006-01-02", summaryFrom, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to := now
	if summaryTo != "" {
		day, err := time.ParseInLocation("2006-01-02", summaryTo, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = day.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVarP(&verboseSummary, "verbose", "v", false, "Enable verbose debug output")
	summaryCmd.Flags().IntVar(&summaryDays, "days", 7, "Summarize the last N days")
	summaryCmd.Flags().StringVar(&summaryFrom, "from", "", "Period start (YYYY-MM-DD)")
	summaryCmd.Flags().StringVar(&summaryTo, "to", "", "Period end (YYYY-MM-DD, inclusive)")
}
