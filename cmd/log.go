// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mealtrack/cli/internal/backend"
)

var (
	verboseLog bool

	logAddFoodID      int
	logAddName        string
	logAddMeal        string
	logAddCalories    float64
	logAddProtein     float64
	logAddCarbs       float64
	logAddFat         float64
	logAddServings    float64
	logAddServingSize string
	logAddFiber       float64
	logAddSugar       float64
	logAddAt          string

	logListDate  string
	logListDays  int
	logListMeal  string
	logListLimit int
)

var mealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record and review your food diary",
	Long: `The log command group manages your food diary.

Use 'log add' to record what you ate, 'log list' to review a day or a date
range, and 'log rm' to remove a mistaken entry.`,
}

var logAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a food diary entry",
	Long: `Record a food diary entry.

Point at a catalog item and the nutrition is worked out for you:

  mealtrack log add --food 42 --servings 1.5 --meal lunch

Or enter everything by hand:

  mealtrack log add --name "Leftover curry" --meal dinner --calories 620 \
      --protein 28 --carbs 55 --fat 30`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseLog {
			os.Setenv("MEALTRACK_VERBOSE", "1")
		}

		if !isMealType(logAddMeal) {
			fmt.Printf("❌ Pick a meal with --meal: %s.\n", strings.Join(mealTypes, ", "))
			return errors.New("invalid meal type")
		}

		sess, api, err := openSession()
		if err != nil {
			showOperationError(err, "opening your session")
			return err
		}
		if !ensureSignedIn(sess) {
			return nil
		}

		entry := backend.FoodLogEntry{
			MealType: logAddMeal,
			Servings: logAddServings,
		}

		if cmd.Flags().Changed("food") {
			// Catalog path: fetch the item and scale its nutrition by servings.
			item, err := api.Food(cmd.Context(), sess.Token(), logAddFoodID)
			if err != nil {
				showOperationError(err, "loading the food item")
				return err
			}
			entry.FoodName = item.Name
			entry.Calories = item.Calories * logAddServings
			entry.Protein = item.Protein * logAddServings
			entry.Carbs = item.Carbs * logAddServings
			entry.Fat = item.Fat * logAddServings
			entry.Fiber = scaled(item.Fiber, logAddServings)
			entry.Sugar = scaled(item.Sugar, logAddServings)
			entry.ServingSize = &item.ServingSize
			entry.FoodItemID = &item.ID
		} else {
			if logAddName == "" {
				fmt.Println("❌ Name the food with --name, or point at a catalog item with --food <id>.")
				return errors.New("missing food name")
			}
			entry.FoodName = logAddName
			entry.Calories = logAddCalories
			entry.Protein = logAddProtein
			entry.Carbs = logAddCarbs
			entry.Fat = logAddFat
			if cmd.Flags().Changed("fiber") {
				entry.Fiber = &logAddFiber
			}
			if cmd.Flags().Changed("sugar") {
				entry.Sugar = &logAddSugar
			}
			if cmd.Flags().Changed("serving-size") {
				entry.ServingSize = &logAddServingSize
			}
		}

		if logAddAt != "" {
			at, err := parseLogTime(logAddAt)
			if err != nil {
				fmt.Printf("❌ Could not read --at %q. Use YYYY-MM-DD or \"YYYY-MM-DD HH:MM\".\n", logAddAt)
				return err
			}
			entry.LoggedAt = &at
		}

		created, err := api.LogFood(cmd.Context(), sess.Token(), entry)
		if err != nil {
			showOperationError(err, "recording your food log")
			return err
		}

		fmt.Printf("✅ Logged %s for %s: %s kcal (P %s / C %s / F %s g)\n",
			created.FoodName, created.MealType,
			f1(created.Calories), f1(created.Protein), f1(created.Carbs), f1(created.Fat))
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List food diary entries",

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseLog {
			os.Setenv("MEALTRACK_VERBOSE", "1")
		}

		if logListMeal != "" && !isMealType(logListMeal) {
			fmt.Printf("❌ Unknown meal %q. Use one of: %s.\n", logListMeal, strings.Join(mealTypes, ", "))
			return errors.New("invalid meal type")
		}

		sess, api, err := openSession()
		if err != nil {
			showOperationError(err, "opening your session")
			return err
		}
		if !ensureSignedIn(sess) {
			return nil
		}

		start, end, err := logListWindow(time.Now())
		if err != nil {
			fmt.Printf("❌ Could not read --date %q. Use YYYY-MM-DD.\n", logListDate)
			return err
		}

		logs, err := api.Logs(cmd.Context(), sess.Token(), backend.LogQuery{
			Start:    start,
			End:      end,
			MealType: logListMeal,
			Limit:    logListLimit,
		})
		if err != nil {
			showOperationError(err, "loading your food logs")
			return err
		}
		if len(logs) == 0 {
			fmt.Println("🍽️  Nothing logged for this period yet.")
			fmt.Println("   Try 'mealtrack log add --food <id> --servings 1'.")
			return nil
		}

		rows := pterm.TableData{{"ID", "When", "Meal", "Food", "Servings", "kcal", "Protein", "Carbs", "Fat"}}
		var totalCalories, totalProtein, totalCarbs, totalFat float64
		for _, entry := range logs {
			rows = append(rows, []string{
				strconv.Itoa(entry.ID),
				entry.LoggedAt.Time.Local().Format("Jan _2 15:04"),
				entry.MealType,
				entry.FoodName,
				f1(entry.Servings),
				f1(entry.Calories),
				f1(entry.Protein),
				f1(entry.Carbs),
				f1(entry.Fat),
			})
			totalCalories += entry.Calories
			totalProtein += entry.Protein
			totalCarbs += entry.Carbs
			totalFat += entry.Fat
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}
		fmt.Printf("   Total: %s kcal (P %s / C %s / F %s g) across %d entries\n",
			f1(totalCalories), f1(totalProtein), f1(totalCarbs), f1(totalFat), len(logs))
		return nil
	},
}

var logRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a food diary entry",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseLog {
			os.Setenv("MEALTRACK_VERBOSE", "1")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("❌ %q is not a log id. Find ids with 'mealtrack log list'.\n", args[0])
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

		if err := api.DeleteLog(cmd.Context(), sess.Token(), id); err != nil {
			showOperationError(err, "removing the food log")
			return err
		}
		fmt.Printf("✅ Removed log entry %d.\n", id)
		return nil
	},
}

func isMealType(meal string) bool {
	for _, m := range mealTypes {
		if meal == m {
			return true
		}
	}
	return false
}

// scaled multiplies an optional nutrient by the serving count.
func scaled(v *float64, servings float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := *v * servings
	return &scaled
}

// parseLogTime accepts a date or a date with minutes, in local time.
func parseLogTime(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", raw)
}

// logListWindow resolves the --date / --days flags into a half-open range.
func logListWindow(now time.Time) (time.Time, time.Time, error) {
	if logListDate != "" {
		day, err := time.ParseInLocation("2006-01-02", logListDate, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return day, day.AddDate(0, 0, 1), nil
	}
	end := now
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if logListDays > 1 {
		start = start.AddDate(0, 0, -(logListDays - 1))
	}
	return start, end, nil
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logAddCmd)
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logRmCmd)
	logCmd.PersistentFlags().BoolVarP(&verboseLog, "verbose", "v", false, "Enable verbose debug output")

	logAddCmd.Flags().IntVar(&logAddFoodID, "food", 0, "Catalog food id to log")
	logAddCmd.Flags().StringVar(&logAddName, "name", "", "Food name for a manual entry")
	logAddCmd.Flags().StringVar(&logAddMeal, "meal", "", "Meal: breakfast, lunch, dinner or snack")
	logAddCmd.Flags().Float64Var(&logAddCalories, "calories", 0, "Calories (kcal)")
	logAddCmd.Flags().Float64Var(&logAddProtein, "protein", 0, "Protein (g)")
	logAddCmd.Flags().Float64Var(&logAddCarbs, "carbs", 0, "Carbohydrates (g)")
	logAddCmd.Flags().Float64Var(&logAddFat, "fat", 0, "Fat (g)")
	logAddCmd.Flags().Float64Var(&logAddServings, "servings", 1, "Number of servings")
	logAddCmd.Flags().StringVar(&logAddServingSize, "serving-size", "", "Serving description, e.g. \"1 cup\"")
	logAddCmd.Flags().Float64Var(&logAddFiber, "fiber", 0, "Fiber (g)")
	logAddCmd.Flags().Float64Var(&logAddSugar, "sugar", 0, "Sugar (g)")
	logAddCmd.Flags().StringVar(&logAddAt, "at", "", "When you ate it (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")

	logListCmd.Flags().StringVar(&logListDate, "date", "", "Show a single day (YYYY-MM-DD)")
	logListCmd.Flags().IntVar(&logListDays, "days", 1, "Show the last N days")
	logListCmd.Flags().StringVar(&logListMeal, "meal", "", "Only one meal: breakfast, lunch, dinner or snack")
	logListCmd.Flags().IntVar(&logListLimit, "limit", 100, "Maximum entries to list")
}
