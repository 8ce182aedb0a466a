// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mealtrack/cli/internal/backend"
)

var (
	verboseFood     bool
	foodSearchLimit int
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Look up foods in the catalog",
	Long: `The food command group looks up items in the Mealtrack food catalog.

Use 'food show <id>' to display the full nutrition facts for one item, or
'food search <query>' to find items by name.`,
}

var foodShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show nutrition facts for a food item",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseFood {
			os.Setenv("MEALTRACK_VERBOSE", "1")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("❌ %q is not a food id. Try 'mealtrack food search <name>' first.\n", args[0])
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

		item, err := api.Food(cmd.Context(), sess.Token(), id)
		if err != nil {
			showOperationError(err, "loading the food item")
			return err
		}

		printFoodFacts(item)
		return nil
	},
}

var foodSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the food catalog by name",
	Args:  cobra.MinimumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseFood {
			os.Setenv("MEALTRACK_VERBOSE", "1")
		}

		sess, api, err := openSession()
		if err != nil {
			showOperationError(err, "opening your session")
			return err
		}
		if !ensureSignedIn(sess) {
			return nil
		}

		query := strings.Join(args, " ")
		items, err := api.SearchFoods(cmd.Context(), sess.Token(), query, foodSearchLimit)
		if err != nil {
			showOperationError(err, "searching for foods")
			return err
		}
		if len(items) == 0 {
			fmt.Printf("🔍 No foods matched %q. Try a shorter query.\n", query)
			return nil
		}

		rows := pterm.TableData{{"ID", "Name", "Brand", "Serving", "kcal", "Protein", "Carbs", "Fat"}}
		for _, item := range items {
			rows = append(rows, []string{
				strconv.Itoa(item.ID),
				item.Name,
				orDash(item.Brand),
				item.ServingSize,
				f1(item.Calories),
				f1(item.Protein),
				f1(item.Carbs),
				f1(item.Fat),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}
		fmt.Println("   Run 'mealtrack food show <id>' for full nutrition facts.")
		return nil
	},
}

// printFoodFacts renders one catalog item as a nutrition-facts box. Optional
// nutrients are only shown when the catalog actually has a value for them.
func printFoodFacts(item *backend.FoodItem) {
	lines := []string{
		fmt.Sprintf("Serving size: %s", item.ServingSize),
		fmt.Sprintf("Calories:     %s kcal", f1(item.Calories)),
		fmt.Sprintf("Protein:      %s g", f1(item.Protein)),
		fmt.Sprintf("Carbs:        %s g", f1(item.Carbs)),
		fmt.Sprintf("Fat:          %s g", f1(item.Fat)),
	}
	optional := []struct {
		label string
		value *float64
		unit  string
	}{
		{"Saturated fat", item.SaturatedFat, "g"},
		{"Trans fat", item.TransFat, "g"},
		{"Fiber", item.Fiber, "g"},
		{"Sugar", item.Sugar, "g"},
		{"Sodium", item.Sodium, "mg"},
		{"Cholesterol", item.Cholesterol, "mg"},
		{"Potassium", item.Potassium, "mg"},
	}
	for _, n := range optional {
		if n.value != nil {
			lines = append(lines, fmt.Sprintf("%-13s %s %s", n.label+":", f1(*n.value), n.unit))
		}
	}
	if item.Brand != nil && *item.Brand != "" {
		lines = append(lines, fmt.Sprintf("Brand:        %s", *item.Brand))
	}
	if item.Category != nil && *item.Category != "" {
		lines = append(lines, fmt.Sprintf("Category:     %s", *item.Category))
	}

	name := item.Name
	if item.IsVerified {
		name += " ✅"
	}
	title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint(name)
	box := pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(strings.Join(lines, "\n"))
	pterm.Println(box)
	fmt.Printf("   Log it with 'mealtrack log add --food %d --servings 1'.\n", item.ID)
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodShowCmd)
	foodCmd.AddCommand(foodSearchCmd)
	foodCmd.PersistentFlags().BoolVarP(&verboseFood, "verbose", "v", false, "Enable verbose debug output")
	foodSearchCmd.Flags().IntVar(&foodSearchLimit, "limit", 10, "Maximum number of results")
}
