// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mealtrack/cli/internal/backend"
)

var (
	verboseProfile bool

	profileSetName     string
	profileSetAge      int
	profileSetGender   string
	profileSetHeight   float64
	profileSetWeight   float64
	profileSetActivity string
	profileSetDiet     string
	profileSetGoals    string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long: `The profile command shows the account profile the service has for you:
name, body measurements, activity level, dietary preferences and goals.

Use 'profile set' with flags to change any of them, e.g.

  mealtrack profile set --weight 72.5 --activity moderate`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseProfile {
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

		profile, err := api.Me(cmd.Context(), sess.Token())
		if err != nil {
			showOperationError(err, "loading your profile")
			return err
		}

		printProfile(profile)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseProfile {
			os.Setenv("MEALTRACK_VERBOSE", "1")
		}

		var update backend.ProfileUpdate
		changed := false
		if cmd.Flags().Changed("name") {
			update.FullName = &profileSetName
			changed = true
		}
		if cmd.Flags().Changed("age") {
			update.Age = &profileSetAge
			changed = true
		}
		if cmd.Flags().Changed("gender") {
			update.Gender = &profileSetGender
			changed = true
		}
		if cmd.Flags().Changed("height") {
			update.Height = &profileSetHeight
			changed = true
		}
		if cmd.Flags().Changed("weight") {
			update.Weight = &profileSetWeight
			changed = true
		}
		if cmd.Flags().Changed("activity") {
			update.ActivityLevel = &profileSetActivity
			changed = true
		}
		if cmd.Flags().Changed("diet") {
			update.DietaryPreferences = &profileSetDiet
			changed = true
		}
		if cmd.Flags().Changed("goals") {
			update.Goals = &profileSetGoals
			changed = true
		}
		if !changed {
			fmt.Println("⚠️  Nothing to update. Pass at least one flag, e.g. --weight 72.5.")
			return errors.New("no profile fields given")
		}

		sess, api, err := openSession()
		if err != nil {
			showOperationError(err, "opening your session")
			return err
		}
		if !ensureSignedIn(sess) {
			return nil
		}

		profile, err := api.UpdateMe(cmd.Context(), sess.Token(), update)
		if err != nil {
			showOperationError(err, "updating your profile")
			return err
		}

		fmt.Println("✅ Profile updated!")
		printProfile(profile)
		return nil
	},
}

func printProfile(p *backend.Profile) {
	lines := []string{
		fmt.Sprintf("Email:    %s", p.Email),
		fmt.Sprintf("Name:     %s", p.FullName),
		fmt.Sprintf("Age:      %s", orDashInt(p.Age)),
		fmt.Sprintf("Gender:   %s", orDash(p.Gender)),
		fmt.Sprintf("Height:   %s", withUnit(p.Height, "cm")),
		fmt.Sprintf("Weight:   %s", withUnit(p.Weight, "kg")),
		fmt.Sprintf("Activity: %s", orDash(p.ActivityLevel)),
		fmt.Sprintf("Diet:     %s", orDash(p.DietaryPreferences)),
		fmt.Sprintf("Goals:    %s", orDash(p.Goals)),
	}
	if !p.CreatedAt.Time.IsZero() {
		lines = append(lines, fmt.Sprintf("Member since: %s", p.CreatedAt.Time.Local().Format("Jan 2, 2006")))
	}
	title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Your Profile")
	pterm.Println(pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(strings.Join(lines, "\n")))
}

func orDashInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func withUnit(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return f1(*v) + " " + unit
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.PersistentFlags().BoolVarP(&verboseProfile, "verbose", "v", false, "Enable verbose debug output")

	profileSetCmd.Flags().StringVar(&profileSetName, "name", "", "Full name")
	profileSetCmd.Flags().IntVar(&profileSetAge, "age", 0, "Age in years")
	profileSetCmd.Flags().StringVar(&profileSetGender, "gender", "", "Gender")
	profileSetCmd.Flags().Float64Var(&profileSetHeight, "height", 0, "Height in cm")
	profileSetCmd.Flags().Float64Var(&profileSetWeight, "weight", 0, "Weight in kg")
	profileSetCmd.Flags().StringVar(&profileSetActivity, "activity", "", "Activity level (sedentary, light, moderate, active, very_active)")
	profileSetCmd.Flags().StringVar(&profileSetDiet, "diet", "", "Dietary preferences")
	profileSetCmd.Flags().StringVar(&profileSetGoals, "goals", "", "Nutrition goals")
}
